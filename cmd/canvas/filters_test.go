package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gocanvas/canvas"
	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
)

func parseFilters(t *testing.T, args ...string) (*filterFlags, error) {
	t.Helper()
	var f filterFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f.register(fs)
	return &f, fs.Parse(args)
}

func TestNoFiltersByDefault(t *testing.T) {
	f, err := parseFilters(t)
	require.NoError(t, err)
	out, err := f.build()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilterChain(t *testing.T) {
	f, err := parseFilters(t, "-invert", "-reverb", "0.5", "-chorus", "0.3",
		"-tremolo", "0.5", "-tremolo-shape", "square", "-harmonics", "0.5,0.25",
		"-scale", "minor", "-root", "A")
	require.NoError(t, err)
	out, err := f.build()
	require.NoError(t, err)
	require.Len(t, out, 6)

	tab, err := freq.New(24, 100, 4000, 48000)
	require.NoError(t, err)
	g, _ := grid.New(8, 24)
	for _, fn := range out {
		require.NoError(t, fn(g, tab))
	}
	// invert runs last, so silence becomes full scale somewhere
	assert.Equal(t, 1.0, g.Max())
}

func TestFilterFlagErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-scale", "blues"},
		{"-scale", "major", "-root", "H"},
		{"-harmonics", "1,2,3,4,5"},
		{"-harmonics", "x"},
		{"-tremolo", "1", "-tremolo-shape", "wobble"},
	} {
		f, err := parseFilters(t, args...)
		require.NoError(t, err)
		_, err = f.build()
		assert.ErrorIs(t, err, canvas.ErrConfiguration, "%v", args)
	}
}

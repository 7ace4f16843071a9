package synth

import (
	"math"
	"testing"

	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
	"github.com/neurlang/gocanvas/wavetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSynth(t *testing.T, bins int, cfg Config) (*Synthesizer, *freq.Table) {
	t.Helper()
	tab, err := freq.New(bins, 200, 8000, cfg.SampleRate)
	require.NoError(t, err)
	wt, err := wavetable.New(wavetable.DefaultSize)
	require.NoError(t, err)
	s, err := New(cfg, tab, wt)
	require.NoError(t, err)
	return s, tab
}

func TestConfigErrors(t *testing.T) {
	tab, _ := freq.New(8, 200, 8000, 48000)
	wt, _ := wavetable.New(64)

	_, err := New(Config{SampleRate: 48000, HopLength: 0}, tab, wt)
	assert.ErrorIs(t, err, grid.ErrConfiguration)

	_, err = New(Config{SampleRate: 0, HopLength: 10}, tab, wt)
	assert.ErrorIs(t, err, grid.ErrConfiguration)

	_, err = New(Config{SampleRate: 8000, HopLength: 10}, tab, wt)
	assert.ErrorIs(t, err, grid.ErrConfiguration, "8 kHz is above Nyquist at 8 kHz")

	_, err = New(Config{SampleRate: 48000, HopLength: 10, Gain: -1}, tab, wt)
	assert.ErrorIs(t, err, grid.ErrConfiguration)
}

func TestEmptyGrid(t *testing.T) {
	s, _ := newSynth(t, 8, Config{SampleRate: 48000, HopLength: 100})
	g, _ := grid.New(0, 8)

	out, err := s.Render(g)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Empty(t, out[0])
	assert.Empty(t, out[1])
}

func TestSilence(t *testing.T) {
	s, _ := newSynth(t, 8, Config{SampleRate: 48000, HopLength: 100})
	g, _ := grid.New(5, 8)

	out, err := s.Render(g)
	require.NoError(t, err)
	require.Len(t, out[0], 500)
	for ch := range out {
		for i, v := range out[ch] {
			require.Zero(t, v, "channel %d sample %d", ch, i)
		}
	}
}

func TestBinMismatch(t *testing.T) {
	s, _ := newSynth(t, 8, Config{SampleRate: 48000, HopLength: 100})
	g, _ := grid.New(5, 9)
	_, err := s.Render(g)
	assert.ErrorIs(t, err, grid.ErrConfiguration)
}

func TestSingleOscillatorIsSine(t *testing.T) {
	s, tab := newSynth(t, 4, Config{SampleRate: 48000, HopLength: 256, Gain: 1})
	g, _ := grid.New(70, 4)
	for f := 0; f < g.Frames(); f++ {
		g.Set(f, 2, 0.5, 0)
	}

	out, err := s.Render(g)
	require.NoError(t, err)

	hz := tab.At(2)
	for i := 0; i < len(out[0]); i += 37 {
		want := 0.5 * math.Sin(2*math.Pi*hz*float64(i)/48000)
		require.InDelta(t, want, out[0][i], 1e-4, "sample %d", i)
		require.Zero(t, out[1][i])
	}
}

func TestDefaultGainBoundsOutput(t *testing.T) {
	s, _ := newSynth(t, 16, Config{SampleRate: 48000, HopLength: 128})
	assert.InDelta(t, 1.0/16, s.Gain(), 0)

	g, _ := grid.New(10, 16)
	for f := 0; f < 10; f++ {
		for b := 0; b < 16; b++ {
			g.Set(f, b, 1, 1)
		}
	}
	out, err := s.Render(g)
	require.NoError(t, err)
	for _, v := range out[0] {
		require.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestChannelsFollowGrid(t *testing.T) {
	s, _ := newSynth(t, 8, Config{SampleRate: 48000, HopLength: 64})

	same, _ := grid.New(6, 8)
	diff, _ := grid.New(6, 8)
	for f := 0; f < 6; f++ {
		for b := 0; b < 8; b++ {
			v := float64(f*8+b) / 48
			same.Set(f, b, v, v)
			diff.Set(f, b, v, 1-v)
		}
	}

	out, err := s.Render(same)
	require.NoError(t, err)
	assert.Equal(t, out[0], out[1])

	out, err = s.Render(diff)
	require.NoError(t, err)
	assert.NotEqual(t, out[0], out[1])
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	one, _ := newSynth(t, 12, Config{SampleRate: 48000, HopLength: 50, Workers: 1})
	many, _ := newSynth(t, 12, Config{SampleRate: 48000, HopLength: 50, Workers: 7})

	g, _ := grid.New(100, 12)
	for f := 0; f < 100; f++ {
		for b := 0; b < 12; b++ {
			g.Set(f, b, float64((f+b)%5)/4, float64((f*b)%3)/2)
		}
	}

	a, err := one.Render(g)
	require.NoError(t, err)
	b, err := many.Render(g)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSmoothRampsFromPreviousFrame(t *testing.T) {
	s, _ := newSynth(t, 1, Config{SampleRate: 48000, HopLength: 100, Gain: 1, Smooth: true})
	g, _ := grid.New(2, 1)
	g.Set(0, 0, 0, 0)
	g.Set(1, 0, 1, 1)

	out, err := s.Render(g)
	require.NoError(t, err)

	// the first frame stays silent; the second starts quiet and ends loud
	for i := 0; i < 100; i++ {
		require.Zero(t, out[0][i])
	}
	var early, late float64
	for i := 100; i < 120; i++ {
		early = math.Max(early, math.Abs(out[0][i]))
	}
	for i := 180; i < 200; i++ {
		late = math.Max(late, math.Abs(out[0][i]))
	}
	assert.Less(t, early, late)
}

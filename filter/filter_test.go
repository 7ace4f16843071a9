package filter

import (
	"math"
	"testing"

	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(t *testing.T, frames, bins int, v float64) *grid.Grid {
	t.Helper()
	g, err := grid.New(frames, bins)
	require.NoError(t, err)
	for f := 0; f < frames; f++ {
		for b := 0; b < bins; b++ {
			g.Set(f, b, v, v)
		}
	}
	return g
}

func inRange(t *testing.T, g *grid.Grid) {
	t.Helper()
	for f := 0; f < g.Frames(); f++ {
		for _, c := range g.Frame(f) {
			require.True(t, c[0] >= 0 && c[0] <= 1 && c[1] >= 0 && c[1] <= 1, "%v", c)
		}
	}
}

func TestInvert(t *testing.T) {
	g := filled(t, 2, 3, 0.25)
	g.Set(1, 2, 1, 0)
	Invert(g)
	assert.Equal(t, [2]float64{0.75, 0.75}, g.At(0, 0))
	assert.Equal(t, [2]float64{0, 1}, g.At(1, 2))
}

func TestReverbExtendsTail(t *testing.T) {
	g, _ := grid.New(10, 4)
	g.Set(2, 0, 1, 0.5)
	Reverb(g, 1, 0, false)

	assert.Zero(t, g.At(1, 0)[0])
	assert.Equal(t, 1.0, g.At(2, 0)[0])
	prev := 1.0
	for f := 3; f < 10; f++ {
		v := g.At(f, 0)[0]
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, prev)
		prev = v
	}
	assert.InDelta(t, g.At(5, 0)[0]/2, g.At(5, 0)[1], 1e-12)
}

func TestReverbReverse(t *testing.T) {
	g, _ := grid.New(10, 4)
	g.Set(7, 1, 1, 1)
	Reverb(g, 1, 0, true)
	assert.Greater(t, g.At(3, 1)[0], 0.0)
	assert.Zero(t, g.At(8, 1)[0])
}

func TestReverbDampingCutsHighestBin(t *testing.T) {
	g, _ := grid.New(5, 4)
	g.Set(0, 3, 1, 1)
	Reverb(g, 1, 1, false)
	assert.Zero(t, g.At(1, 3)[0])
}

func TestChorusIsSeededAndAttenuates(t *testing.T) {
	a := filled(t, 50, 20, 0.8)
	b := filled(t, 50, 20, 0.8)
	Chorus(a, 0.5, 0.5, 42)
	Chorus(b, 0.5, 0.5, 42)
	for f := 0; f < 50; f++ {
		require.Equal(t, a.Frame(f), b.Frame(f))
		for _, c := range a.Frame(f) {
			require.LessOrEqual(t, c[0], 0.8)
			require.GreaterOrEqual(t, c[0], 0.8*0.5-1e-12)
		}
	}
	assert.NotEqual(t, a.At(10, 5)[0], a.At(10, 5)[1])
}

func TestTremoloShapes(t *testing.T) {
	for _, s := range []Shape{Sine, Triangle, Square, SawDown, SawUp} {
		for p := 0.0; p < 1; p += 0.05 {
			v := s.lfo(p)
			require.True(t, v >= 0 && v <= 1, "%v at %v", s, p)
		}
		parsed, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.Equal(t, 1.0, Sine.lfo(0))
	assert.InDelta(t, 0, Sine.lfo(0.5), 1e-12)
	assert.Equal(t, 1.0, Triangle.lfo(0.5))
	assert.Equal(t, 0.0, Square.lfo(0.75))

	_, err := ParseShape("wobble")
	assert.ErrorIs(t, err, grid.ErrConfiguration)
}

func TestTremoloModulates(t *testing.T) {
	g := filled(t, 16, 3, 1)
	require.NoError(t, Tremolo(g, 0, 1, Square, 1))
	// one cycle over the grid: first half on, second half off
	assert.Equal(t, [2]float64{1, 0}, g.At(2, 0))
	assert.Equal(t, [2]float64{0, 1}, g.At(12, 2))
	inRange(t, g)

	assert.ErrorIs(t, Tremolo(g, 0, 1, Shape(9), 0), grid.ErrConfiguration)
}

func octaveTable(t *testing.T) *freq.Table {
	t.Helper()
	// 110, 220, 440, 880, 1760 Hz
	tab, err := freq.New(5, 110, 1760, 48000)
	require.NoError(t, err)
	return tab
}

func TestHarmonics(t *testing.T) {
	tab := octaveTable(t)
	g, _ := grid.New(1, 5)
	g.Set(0, 1, 0.5, 0.2)

	require.NoError(t, Harmonics(g, tab, [4]float64{1, 0, 0.5, 0}, false))
	assert.Equal(t, [2]float64{0.5, 0.2}, g.At(0, 1))
	assert.Equal(t, [2]float64{0.5, 0.2}, g.At(0, 2))
	assert.Equal(t, [2]float64{0.25, 0.1}, g.At(0, 3))
	assert.Zero(t, g.At(0, 0)[0])

	g, _ = grid.New(1, 5)
	g.Set(0, 3, 1, 1)
	require.NoError(t, Harmonics(g, tab, [4]float64{0.5, 0, 0, 0}, true))
	assert.Equal(t, [2]float64{0.5, 0.5}, g.At(0, 2))
	assert.Zero(t, g.At(0, 4)[0])

	bad, _ := grid.New(1, 4)
	assert.ErrorIs(t, Harmonics(bad, tab, [4]float64{}, false), grid.ErrConfiguration)
}

func TestScaleKeepsScaleNotes(t *testing.T) {
	// one bin per semitone from A3
	tab, err := freq.New(13, 220, 440, 48000)
	require.NoError(t, err)
	g := filled(t, 2, 13, 1)
	c, err := ParseRoot("C")
	require.NoError(t, err)
	require.NoError(t, Scale(g, tab, c, Major))

	// C major above A3: A B C D E F G A
	want := []bool{true, false, true, true, false, true, false, true, true, false, true, false, true}
	for bin, keep := range want {
		hz := tab.At(bin)
		require.InDelta(t, 0, 12*math.Log2(hz/220)-float64(bin), 1e-9)
		if keep {
			assert.Equal(t, 1.0, g.At(1, bin)[0], "bin %d", bin)
		} else {
			assert.Zero(t, g.At(1, bin)[0], "bin %d", bin)
		}
	}
}

func TestScaleDropsQuarterTones(t *testing.T) {
	// 24 steps per octave: every other bin is a quarter tone
	tab, err := freq.New(25, 220, 440, 48000)
	require.NoError(t, err)
	g := filled(t, 1, 25, 1)
	require.NoError(t, Scale(g, tab, 0, WholeTone))
	for bin := 1; bin < 25; bin += 2 {
		assert.Zero(t, g.At(0, bin)[0])
	}
	assert.Equal(t, 1.0, g.At(0, 0)[0])
	assert.Equal(t, 1.0, g.At(0, 4)[0])
	assert.Zero(t, g.At(0, 2)[0])
}

func TestScaleErrors(t *testing.T) {
	tab := octaveTable(t)
	g, _ := grid.New(1, 5)
	assert.ErrorIs(t, Scale(g, tab, 12, Major), grid.ErrConfiguration)
	assert.ErrorIs(t, Scale(g, tab, 0, ScaleClass(8)), grid.ErrConfiguration)

	for i, name := range scaleNames {
		c, err := ParseScale(name)
		require.NoError(t, err)
		assert.Equal(t, ScaleClass(i), c)
		assert.Equal(t, name, c.String())
	}
	_, err := ParseScale("blues")
	assert.ErrorIs(t, err, grid.ErrConfiguration)
	_, err = ParseRoot("H")
	assert.ErrorIs(t, err, grid.ErrConfiguration)
}

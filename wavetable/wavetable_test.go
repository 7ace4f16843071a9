package wavetable

import (
	"math"
	"sync"
	"testing"

	"github.com/neurlang/gocanvas/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsSmallTables(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		_, err := New(n)
		assert.ErrorIs(t, err, grid.ErrConfiguration, "size %d", n)
	}
}

func TestLookupMatchesSine(t *testing.T) {
	tab, err := New(DefaultSize)
	require.NoError(t, err)

	n := float64(tab.Size())
	for _, phase := range []float64{0, 1, 10.5, 511.25, 1024, 2047.9, 3000, -5} {
		want := math.Sin(2 * math.Pi * phase / n)
		assert.InDelta(t, want, tab.Lookup(phase), 1e-5, "phase %v", phase)
	}
}

func TestLookupExactAtTablePoints(t *testing.T) {
	tab, _ := New(4)
	assert.InDelta(t, 0, tab.Lookup(0), 1e-15)
	assert.InDelta(t, 1, tab.Lookup(1), 1e-15)
	assert.InDelta(t, 0.5, tab.Lookup(0.5), 1e-15)
	// wraps from the last entry back to the first
	assert.InDelta(t, -0.5, tab.Lookup(3.5), 1e-15)
}

func TestWrap(t *testing.T) {
	tab, _ := New(8)
	assert.Equal(t, 3.0, tab.Wrap(3))
	assert.Equal(t, 1.0, tab.Wrap(9))
	assert.Equal(t, 7.0, tab.Wrap(-1))
	assert.Equal(t, 0.0, tab.Wrap(8))
}

func TestPhaseAtMatchesAccumulator(t *testing.T) {
	tab, _ := New(DefaultSize)
	inc := tab.Increment(440, 48000)

	var phase float64
	for i := 0; i < 10000; i++ {
		phase = tab.Wrap(phase + inc)
	}
	assert.InDelta(t, phase, tab.PhaseAt(inc, 10000), 1e-6)
}

func TestConcurrentLookup(t *testing.T) {
	tab, _ := New(DefaultSize)
	want := tab.Lookup(123.4)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if got := tab.Lookup(123.4); got != want {
					t.Errorf("lookup = %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// Package wavetable provides a precomputed single-cycle sine table with
// linear phase interpolation, shared read-only by all oscillators.
package wavetable

import (
	"fmt"
	"math"

	"github.com/neurlang/gocanvas/grid"
)

// DefaultSize matches the 2048-entry sine table of the canvas synthesizer.
const DefaultSize = 2048

// Table holds one period of a sine wave. It is immutable after New and safe
// for concurrent lookups.
type Table struct {
	samples []float64
}

// New precomputes size samples of sin(2*pi*i/size).
func New(size int) (*Table, error) {
	if size <= 1 {
		return nil, fmt.Errorf("%w: wavetable size must be > 1, got %d", grid.ErrConfiguration, size)
	}
	s := make([]float64, size)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * float64(i) / float64(size))
	}
	return &Table{samples: s}, nil
}

// Size returns the number of samples in one period.
func (t *Table) Size() int { return len(t.samples) }

// Increment returns the per-sample phase advance, in table units, of an
// oscillator at hz.
func (t *Table) Increment(hz, sampleRate float64) float64 {
	return hz / sampleRate * float64(len(t.samples))
}

// Wrap folds phase into [0, Size).
func (t *Table) Wrap(phase float64) float64 {
	n := float64(len(t.samples))
	if phase >= 0 && phase < n {
		return phase
	}
	phase = math.Mod(phase, n)
	if phase < 0 {
		phase += n
	}
	return phase
}

// Lookup returns the linearly interpolated sample at phase, in table units.
func (t *Table) Lookup(phase float64) float64 {
	phase = t.Wrap(phase)
	i := int(phase)
	frac := phase - float64(i)
	n := len(t.samples)
	if i >= n {
		i = n - 1
	}
	j := i + 1
	if j == n {
		j = 0
	}
	return t.samples[i]*(1-frac) + t.samples[j]*frac
}

// PhaseAt returns the wrapped phase an oscillator starting at zero reaches
// after n samples, without accumulating rounding error.
func (t *Table) PhaseAt(inc float64, n int) float64 {
	size := float64(len(t.samples))
	cycles := inc / size * float64(n)
	_, frac := math.Modf(cycles)
	return t.Wrap(frac * size)
}

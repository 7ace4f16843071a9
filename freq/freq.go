package freq

import (
	"fmt"
	"math"

	"github.com/neurlang/gocanvas/grid"
)

// Default band and bin count.
const (
	DefaultBins = 239
	DefaultLow  = 20.0
	DefaultHigh = 20000.0
)

// Table is an immutable, strictly increasing set of bin center frequencies.
type Table struct {
	hz []float64
}

// New builds bins frequencies spaced logarithmically from low to high
// inclusive. high must not exceed the Nyquist frequency of sampleRate.
func New(bins int, low, high, sampleRate float64) (*Table, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bin count must be positive, got %d", grid.ErrConfiguration, bins)
	}
	for _, v := range []float64{low, high, sampleRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite frequency parameter %v", grid.ErrConfiguration, v)
		}
	}
	if low <= 0 || low >= high {
		return nil, fmt.Errorf("%w: frequency bounds %v..%v", grid.ErrConfiguration, low, high)
	}
	if sampleRate <= 0 || high > sampleRate/2 {
		return nil, fmt.Errorf("%w: upper frequency %v exceeds Nyquist of %v Hz", grid.ErrConfiguration, high, sampleRate)
	}

	hz := make([]float64, bins)
	if bins == 1 {
		hz[0] = low
		return &Table{hz: hz}, nil
	}
	ratio := math.Log(high / low)
	for i := range hz {
		hz[i] = low * math.Exp(ratio*float64(i)/float64(bins-1))
	}
	hz[bins-1] = high
	return &Table{hz: hz}, nil
}

// Len returns the bin count.
func (t *Table) Len() int { return len(t.hz) }

// At returns the center frequency of bin i.
func (t *Table) At(i int) float64 { return t.hz[i] }

// Frequencies returns a copy of all center frequencies.
func (t *Table) Frequencies() []float64 {
	out := make([]float64, len(t.hz))
	copy(out, t.hz)
	return out
}

// Low returns the lowest center frequency.
func (t *Table) Low() float64 { return t.hz[0] }

// High returns the highest center frequency.
func (t *Table) High() float64 { return t.hz[len(t.hz)-1] }

// Nearest returns the bin closest to hz on a logarithmic scale, or -1 when
// hz lies more than half a bin step outside the table.
func (t *Table) Nearest(hz float64) int {
	if hz <= 0 || len(t.hz) == 0 {
		return -1
	}
	target := math.Log(hz)
	best, bestDist := -1, math.Inf(1)
	for i, f := range t.hz {
		d := math.Abs(math.Log(f) - target)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if len(t.hz) > 1 {
		step := math.Log(t.hz[1] / t.hz[0])
		if bestDist > step/2 {
			return -1
		}
	} else if bestDist > 0 {
		return -1
	}
	return best
}

// Edges returns the neighbour frequencies bounding bin i. The outermost bins
// extrapolate with the table's own spacing ratio.
func (t *Table) Edges(i int) (lo, hi float64) {
	n := len(t.hz)
	if n == 1 {
		return t.hz[0] / math.Sqrt2, t.hz[0] * math.Sqrt2
	}
	if i > 0 {
		lo = t.hz[i-1]
	} else {
		lo = t.hz[0] * t.hz[0] / t.hz[1]
	}
	if i < n-1 {
		hi = t.hz[i+1]
	} else {
		hi = t.hz[n-1] * t.hz[n-1] / t.hz[n-2]
	}
	return lo, hi
}

package filter

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/neurlang/gocanvas/grid"
)

// Invert replaces every amplitude v with 1-v.
func Invert(g *grid.Grid) {
	for f := 0; f < g.Frames(); f++ {
		for i, c := range g.Frame(f) {
			g.Set(f, i, 1-grid.Clamp01(c[0]), 1-grid.Clamp01(c[1]))
		}
	}
}

// Reverb lets every bin decay instead of stopping: each cell becomes the
// larger of itself and the previous frame's value times a per-bin factor.
// decay scales the tail length relative to the grid width; damping shortens
// the tails of high bins. With reverse the tail runs backwards in time.
func Reverb(g *grid.Grid, decay, damping float64, reverse bool) {
	frames, bins := g.Frames(), g.Bins()
	base := 1 + decay*float64(frames)*2
	for bin := 0; bin < bins; bin++ {
		// 0 for the highest bin, approaching 1 for the lowest
		pos := float64(bins-1-bin) / float64(bins)
		k := math.Pow(0.001, 1/(base*math.Pow(pos, damping)))
		var last [2]float64
		for i := 0; i < frames; i++ {
			f := i
			if reverse {
				f = frames - 1 - i
			}
			c := g.At(f, bin)
			for ch := range c {
				c[ch] = max(last[ch]*k, grid.Clamp01(c[ch]))
			}
			g.Set(f, bin, c[0], c[1])
			last = c
		}
	}
}

// randomLFO ramps linearly between uniformly random targets.
type randomLFO struct {
	rng             *rand.Rand
	period, t       int
	current, target float64
}

func newRandomLFO(rng *rand.Rand, period int) *randomLFO {
	return &randomLFO{rng: rng, period: period, current: rng.Float64(), target: rng.Float64()}
}

func (l *randomLFO) next() float64 {
	p := float64(l.period)
	v := l.current*(p-float64(l.t))/p + l.target*float64(l.t)/p
	l.t++
	if l.t >= l.period {
		l.t = 0
		l.current = l.target
		l.target = l.rng.Float64()
	}
	return v
}

// Chorus attenuates every bin by an independent slowly wandering random
// envelope per channel, 1-lfo*depth. Higher bins wander faster; rate speeds
// up all of them. The same seed gives the same result.
func Chorus(g *grid.Grid, rate, depth float64, seed int64) {
	frames := g.Frames()
	for bin := 0; bin < g.Bins(); bin++ {
		rng := rand.New(rand.NewSource(seed + int64(bin)))
		period := 1000 / float64(max(bin, 1)) / (0.05 + max(rate, 0))
		n := max(1, int(min(period, float64(frames)+1)))
		lfos := [2]*randomLFO{newRandomLFO(rng, n), newRandomLFO(rng, n)}
		for f := 0; f < frames; f++ {
			c := g.At(f, bin)
			for ch := range c {
				c[ch] = grid.Clamp01(c[ch] * (1 - lfos[ch].next()*depth))
			}
			g.Set(f, bin, c[0], c[1])
		}
	}
}

// Shape is the waveform of the tremolo LFO.
type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
	SawDown
	SawUp
)

// ParseShape accepts sine, triangle, square, saw-down and saw-up.
func ParseShape(s string) (Shape, error) {
	for i, name := range shapeNames {
		if s == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tremolo shape %q", grid.ErrConfiguration, s)
}

var shapeNames = [...]string{"sine", "triangle", "square", "saw-down", "saw-up"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// lfo returns the shape's value in [0,1] at phase in [0,1).
func (s Shape) lfo(phase float64) float64 {
	phase -= math.Floor(phase)
	switch s {
	case Sine:
		return math.Cos(phase*2*math.Pi)*0.5 + 0.5
	case Triangle:
		if phase >= 0.5 {
			return 2 - 2*phase
		}
		return 2 * phase
	case Square:
		if phase < 0.5 {
			return 1
		}
		return 0
	case SawDown:
		// squared, it sounds less abrupt
		return (1 - phase) * (1 - phase)
	case SawUp:
		return phase
	}
	return 0
}

// Tremolo modulates all bins with a periodic LFO. The period is
// frames^(1-rate) frames, so rate 0 gives one cycle over the whole grid and
// rate 1 one cycle per frame. The right channel runs stereo/2 cycles ahead.
func Tremolo(g *grid.Grid, rate, depth float64, shape Shape, stereo float64) error {
	if shape < Sine || shape > SawUp {
		return fmt.Errorf("%w: unknown tremolo shape %d", grid.ErrConfiguration, shape)
	}
	frames := g.Frames()
	inc := 1 / math.Pow(float64(frames), 1-rate)
	for f := 0; f < frames; f++ {
		phase := float64(f) * inc
		left := 1 - (1-shape.lfo(phase))*depth
		right := 1 - (1-shape.lfo(phase+0.5*stereo))*depth
		for bin, c := range g.Frame(f) {
			g.Set(f, bin, grid.Clamp01(c[0]*left), grid.Clamp01(c[1]*right))
		}
	}
	return nil
}

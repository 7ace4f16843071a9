package synth

import (
	"fmt"
	"runtime"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
	"github.com/neurlang/gocanvas/wavetable"
)

// blockFrames is the number of frames rendered by one task. It is fixed so
// the output does not depend on the worker count.
const blockFrames = 32

// Config controls rendering.
type Config struct {
	// SampleRate of the rendered audio in Hz.
	SampleRate float64
	// HopLength is the number of samples per grid frame.
	HopLength int
	// Gain applied to every oscillator. Zero selects 1/bins, which keeps
	// the summed output within [-1, 1].
	Gain float64
	// Smooth ramps each amplitude linearly from the previous frame instead
	// of holding it constant.
	Smooth bool
	// Workers bounds concurrent tasks; <= 0 uses GOMAXPROCS.
	Workers int
}

// Synthesizer is an additive oscillator bank, one oscillator per bin.
type Synthesizer struct {
	cfg   Config
	table *wavetable.Table
	incs  []float64
}

// New creates a synthesizer for the given frequencies and wavetable.
func New(cfg Config, freqs *freq.Table, table *wavetable.Table) (*Synthesizer, error) {
	if cfg.HopLength <= 0 {
		return nil, fmt.Errorf("%w: hop length must be positive, got %d", grid.ErrConfiguration, cfg.HopLength)
	}
	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %v", grid.ErrConfiguration, cfg.SampleRate)
	}
	if freqs.High() > cfg.SampleRate/2 {
		return nil, fmt.Errorf("%w: %v Hz is above Nyquist at %v Hz", grid.ErrConfiguration, freqs.High(), cfg.SampleRate)
	}
	if cfg.Gain < 0 {
		return nil, fmt.Errorf("%w: negative gain %v", grid.ErrConfiguration, cfg.Gain)
	}
	if cfg.Gain == 0 {
		cfg.Gain = 1 / float64(freqs.Len())
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	incs := make([]float64, freqs.Len())
	for i := range incs {
		incs[i] = table.Increment(freqs.At(i), cfg.SampleRate)
	}
	return &Synthesizer{cfg: cfg, table: table, incs: incs}, nil
}

// Gain returns the effective per-oscillator gain.
func (s *Synthesizer) Gain() float64 { return s.cfg.Gain }

// Render turns a grid into two channels of Frames*HopLength samples.
func (s *Synthesizer) Render(g *grid.Grid) ([][]float64, error) {
	if g.Bins() != len(s.incs) {
		return nil, fmt.Errorf("%w: grid has %d bins, synthesizer has %d", grid.ErrConfiguration, g.Bins(), len(s.incs))
	}
	n := g.Frames() * s.cfg.HopLength
	out := [][]float64{make([]float64, n), make([]float64, n)}

	var eg errgroup.Group
	eg.SetLimit(s.cfg.Workers)
	for start := 0; start < g.Frames(); start += blockFrames {
		end := min(start+blockFrames, g.Frames())
		eg.Go(func() error {
			s.renderBlock(g, start, end, out)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// renderBlock writes samples of frames [start, end) into out. Every bin's
// phase is derived from the absolute sample index of the block start.
func (s *Synthesizer) renderBlock(g *grid.Grid, start, end int, out [][]float64) {
	hop := s.cfg.HopLength
	osc := make([]float64, hop)
	tmp := make([]float64, hop)
	ramp := make([]float64, hop)

	for bin, inc := range s.incs {
		phase := s.table.PhaseAt(inc, start*hop)
		for f := start; f < end; f++ {
			cur := g.At(f, bin)
			cur[0], cur[1] = grid.Clamp01(cur[0]), grid.Clamp01(cur[1])
			var prev [2]float64
			if s.cfg.Smooth && f > 0 {
				p := g.At(f-1, bin)
				prev[0], prev[1] = grid.Clamp01(p[0]), grid.Clamp01(p[1])
			} else {
				prev = cur
			}

			if cur == [2]float64{} && prev == cur {
				phase = s.table.Wrap(phase + inc*float64(hop))
				continue
			}

			for i := range osc {
				osc[i] = s.table.Lookup(phase)
				phase = s.table.Wrap(phase + inc)
			}

			lo := f * hop
			for ch := 0; ch < 2; ch++ {
				dst := out[ch][lo : lo+hop]
				if prev[ch] == cur[ch] {
					if cur[ch] == 0 {
						continue
					}
					vecmath.ScaleBlock(tmp, osc, cur[ch]*s.cfg.Gain)
				} else {
					step := (cur[ch] - prev[ch]) / float64(hop)
					for i := range ramp {
						ramp[i] = (prev[ch] + step*float64(i+1)) * s.cfg.Gain
					}
					vecmath.MulBlock(tmp, osc, ramp)
				}
				vecmath.AddBlockInPlace(dst, tmp)
			}
		}
	}
}

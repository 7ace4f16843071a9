package analyze

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
)

// Normalization selects how bin magnitudes are mapped into [0,1].
type Normalization int

const (
	// NormalizeFixed divides the amplitude estimate by Config.Reference, so
	// a sinusoid of the reference amplitude maps to about 1.
	NormalizeFixed Normalization = iota
	// NormalizePeak divides every cell by the loudest cell of the input.
	NormalizePeak
)

// Method selects the per-bin magnitude estimator.
type Method int

const (
	// MethodGoertzel correlates each hop-sized frame with every bin frequency.
	MethodGoertzel Method = iota
	// MethodSpectral sums triangular-weighted FFT magnitudes around each bin.
	MethodSpectral
)

// DefaultSpectralSize is the FFT length of MethodSpectral.
const DefaultSpectralSize = 4096

// framesPerTask is the number of frames analyzed by one task.
const framesPerTask = 16

// Config controls analysis.
type Config struct {
	// HopLength is the number of samples per frame at DesignRate.
	HopLength int
	// DesignRate is the sample rate HopLength refers to. Inputs at other
	// rates get a proportionally rescaled hop.
	DesignRate    float64
	Normalization Normalization
	Method        Method
	// Reference is the sinusoid amplitude mapped to 1 by NormalizeFixed;
	// zero selects 1.
	Reference float64
	// SpectralSize is the FFT length for MethodSpectral; zero selects
	// DefaultSpectralSize.
	SpectralSize int
	// Workers bounds concurrent tasks; <= 0 uses GOMAXPROCS.
	Workers int
}

// Analyzer turns PCM audio into a canvas grid.
type Analyzer struct {
	cfg   Config
	freqs *freq.Table
}

// New validates cfg and returns an analyzer for the given bins.
func New(cfg Config, freqs *freq.Table) (*Analyzer, error) {
	if cfg.HopLength <= 0 {
		return nil, fmt.Errorf("%w: hop length must be positive, got %d", grid.ErrConfiguration, cfg.HopLength)
	}
	if !(cfg.DesignRate > 0) {
		return nil, fmt.Errorf("%w: design sample rate must be positive, got %v", grid.ErrConfiguration, cfg.DesignRate)
	}
	switch cfg.Normalization {
	case NormalizePeak, NormalizeFixed:
	default:
		return nil, fmt.Errorf("%w: unknown normalization %d", grid.ErrConfiguration, cfg.Normalization)
	}
	switch cfg.Method {
	case MethodGoertzel, MethodSpectral:
	default:
		return nil, fmt.Errorf("%w: unknown analysis method %d", grid.ErrConfiguration, cfg.Method)
	}
	if cfg.Reference < 0 || math.IsNaN(cfg.Reference) || math.IsInf(cfg.Reference, 0) {
		return nil, fmt.Errorf("%w: bad reference amplitude %v", grid.ErrConfiguration, cfg.Reference)
	}
	if cfg.Reference == 0 {
		cfg.Reference = 1
	}
	if cfg.SpectralSize == 0 {
		cfg.SpectralSize = DefaultSpectralSize
	}
	if cfg.SpectralSize < 2 {
		return nil, fmt.Errorf("%w: spectral size must be >= 2, got %d", grid.ErrConfiguration, cfg.SpectralSize)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Analyzer{cfg: cfg, freqs: freqs}, nil
}

// Hop returns the frame length in samples used for input at sampleRate.
func (a *Analyzer) Hop(sampleRate float64) int {
	if sampleRate == a.cfg.DesignRate {
		return a.cfg.HopLength
	}
	return max(1, int(math.Round(float64(a.cfg.HopLength)*sampleRate/a.cfg.DesignRate)))
}

// frameAnalyzer estimates the amplitude of every bin for one frame of one
// channel. Implementations own their scratch buffers and are used by a single
// goroutine.
type frameAnalyzer interface {
	analyze(samples []float64, offset int, out []float64)
}

// Analyze converts one or two planar channels at sampleRate into a grid with
// ceil(samples/hop) frames. A single channel is written to both sides of the
// grid; channels of different lengths are zero-padded to the longest.
func (a *Analyzer) Analyze(channels [][]float64, sampleRate float64) (*grid.Grid, error) {
	if len(channels) == 0 || len(channels) > 2 {
		return nil, fmt.Errorf("%w: expected 1 or 2 channels, got %d", grid.ErrChannelMismatch, len(channels))
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %v", grid.ErrConfiguration, sampleRate)
	}
	if a.freqs.High() > sampleRate/2 {
		return nil, fmt.Errorf("%w: %v Hz is above Nyquist of %v Hz input", grid.ErrConfiguration, a.freqs.High(), sampleRate)
	}

	hop := a.Hop(sampleRate)
	var n int
	for _, ch := range channels {
		n = max(n, len(ch))
	}
	frames := (n + hop - 1) / hop

	g, err := grid.New(frames, a.freqs.Len())
	if err != nil {
		return nil, err
	}

	var eg errgroup.Group
	eg.SetLimit(a.cfg.Workers)
	for start := 0; start < frames; start += framesPerTask {
		end := min(start+framesPerTask, frames)
		eg.Go(func() error {
			fa := a.newFrameAnalyzer(hop, sampleRate)
			amps := make([]float64, a.freqs.Len())
			for f := start; f < end; f++ {
				for ch, samples := range channels {
					fa.analyze(samples, f*hop, amps)
					for bin, v := range amps {
						g.SetChannel(f, bin, ch, v)
						if len(channels) == 1 {
							g.SetChannel(f, bin, grid.Right, v)
						}
					}
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	switch a.cfg.Normalization {
	case NormalizePeak:
		if m := g.Max(); m > 0 {
			g.Scale(1 / m)
		}
	case NormalizeFixed:
		g.Scale(1 / a.cfg.Reference)
	}
	g.Clamp()
	return g, nil
}

func (a *Analyzer) newFrameAnalyzer(hop int, sampleRate float64) frameAnalyzer {
	if a.cfg.Method == MethodSpectral {
		return newSpectral(a.freqs, hop, a.cfg.SpectralSize, sampleRate)
	}
	return newGoertzelBank(a.freqs, hop, sampleRate)
}

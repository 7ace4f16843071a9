package canvas

import (
	"fmt"
	"math"

	"github.com/pion/logging"

	"github.com/neurlang/gocanvas/analyze"
	"github.com/neurlang/gocanvas/audioio"
	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
	"github.com/neurlang/gocanvas/synth"
	"github.com/neurlang/gocanvas/wavetable"
)

// Filter rewrites a grid in place between decoding and encoding.
type Filter func(g *grid.Grid, freqs *freq.Table) error

// Canvas represents the configuration of the image <-> sound conversion.
type Canvas struct {
	SampleRate   int
	HopLength    int
	Bins         int
	MinFrequency float64
	MaxFrequency float64
	TableSize    int

	// Level is the oscillator amplitude of a full-scale cell. The analyzer
	// divides by the same value, so images survive a trip through sound.
	Level float64

	Normalization analyze.Normalization
	Method        analyze.Method
	SpectralSize  int

	// LowAtTop puts the lowest frequency in the top image row.
	LowAtTop bool
	// Smooth ramps oscillator amplitudes across each frame.
	Smooth bool

	// Workers bounds parallel synthesis and analysis, 0 uses all CPUs.
	Workers int

	WavEncoding audioio.Encoding

	Filters []Filter

	// LoggerFactory creates the "canvas" logger; nil uses pion's default.
	LoggerFactory logging.LoggerFactory
}

// NewCanvas creates a new Canvas instance with default values.
func NewCanvas() *Canvas {
	return &Canvas{
		SampleRate:   48000,
		HopLength:    480,
		Bins:         freq.DefaultBins,
		MinFrequency: freq.DefaultLow,
		MaxFrequency: freq.DefaultHigh,
		TableSize:    wavetable.DefaultSize,
		Level:        1,
		SpectralSize: analyze.DefaultSpectralSize,
	}
}

// SetSpeed sets the hop so that one grid frame lasts 1/framesPerSecond
// seconds at SampleRate.
func (c *Canvas) SetSpeed(framesPerSecond float64) error {
	if !(framesPerSecond > 0) || math.IsInf(framesPerSecond, 0) {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrConfiguration, framesPerSecond)
	}
	hop := int(math.Round(float64(c.SampleRate) / framesPerSecond))
	if hop < 1 {
		return fmt.Errorf("%w: speed %v exceeds sample rate %d", ErrConfiguration, framesPerSecond, c.SampleRate)
	}
	c.HopLength = hop
	return nil
}

// Validate reports the first configuration problem, if any.
func (c *Canvas) Validate() error {
	_, err := c.build()
	return err
}

// engine is the set of shared tables and workers for one conversion.
type engine struct {
	freqs    *freq.Table
	synth    *synth.Synthesizer
	analyzer *analyze.Analyzer
	log      logging.LeveledLogger
}

func (c *Canvas) build() (*engine, error) {
	if c.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrConfiguration, c.SampleRate)
	}
	if !(c.Level > 0) || math.IsInf(c.Level, 0) {
		return nil, fmt.Errorf("%w: level must be positive, got %v", ErrConfiguration, c.Level)
	}
	switch c.WavEncoding {
	case audioio.Float32, audioio.PCM16:
	default:
		return nil, fmt.Errorf("%w: unknown WAV encoding %d", ErrConfiguration, c.WavEncoding)
	}
	rate := float64(c.SampleRate)

	freqs, err := freq.New(c.Bins, c.MinFrequency, c.MaxFrequency, rate)
	if err != nil {
		return nil, err
	}
	table, err := wavetable.New(c.TableSize)
	if err != nil {
		return nil, err
	}
	s, err := synth.New(synth.Config{
		SampleRate: rate,
		HopLength:  c.HopLength,
		Gain:       c.Level,
		Smooth:     c.Smooth,
		Workers:    c.Workers,
	}, freqs, table)
	if err != nil {
		return nil, err
	}
	a, err := analyze.New(analyze.Config{
		HopLength:     c.HopLength,
		DesignRate:    rate,
		Normalization: c.Normalization,
		Method:        c.Method,
		Reference:     c.Level,
		SpectralSize:  c.SpectralSize,
		Workers:       c.Workers,
	}, freqs)
	if err != nil {
		return nil, err
	}

	factory := c.LoggerFactory
	if factory == nil {
		factory = logging.NewDefaultLoggerFactory()
	}
	return &engine{freqs: freqs, synth: s, analyzer: a, log: factory.NewLogger("canvas")}, nil
}

// Synthesize renders g as stereo audio at SampleRate.
func (c *Canvas) Synthesize(g *grid.Grid) (*audioio.Buffer, error) {
	e, err := c.build()
	if err != nil {
		return nil, err
	}
	return e.synthesize(g, c.SampleRate)
}

// Analyze converts mono or stereo audio into a grid.
func (c *Canvas) Analyze(b *audioio.Buffer) (*grid.Grid, error) {
	e, err := c.build()
	if err != nil {
		return nil, err
	}
	return e.analyze(b)
}

// ApplyFilters runs c.Filters over g in order.
func (c *Canvas) ApplyFilters(g *grid.Grid) error {
	e, err := c.build()
	if err != nil {
		return err
	}
	return c.applyFilters(e, g)
}

func (c *Canvas) applyFilters(e *engine, g *grid.Grid) error {
	for i, f := range c.Filters {
		if err := f(g, e.freqs); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}
	if len(c.Filters) > 0 {
		e.log.Debugf("applied %d filters", len(c.Filters))
	}
	return nil
}

func (e *engine) synthesize(g *grid.Grid, sampleRate int) (*audioio.Buffer, error) {
	chans, err := e.synth.Render(g)
	if err != nil {
		return nil, err
	}
	e.log.Debugf("synthesized %d frames x %d bins into %d samples", g.Frames(), g.Bins(), len(chans[0]))
	return &audioio.Buffer{SampleRate: sampleRate, Channels: chans}, nil
}

func (e *engine) analyze(b *audioio.Buffer) (*grid.Grid, error) {
	g, err := e.analyzer.Analyze(b.Channels, float64(b.SampleRate))
	if err != nil {
		return nil, err
	}
	e.log.Debugf("analyzed %d channels, %d samples at %d Hz into %d frames", len(b.Channels), b.Len(), b.SampleRate, g.Frames())
	return g, nil
}

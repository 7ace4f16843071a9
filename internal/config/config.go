package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pion/logging"

	"github.com/neurlang/gocanvas/analyze"
	"github.com/neurlang/gocanvas/audioio"
	"github.com/neurlang/gocanvas/canvas"
)

// Config holds the conversion settings the command line starts from,
// loaded from environment variables.
type Config struct {
	SampleRate   int
	Speed        float64 // grid frames per second
	Bins         int
	MinFrequency float64
	MaxFrequency float64
	Level        float64
	Workers      int

	Analysis      string // goertzel or spectral
	Normalization string // fixed or peak
	LowAtTop      bool
	Smooth        bool
	PCM16         bool

	LogLevel string // error, warn, info, debug, trace
}

// Load reads configuration from environment variables, falling back to the
// canvas defaults.
func Load() Config {
	c := canvas.NewCanvas()
	return Config{
		SampleRate:   envInt("CANVAS_SAMPLE_RATE", c.SampleRate),
		Speed:        envFloat("CANVAS_SPEED", float64(c.SampleRate)/float64(c.HopLength)),
		Bins:         envInt("CANVAS_BINS", c.Bins),
		MinFrequency: envFloat("CANVAS_MIN_FREQUENCY", c.MinFrequency),
		MaxFrequency: envFloat("CANVAS_MAX_FREQUENCY", c.MaxFrequency),
		Level:        envFloat("CANVAS_LEVEL", c.Level),
		Workers:      envInt("CANVAS_WORKERS", c.Workers),

		Analysis:      envStr("CANVAS_ANALYSIS", "goertzel"),
		Normalization: envStr("CANVAS_NORMALIZATION", "fixed"),
		LowAtTop:      envBool("CANVAS_LOW_AT_TOP", c.LowAtTop),
		Smooth:        envBool("CANVAS_SMOOTH", c.Smooth),
		PCM16:         envBool("CANVAS_PCM16", false),

		LogLevel: envStr("CANVAS_LOG_LEVEL", "error"),
	}
}

// Canvas builds a validated canvas from cfg.
func (cfg Config) Canvas(factory logging.LoggerFactory) (*canvas.Canvas, error) {
	c := canvas.NewCanvas()
	c.SampleRate = cfg.SampleRate
	c.Bins = cfg.Bins
	c.MinFrequency = cfg.MinFrequency
	c.MaxFrequency = cfg.MaxFrequency
	c.Level = cfg.Level
	c.Workers = cfg.Workers
	c.LowAtTop = cfg.LowAtTop
	c.Smooth = cfg.Smooth
	c.LoggerFactory = factory
	if cfg.PCM16 {
		c.WavEncoding = audioio.PCM16
	}
	if err := c.SetSpeed(cfg.Speed); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Analysis) {
	case "goertzel":
		c.Method = analyze.MethodGoertzel
	case "spectral", "fft":
		c.Method = analyze.MethodSpectral
	default:
		return nil, fmt.Errorf("%w: unknown analysis %q", canvas.ErrConfiguration, cfg.Analysis)
	}
	switch strings.ToLower(cfg.Normalization) {
	case "fixed":
		c.Normalization = analyze.NormalizeFixed
	case "peak":
		c.Normalization = analyze.NormalizePeak
	default:
		return nil, fmt.Errorf("%w: unknown normalization %q", canvas.ErrConfiguration, cfg.Normalization)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoggerFactory returns a pion logger factory writing to stderr at
// cfg.LogLevel.
func (cfg Config) LoggerFactory() (*logging.DefaultLoggerFactory, error) {
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	f := logging.NewDefaultLoggerFactory()
	f.Writer = os.Stderr
	f.DefaultLogLevel = level
	return f, nil
}

// ParseLogLevel maps a level name to a pion log level.
func ParseLogLevel(s string) (logging.LogLevel, error) {
	switch strings.ToLower(s) {
	case "disabled", "off":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	}
	return 0, fmt.Errorf("%w: unknown log level %q", canvas.ErrConfiguration, s)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

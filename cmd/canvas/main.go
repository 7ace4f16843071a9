package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/neurlang/gocanvas/internal/config"
)

func main() {
	cfg := config.Load()

	var (
		turbo   bool
		infile  string
		outfile string
		verbose bool
		filters filterFlags
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	for _, name := range []string{"t", "turbo"} {
		flagSet.BoolVar(&turbo, name, false, "Convert -i to -o without a GUI (required)")
	}
	for _, name := range []string{"i", "infile"} {
		flagSet.StringVar(&infile, name, "", "Input image (.png .bmp .tif .gif .jpg), sound (.wav .flac) or grid (.cgrid)")
	}
	for _, name := range []string{"o", "outfile"} {
		flagSet.StringVar(&outfile, name, "", "Output image (.png .bmp .tif), sound (.wav) or grid (.cgrid)")
	}
	for _, name := range []string{"r", "rate"} {
		flagSet.IntVar(&cfg.SampleRate, name, cfg.SampleRate, "Sample rate of synthesized sound in Hz")
	}
	for _, name := range []string{"s", "speed"} {
		flagSet.Float64Var(&cfg.Speed, name, cfg.Speed, "Image columns per second")
	}
	flagSet.BoolVar(&verbose, "v", false, "Log progress (same as CANVAS_LOG_LEVEL=debug)")
	flagSet.IntVar(&cfg.Bins, "bins", cfg.Bins, "Frequency bins, the height of produced images")
	flagSet.Float64Var(&cfg.MinFrequency, "min-freq", cfg.MinFrequency, "Lowest bin frequency in Hz")
	flagSet.Float64Var(&cfg.MaxFrequency, "max-freq", cfg.MaxFrequency, "Highest bin frequency in Hz")
	flagSet.Float64Var(&cfg.Level, "level", cfg.Level, "Oscillator amplitude of a full-scale pixel")
	flagSet.StringVar(&cfg.Analysis, "analysis", cfg.Analysis, "Sound analysis: goertzel or spectral")
	flagSet.StringVar(&cfg.Normalization, "norm", cfg.Normalization, "Analysis normalization: fixed or peak")
	flagSet.BoolVar(&cfg.LowAtTop, "low-at-top", cfg.LowAtTop, "Put low frequencies in the top image row")
	flagSet.BoolVar(&cfg.Smooth, "smooth", cfg.Smooth, "Ramp amplitudes between columns")
	flagSet.BoolVar(&cfg.PCM16, "pcm16", cfg.PCM16, "Write 16-bit PCM instead of 32-bit float WAV")
	flagSet.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel workers, 0 = all CPUs")
	filters.register(flagSet)

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: canvas -t -i <input> -o <output> [options]")
		fmt.Println()
		fmt.Println("Converts images to sound and sound to images. Formats follow the file extensions.")
		fmt.Println()
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if !turbo {
		fmt.Println("Error: interactive mode is not available, pass -t with -i and -o")
		os.Exit(1)
	}
	if infile == "" || outfile == "" {
		fmt.Println("Error: -t requires both -i <input> and -o <output>")
		os.Exit(1)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	factory, err := cfg.LoggerFactory()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	c, err := cfg.Canvas(factory)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if c.Filters, err = filters.build(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := c.ConvertFile(infile, outfile); err != nil {
		fmt.Printf("Error converting %s to %s: %v\n", infile, outfile, err)
		os.Exit(1)
	}
}

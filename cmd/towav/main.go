package main

import (
	"fmt"
	"github.com/neurlang/gocanvas/canvas"
	"os"
	"strconv"
)

// nyquistMargin keeps the top oscillator clear of the Nyquist frequency.
const nyquistMargin = 0.45

// canvasForRate returns a canvas rendering 100 columns per second at rate.
// Below 44.1 kHz the top of the frequency grid is lowered to fit.
func canvasForRate(rate int) (*canvas.Canvas, error) {
	var c = canvas.NewCanvas()
	c.SampleRate = rate
	if err := c.SetSpeed(100); err != nil {
		return nil, err
	}
	c.MaxFrequency = min(c.MaxFrequency, nyquistMargin*float64(rate))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	// Check if the filename argument is provided
	if len(os.Args) < 2 {
		fmt.Println("Usage: towav <image_filename> [sample_rate]")
		os.Exit(1)
	}

	var filename = os.Args[1]

	var c = canvas.NewCanvas()

	if len(os.Args) > 2 {
		rate, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Printf("Invalid sample rate %q: %v\n", os.Args[2], err)
			os.Exit(1)
		}
		c, err = canvasForRate(rate)
		if err != nil {
			fmt.Printf("Invalid sample rate %q: %v\n", os.Args[2], err)
			os.Exit(1)
		}
	}

	// Synthesize the picture and save it next to it
	inputFile := filename
	outputFile := filename + ".wav"
	err := c.ConvertFile(inputFile, outputFile)
	if err != nil {
		fmt.Printf("Error generating sound from image: %v\n", err)
		os.Exit(1)
	}
}

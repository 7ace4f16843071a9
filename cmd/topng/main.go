package main

import (
	"fmt"
	"github.com/neurlang/gocanvas/canvas"
	"os"
	"strings"
)

func main() {
	// Check if the filename argument is provided
	if len(os.Args) < 2 {
		fmt.Println("Usage: topng <wav_or_flac_filename>")
		os.Exit(1)
	}

	var filename = os.Args[1]

	var c = canvas.NewCanvas()

	inputFile := filename
	if !strings.HasSuffix(filename, ".flac") && !strings.HasSuffix(filename, ".wav") {
		inputFile = filename + ".wav"
	}
	// Analyze the sound and save the picture as a PNG file
	outputFile := inputFile + ".png"
	err := c.ConvertFile(inputFile, outputFile)
	if err != nil {
		fmt.Printf("Error generating image from sound: %v\n", err)
		os.Exit(1)
	}
}

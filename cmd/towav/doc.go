// Command towav plays an image as sound and saves it as a WAV file.
//
// Each column of the image lasts 10 ms; each row is a sine oscillator with
// the highest frequency at the top. Red is the left channel, blue the right.
//
// Usage:
//
//	towav <image_file> [sample_rate]
//
// The output WAV file will be named <image_file>.wav
// Optional sample_rate parameter (default: 48000 Hz). Below 44100 Hz the
// highest row is lowered to 0.45 times the sample rate so every oscillator
// stays under the Nyquist frequency.
package main

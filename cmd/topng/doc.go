// Command topng draws a WAV or FLAC recording as a 239 pixel tall PNG image.
//
// Every column covers 10 ms of sound and every row one frequency from
// 20 kHz at the top down to 20 Hz. Red shows the left channel and blue the
// right, so mono recordings come out magenta.
//
// Usage:
//
//	topng <audio_file>
//
// The output PNG file will be named <audio_file>.png; a name without a
// .wav or .flac extension gets .wav appended first.
package main

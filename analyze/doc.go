// Package analyze renders audio into a canvas grid.
//
// Every frame of hop samples is reduced to one amplitude per frequency bin
// and channel. Two estimators are available:
//   - Goertzel: a single-frequency correlation per bin over the Hann-windowed
//     frame, matching the bins exactly even though they are log-spaced
//   - Spectral: a longer Hann-windowed FFT with triangular band weights
//
// Frames are independent and are analyzed concurrently; each task writes its
// own frames of the grid.
package analyze

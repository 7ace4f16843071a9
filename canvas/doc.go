// Package canvas converts between images and sound through a shared grid of
// frequency bins over time.
//
// An image is read as a grid with one column per time frame and one row per
// bin; red is the left channel and blue the right. Synthesis plays every bin
// as a sine oscillator whose amplitude follows the grid. Analysis measures
// the amplitude of every bin frequency in each frame of a recording and
// writes it back to a grid. Every conversion passes through the grid:
//   - image to sound synthesizes stereo WAV audio
//   - sound to image analyzes WAV or FLAC audio into a 239 row picture
//   - image to image and sound to sound are resampled through the grid
//   - the .cgrid format stores the grid itself at half precision
//
// Optional filters (see package filter) rewrite the grid in between.
package canvas

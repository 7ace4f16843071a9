// Package synth renders a canvas grid to stereo audio with an additive
// oscillator bank.
//
// Each frequency bin drives one wavetable oscillator whose left and right
// gains follow the grid cell of the current frame. Frames are rendered in
// fixed blocks on a bounded worker pool; blocks write disjoint sample ranges,
// so no locking is needed and the output is identical for any worker count.
package synth

// Package filter holds effects that rewrite a canvas grid in place before it
// is encoded: invert, reverb, chorus, tremolo, harmonics and a musical scale
// mask. Results stay within [0,1].
package filter

// Package audioio reads and writes the PCM audio the canvas converts.
//
// WAV input may be integer PCM (decoded with beep) or 32-bit IEEE float
// (decoded with go-audio/wav); FLAC input is decoded with mewkiz/flac.
// Output is always WAV, 32-bit float by default so the unclipped sum of the
// oscillator bank is preserved, or 16-bit PCM. Mono and stereo are accepted;
// more channels are rejected.
package audioio

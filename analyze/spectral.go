package analyze

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/r9y9/gossp/stft"
	"github.com/r9y9/gossp/window"

	"github.com/neurlang/gocanvas/freq"
)

// spectral estimates bin amplitudes from a Hann-windowed FFT that starts at
// the frame offset and may extend past it. Each bin sums FFT magnitudes with
// a triangular weight rising from the previous bin's frequency to its own
// and falling to the next bin's.
type spectral struct {
	stft   *stft.STFT
	bands  []band
	norm   float64
	frame  []float64
	mags   []float64
	maxBin int
}

type band struct {
	lo, mid, hi float64 // fractional FFT bin positions
}

func newSpectral(freqs *freq.Table, hop, size int, sampleRate float64) *spectral {
	s := stft.New(hop, size)
	var sum float64
	for _, w := range s.Window {
		sum += w
	}
	toBin := float64(size) / sampleRate
	bands := make([]band, freqs.Len())
	for i := range bands {
		lo, hi := freqs.Edges(i)
		bands[i] = band{lo: lo * toBin, mid: freqs.At(i) * toBin, hi: hi * toBin}
	}
	return &spectral{
		stft:   s,
		bands:  bands,
		norm:   1 / sum,
		frame:  make([]float64, size),
		mags:   make([]float64, size/2+1),
		maxBin: size / 2,
	}
}

func (s *spectral) analyze(samples []float64, offset int, out []float64) {
	var frame []float64
	if offset%s.stft.FrameShift == 0 && offset+s.stft.FrameLen <= len(samples) {
		frame = s.stft.FrameAt(samples, offset/s.stft.FrameShift)
	} else {
		// the last frames run past the input and are zero padded
		if copyFrame(s.frame, samples, offset) == 0 {
			for i := range out {
				out[i] = 0
			}
			return
		}
		frame = s.frame
	}
	spectrum := fft.FFTReal(window.Windowing(frame, s.stft.Window))
	for k := range s.mags {
		s.mags[k] = cmplx.Abs(spectrum[k])
	}

	for i, b := range s.bands {
		out[i] = s.bandAmplitude(b)
	}
}

func (s *spectral) bandAmplitude(b band) float64 {
	first := int(math.Ceil(b.lo))
	last := min(int(math.Floor(b.hi)), s.maxBin)

	var total float64
	var hits int
	for k := max(first, 0); k <= last; k++ {
		pos := float64(k)
		var w float64
		switch {
		case pos <= b.lo || pos >= b.hi:
			continue
		case pos < b.mid:
			w = (pos - b.lo) / (b.mid - b.lo)
		default:
			w = (b.hi - pos) / (b.hi - b.mid)
		}
		total += w * s.mags[k]
		hits++
	}
	if hits > 0 {
		return total * s.norm
	}

	// band narrower than one FFT bin: interpolate at the center
	if b.mid >= float64(s.maxBin) {
		return 2 * s.mags[s.maxBin] * s.norm
	}
	k := int(b.mid)
	frac := b.mid - float64(k)
	return 2 * (s.mags[k]*(1-frac) + s.mags[k+1]*frac) * s.norm
}

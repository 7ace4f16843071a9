package analyze

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/window"

	"github.com/neurlang/gocanvas/freq"
)

// goertzelBank runs one Goertzel recurrence per bin over a Hann-windowed
// frame. The bins are log-spaced, so they don't line up with an FFT grid.
type goertzelBank struct {
	coeffs []float64
	win    []float64
	scale  float64
	frame  []float64
	buf    []float64
}

func newGoertzelBank(freqs *freq.Table, hop int, sampleRate float64) *goertzelBank {
	win := hann(hop)
	var sum float64
	for _, w := range win {
		sum += w
	}
	coeffs := make([]float64, freqs.Len())
	for i := range coeffs {
		coeffs[i] = 2 * math.Cos(2*math.Pi*freqs.At(i)/sampleRate)
	}
	return &goertzelBank{
		coeffs: coeffs,
		win:    win,
		scale:  2 / sum,
		frame:  make([]float64, hop),
		buf:    make([]float64, hop),
	}
}

func (b *goertzelBank) analyze(samples []float64, offset int, out []float64) {
	n := copyFrame(b.frame, samples, offset)
	if n == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	vecmath.MulBlock(b.buf, b.frame, b.win)

	for i, coeff := range b.coeffs {
		var s0, s1 float64
		for _, x := range b.buf {
			s := x + coeff*s0 - s1
			s1 = s0
			s0 = s
		}
		p := s0*s0 + s1*s1 - coeff*s0*s1
		if p <= 0 {
			out[i] = 0
			continue
		}
		out[i] = math.Sqrt(p) * b.scale
	}
}

// copyFrame copies len(dst) samples starting at offset, zero-padding past the
// end, and returns how many real samples were copied.
func copyFrame(dst, samples []float64, offset int) int {
	n := 0
	if offset < len(samples) {
		n = copy(dst, samples[offset:])
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}

// hann returns a symmetric Hann window; a single-sample window is flat.
func hann(n int) []float64 {
	if n < 2 {
		w := make([]float64, n)
		for i := range w {
			w[i] = 1
		}
		return w
	}
	return window.Hann(n)
}

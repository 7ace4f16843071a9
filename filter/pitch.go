package filter

import (
	"fmt"
	"math"

	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
)

// Harmonics adds, to every bin, the amplitudes found at its 2nd to 5th
// subharmonic weighted by amps, so each existing tone gains overtones. With
// sub the direction is reversed and tones gain undertones. Sources are read
// from the unmodified grid.
func Harmonics(g *grid.Grid, freqs *freq.Table, amps [4]float64, sub bool) error {
	if g.Bins() != freqs.Len() {
		return fmt.Errorf("%w: grid has %d bins, table %d", grid.ErrConfiguration, g.Bins(), freqs.Len())
	}
	src := g.Clone()

	var sources [][4]int
	for bin := 0; bin < freqs.Len(); bin++ {
		var idx [4]int
		for h := range idx {
			ratio := float64(h + 2)
			if sub {
				ratio = 1 / ratio
			}
			idx[h] = freqs.Nearest(freqs.At(bin) / ratio)
			if idx[h] == bin {
				idx[h] = -1
			}
		}
		sources = append(sources, idx)
	}

	for f := 0; f < g.Frames(); f++ {
		for bin, c := range src.Frame(f) {
			for h, s := range sources[bin] {
				if s < 0 {
					continue
				}
				o := src.At(f, s)
				c[0] += grid.Clamp01(o[0]) * amps[h]
				c[1] += grid.Clamp01(o[1]) * amps[h]
			}
			g.Set(f, bin, grid.Clamp01(c[0]), grid.Clamp01(c[1]))
		}
	}
	return nil
}

// ScaleClass selects the notes kept by Scale.
type ScaleClass int

const (
	Major ScaleClass = iota
	Minor
	Acoustic
	HarmonicMajor
	HarmonicMinor
	WholeTone
	Octatonic
	Hexatonic
)

var scales = [...][12]bool{
	Major:         {true, false, true, false, true, true, false, true, false, true, false, true},
	Minor:         {true, false, true, true, false, true, false, true, true, false, true, false},
	Acoustic:      {true, false, true, false, true, false, true, true, false, true, true, false},
	HarmonicMajor: {true, false, true, false, true, true, false, true, true, false, false, true},
	HarmonicMinor: {true, false, true, true, false, true, false, true, true, false, false, true},
	WholeTone:     {true, false, true, false, true, false, true, false, true, false, true, false},
	Octatonic:     {true, false, true, true, false, true, true, false, true, true, false, true},
	Hexatonic:     {true, false, false, true, true, false, false, true, true, false, false, true},
}

var scaleNames = [...]string{
	"major", "minor", "acoustic", "harmonic-major", "harmonic-minor",
	"whole-tone", "octatonic", "hexatonic",
}

// ParseScale accepts the lower-case hyphenated scale names, e.g. "harmonic-minor".
func ParseScale(s string) (ScaleClass, error) {
	for i, name := range scaleNames {
		if s == name {
			return ScaleClass(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown scale %q", grid.ErrConfiguration, s)
}

func (c ScaleClass) String() string {
	if c < 0 || int(c) >= len(scaleNames) {
		return fmt.Sprintf("ScaleClass(%d)", int(c))
	}
	return scaleNames[c]
}

// noteNames are the roots accepted by ParseRoot, in semitones above A.
var noteNames = [...]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// ParseRoot converts a note name such as "C" or "F#" to semitones above A.
func ParseRoot(s string) (int, error) {
	for i, name := range noteNames {
		if s == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown root note %q", grid.ErrConfiguration, s)
}

// Scale silences every bin that is not within an eighth tone of a note of
// the scale class built on root, given in semitones above A (A4 = 440 Hz).
func Scale(g *grid.Grid, freqs *freq.Table, root int, class ScaleClass) error {
	if g.Bins() != freqs.Len() {
		return fmt.Errorf("%w: grid has %d bins, table %d", grid.ErrConfiguration, g.Bins(), freqs.Len())
	}
	if root < 0 || root > 11 {
		return fmt.Errorf("%w: root must be 0..11 semitones, got %d", grid.ErrConfiguration, root)
	}
	if class < Major || class > Hexatonic {
		return fmt.Errorf("%w: unknown scale class %d", grid.ErrConfiguration, class)
	}
	for bin := 0; bin < freqs.Len(); bin++ {
		semis := 12*math.Log2(freqs.At(bin)/440) - float64(root)
		note := math.Round(semis)
		degree := (int(note)%12 + 12) % 12
		if math.Abs(semis-note) <= 0.25 && scales[class][degree] {
			continue
		}
		for f := 0; f < g.Frames(); f++ {
			g.Set(f, bin, 0, 0)
		}
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/neurlang/gocanvas/canvas"
	"github.com/neurlang/gocanvas/filter"
	"github.com/neurlang/gocanvas/freq"
	"github.com/neurlang/gocanvas/grid"
)

// filterFlags collects the effect options; zero values leave an effect off.
type filterFlags struct {
	invert bool

	reverb        float64
	reverbDamping float64
	reverbReverse bool

	chorus     float64
	chorusRate float64
	seed       int64

	tremolo       float64
	tremoloRate   float64
	tremoloShape  string
	tremoloStereo float64

	harmonics    string
	subharmonics bool

	scale string
	root  string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.invert, "invert", false, "Invert amplitudes")
	fs.Float64Var(&f.reverb, "reverb", 0, "Reverb decay, 0 = off")
	fs.Float64Var(&f.reverbDamping, "reverb-damping", 1, "Shorten reverb tails of high bins")
	fs.BoolVar(&f.reverbReverse, "reverb-reverse", false, "Run reverb tails backwards")
	fs.Float64Var(&f.chorus, "chorus", 0, "Chorus depth 0..1, 0 = off")
	fs.Float64Var(&f.chorusRate, "chorus-rate", 0.5, "Chorus rate")
	fs.Int64Var(&f.seed, "seed", 1, "Chorus random seed")
	fs.Float64Var(&f.tremolo, "tremolo", 0, "Tremolo depth 0..1, 0 = off")
	fs.Float64Var(&f.tremoloRate, "tremolo-rate", 0.5, "Tremolo rate 0..1")
	fs.StringVar(&f.tremoloShape, "tremolo-shape", "sine", "Tremolo shape: sine, triangle, square, saw-down, saw-up")
	fs.Float64Var(&f.tremoloStereo, "tremolo-stereo", 0, "Tremolo phase offset of the right channel 0..1")
	fs.StringVar(&f.harmonics, "harmonics", "", "Comma separated amplitudes of harmonics 2,3,4,5")
	fs.BoolVar(&f.subharmonics, "subharmonics", false, "Add subharmonics instead of harmonics")
	fs.StringVar(&f.scale, "scale", "", "Keep only notes of a scale: major, minor, acoustic, harmonic-major, harmonic-minor, whole-tone, octatonic, hexatonic")
	fs.StringVar(&f.root, "root", "C", "Root note of -scale")
}

func (f *filterFlags) build() ([]canvas.Filter, error) {
	var out []canvas.Filter

	if f.scale != "" {
		class, err := filter.ParseScale(f.scale)
		if err != nil {
			return nil, err
		}
		root, err := filter.ParseRoot(f.root)
		if err != nil {
			return nil, err
		}
		out = append(out, func(g *grid.Grid, t *freq.Table) error {
			return filter.Scale(g, t, root, class)
		})
	}
	if f.harmonics != "" {
		var amps [4]float64
		parts := strings.Split(f.harmonics, ",")
		if len(parts) > len(amps) {
			return nil, fmt.Errorf("%w: at most 4 harmonic amplitudes, got %d", canvas.ErrConfiguration, len(parts))
		}
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: harmonic amplitude %q", canvas.ErrConfiguration, p)
			}
			amps[i] = v
		}
		sub := f.subharmonics
		out = append(out, func(g *grid.Grid, t *freq.Table) error {
			return filter.Harmonics(g, t, amps, sub)
		})
	}
	if f.reverb > 0 {
		out = append(out, func(g *grid.Grid, _ *freq.Table) error {
			filter.Reverb(g, f.reverb, f.reverbDamping, f.reverbReverse)
			return nil
		})
	}
	if f.chorus > 0 {
		out = append(out, func(g *grid.Grid, _ *freq.Table) error {
			filter.Chorus(g, f.chorusRate, f.chorus, f.seed)
			return nil
		})
	}
	if f.tremolo > 0 {
		shape, err := filter.ParseShape(f.tremoloShape)
		if err != nil {
			return nil, err
		}
		out = append(out, func(g *grid.Grid, _ *freq.Table) error {
			return filter.Tremolo(g, f.tremoloRate, f.tremolo, shape, f.tremoloStereo)
		})
	}
	if f.invert {
		out = append(out, func(g *grid.Grid, _ *freq.Table) error {
			filter.Invert(g)
			return nil
		})
	}
	return out, nil
}

package grid

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned for invalid bin counts, frequency bounds,
// hop lengths, table sizes and similar parameters.
var ErrConfiguration = errors.New("configuration error")

// ErrFormat is returned when an image, audio or grid payload cannot be read.
var ErrFormat = errors.New("format error")

// ErrChannelMismatch is returned for audio with zero or more than two channels.
var ErrChannelMismatch = errors.New("channel mismatch")

// Left and Right index the two channels of a cell.
const (
	Left  = 0
	Right = 1
)

// Grid is the canonical time-frequency representation every conversion
// passes through. Cells are stored frame-major: cell (frame, bin) lives at
// frame*bins + bin and holds a {left, right} amplitude pair.
type Grid struct {
	frames int
	bins   int
	cells  [][2]float64
}

// New allocates a silent grid of frames x bins cells.
func New(frames, bins int) (*Grid, error) {
	if frames < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", ErrConfiguration, frames)
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bin count must be positive, got %d", ErrConfiguration, bins)
	}
	return &Grid{
		frames: frames,
		bins:   bins,
		cells:  make([][2]float64, frames*bins),
	}, nil
}

// Frames returns the number of time frames.
func (g *Grid) Frames() int { return g.frames }

// Bins returns the number of frequency bins.
func (g *Grid) Bins() int { return g.bins }

// At returns the {left, right} pair of a cell.
func (g *Grid) At(frame, bin int) [2]float64 {
	return g.cells[frame*g.bins+bin]
}

// Set stores the {left, right} pair of a cell.
func (g *Grid) Set(frame, bin int, left, right float64) {
	g.cells[frame*g.bins+bin] = [2]float64{left, right}
}

// SetChannel stores one channel of a cell.
func (g *Grid) SetChannel(frame, bin, channel int, v float64) {
	g.cells[frame*g.bins+bin][channel] = v
}

// Frame returns the cells of one frame. The slice aliases the grid.
func (g *Grid) Frame(frame int) [][2]float64 {
	return g.cells[frame*g.bins : (frame+1)*g.bins]
}

// Max returns the largest amplitude over both channels.
func (g *Grid) Max() float64 {
	var m float64
	for _, c := range g.cells {
		if c[0] > m {
			m = c[0]
		}
		if c[1] > m {
			m = c[1]
		}
	}
	return m
}

// Scale multiplies every amplitude by k.
func (g *Grid) Scale(k float64) {
	for i := range g.cells {
		g.cells[i][0] *= k
		g.cells[i][1] *= k
	}
}

// Clamp clamps every amplitude into [0,1].
func (g *Grid) Clamp() {
	for i := range g.cells {
		g.cells[i][0] = Clamp01(g.cells[i][0])
		g.cells[i][1] = Clamp01(g.cells[i][1])
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{frames: g.frames, bins: g.bins, cells: make([][2]float64, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Clamp01 limits x to [0,1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

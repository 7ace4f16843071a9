package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/neurlang/gocanvas/grid"
)

// Encode renders g as an image with one column per frame and one row per
// bin. Red carries the left channel, blue the right; green is always zero.
// Row 0 is the highest bin unless lowAtTop is set. A grid without frames
// encodes as a single black column, the narrowest valid image.
func Encode(g *grid.Grid, lowAtTop bool) *image.RGBA {
	bins := g.Bins()
	width := max(g.Frames(), 1)
	img := image.NewRGBA(image.Rect(0, 0, width, bins))
	for x := 0; x < width; x++ {
		for y := 0; y < bins; y++ {
			col := color.RGBA{A: 255}
			if x < g.Frames() {
				c := g.At(x, rowBin(y, bins, lowAtTop))
				col.R = level(c[grid.Left])
				col.B = level(c[grid.Right])
			}
			img.SetRGBA(x, y, col)
		}
	}
	return img
}

// Decode converts img into a grid of bins rows, one frame per column.
// Rows are resampled with nearest neighbour, so an image of any height maps
// onto the bins. Green and alpha are ignored except that fully transparent
// pixels read as silence.
func Decode(img image.Image, bins int, lowAtTop bool) (*grid.Grid, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be positive, got %d", grid.ErrConfiguration, bins)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return grid.New(0, bins)
	}
	width := b.Dx()
	g, err := grid.New(width, bins)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, bins))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	for y := 0; y < bins; y++ {
		bin := rowBin(y, bins, lowAtTop)
		for x := 0; x < width; x++ {
			c := dst.NRGBAAt(x, y)
			g.Set(x, bin, float64(c.R)/255, float64(c.B)/255)
		}
	}
	return g, nil
}

// rowBin maps an image row to a bin; the mapping is its own inverse.
func rowBin(y, bins int, lowAtTop bool) int {
	if lowAtTop {
		return y
	}
	return bins - 1 - y
}

func level(v float64) uint8 {
	return uint8(math.Round(255 * grid.Clamp01(v)))
}

// ReadFile decodes a PNG, BMP, TIFF, GIF or JPEG image.
func ReadFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", grid.ErrFormat, name, err)
	}
	return img, nil
}

// EncodeTo writes img in the format named by ext (".png", ".bmp", ".tif").
func EncodeTo(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: cannot encode images as %q", grid.ErrFormat, ext)
}

// WriteFile encodes img by the extension of name. A partially written file
// is removed.
func WriteFile(name string, img image.Image) error {
	ext := filepath.Ext(name)
	if !Writable(ext) {
		return fmt.Errorf("%w: cannot encode images as %q", grid.ErrFormat, ext)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := EncodeTo(f, img, ext); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	return f.Close()
}

// Writable reports whether EncodeTo supports ext.
func Writable(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

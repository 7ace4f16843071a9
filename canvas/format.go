package canvas

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/neurlang/gocanvas/audioio"
	"github.com/neurlang/gocanvas/grid"
	"github.com/neurlang/gocanvas/imageio"
)

// Format is a file format the canvas can convert from or to.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
	FormatGIF
	FormatJPEG
	FormatWAV
	FormatFLAC
	// FormatGrid is the raw half precision grid dump.
	FormatGrid
)

var formatExts = map[string]Format{
	".png":   FormatPNG,
	".bmp":   FormatBMP,
	".tif":   FormatTIFF,
	".tiff":  FormatTIFF,
	".gif":   FormatGIF,
	".jpg":   FormatJPEG,
	".jpeg":  FormatJPEG,
	".wav":   FormatWAV,
	".wave":  FormatWAV,
	".flac":  FormatFLAC,
	".cgrid": FormatGrid,
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatExts[ext]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatGIF:
		return "gif"
	case FormatJPEG:
		return "jpeg"
	case FormatWAV:
		return "wav"
	case FormatFLAC:
		return "flac"
	case FormatGrid:
		return "cgrid"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// IsImage reports whether f is a raster image format.
func (f Format) IsImage() bool { return f >= FormatPNG && f <= FormatJPEG }

// IsAudio reports whether f is an audio format.
func (f Format) IsAudio() bool { return f == FormatWAV || f == FormatFLAC }

// Encodable reports whether Encode can write f.
func (f Format) Encodable() bool {
	switch f {
	case FormatPNG, FormatBMP, FormatTIFF, FormatWAV, FormatGrid:
		return true
	}
	return false
}

// Decode reads r in the given format and returns its grid.
func (c *Canvas) Decode(r io.Reader, format Format) (*grid.Grid, error) {
	e, err := c.build()
	if err != nil {
		return nil, err
	}
	return c.decode(e, r, format)
}

func (c *Canvas) decode(e *engine, r io.Reader, format Format) (*grid.Grid, error) {
	switch {
	case format.IsImage():
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFormat, format, err)
		}
		e.log.Debugf("decoded %dx%d image", img.Bounds().Dx(), img.Bounds().Dy())
		return imageio.Decode(img, c.Bins, c.LowAtTop)

	case format.IsAudio():
		var b *audioio.Buffer
		var err error
		if format == FormatFLAC {
			b, err = audioio.DecodeFlac(r)
		} else {
			b, err = audioio.DecodeWav(r)
		}
		if err != nil {
			return nil, err
		}
		return e.analyze(b)

	case format == FormatGrid:
		g, err := grid.ReadDump(r)
		if err != nil {
			return nil, err
		}
		if g.Bins() != c.Bins {
			return nil, fmt.Errorf("%w: grid file has %d bins, canvas %d", ErrConfiguration, g.Bins(), c.Bins)
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: cannot decode %s", ErrFormat, format)
}

// Encode writes g to w in the given format. Audio needs a seekable writer
// for its header.
func (c *Canvas) Encode(w io.WriteSeeker, g *grid.Grid, format Format) error {
	e, err := c.build()
	if err != nil {
		return err
	}
	return c.encode(e, w, g, format)
}

func (c *Canvas) encode(e *engine, w io.WriteSeeker, g *grid.Grid, format Format) error {
	switch format {
	case FormatPNG, FormatBMP, FormatTIFF:
		img := imageio.Encode(g, c.LowAtTop)
		return imageio.EncodeTo(w, img, "."+format.String())
	case FormatWAV:
		b, err := e.synthesize(g, c.SampleRate)
		if err != nil {
			return err
		}
		return audioio.EncodeWav(w, b, c.WavEncoding)
	case FormatGrid:
		return grid.WriteDump(w, g)
	}
	return fmt.Errorf("%w: cannot encode %s", ErrFormat, format)
}

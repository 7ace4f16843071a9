package grid

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/x448/float16"
)

// DumpMagic starts every .cgrid file.
const DumpMagic = "CGRD"

// maxDumpCells bounds the header so a corrupt file can't request a huge allocation.
const maxDumpCells = 1 << 28

// WriteDump stores the grid as half floats: magic, frames, bins, then
// frames*bins {left, right} pairs, all little-endian.
func WriteDump(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(DumpMagic); err != nil {
		return err
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(g.frames))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(g.bins))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	var pair [4]byte
	for _, c := range g.cells {
		binary.LittleEndian.PutUint16(pair[0:], float16.Fromfloat32(float32(c[0])).Bits())
		binary.LittleEndian.PutUint16(pair[2:], float16.Fromfloat32(float32(c[1])).Bits())
		if _, err := bw.Write(pair[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDump loads a grid written by WriteDump.
func ReadDump(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)
	var hdr [12]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: grid header: %v", ErrFormat, err)
	}
	if string(hdr[:4]) != DumpMagic {
		return nil, fmt.Errorf("%w: bad grid magic %q", ErrFormat, hdr[:4])
	}
	frames := binary.LittleEndian.Uint32(hdr[4:])
	bins := binary.LittleEndian.Uint32(hdr[8:])
	if bins == 0 || uint64(frames)*uint64(bins) > maxDumpCells {
		return nil, fmt.Errorf("%w: bad grid size %dx%d", ErrFormat, frames, bins)
	}
	g, err := New(int(frames), int(bins))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	var pair [4]byte
	for i := range g.cells {
		if _, err := io.ReadFull(br, pair[:]); err != nil {
			return nil, fmt.Errorf("%w: grid cell %d: %v", ErrFormat, i, err)
		}
		g.cells[i][0] = float64(float16.Frombits(binary.LittleEndian.Uint16(pair[0:])).Float32())
		g.cells[i][1] = float64(float16.Frombits(binary.LittleEndian.Uint16(pair[2:])).Float32())
	}
	return g, nil
}

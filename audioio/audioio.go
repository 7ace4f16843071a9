package audioio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/mewkiz/flac"

	"github.com/neurlang/gocanvas/grid"
)

// Buffer is planar PCM audio.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// Len returns the number of samples per channel.
func (b *Buffer) Len() int {
	var n int
	for _, ch := range b.Channels {
		n = max(n, len(ch))
	}
	return n
}

// Encoding selects the sample format of written WAV files.
type Encoding int

const (
	// Float32 writes IEEE float samples; values outside [-1,1] survive.
	Float32 Encoding = iota
	// PCM16 writes 16-bit integer samples, clipping at full scale.
	PCM16
)

// WAVE format tags.
const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// DecodeWav reads a mono or stereo WAVE stream. Integer PCM is decoded by
// beep, 32-bit IEEE float data by go-audio.
func DecodeWav(r io.Reader) (*Buffer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d := gowav.NewDecoder(bytes.NewReader(raw))
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
	}
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
	}
	if d.PCMChunk == nil {
		return nil, fmt.Errorf("%w: WAV has no data chunk", grid.ErrFormat)
	}
	nch := int(d.NumChans)
	if nch == 0 || nch > 2 {
		return nil, fmt.Errorf("%w: WAV has %d channels", grid.ErrChannelMismatch, nch)
	}
	rate := int(d.SampleRate)

	switch d.WavAudioFormat {
	case wavFormatFloat:
		return decodeFloat(d, nch, rate)
	case wavFormatPCM, wavFormatExtensible:
	default:
		return nil, fmt.Errorf("%w: unsupported WAV format tag %d", grid.ErrFormat, d.WavAudioFormat)
	}
	// a header without samples would trip beep's decoder
	if d.PCMSize == 0 {
		return &Buffer{SampleRate: rate, Channels: make([][]float64, nch)}, nil
	}

	stream, format, err := wav.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
	}
	defer stream.Close()

	out := &Buffer{SampleRate: int(format.SampleRate), Channels: make([][]float64, format.NumChannels)}
	samples := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(samples)
		for _, s := range samples[:n] {
			for ch := range out.Channels {
				out.Channels[ch] = append(out.Channels[ch], s[ch])
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
	}
	return out, nil
}

// decodeFloat reads the float32 data chunk d is positioned at. go-audio
// returns 32-bit words as ints, so the bits are reinterpreted here.
func decodeFloat(d *gowav.Decoder, nch, rate int) (*Buffer, error) {
	if d.BitDepth != 32 {
		return nil, fmt.Errorf("%w: %d-bit float WAV", grid.ErrFormat, d.BitDepth)
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
	}
	// the chunk reader runs to EOF; drop any trailing chunks
	if words := d.PCMSize / 4; len(pcm.Data) > words {
		pcm.Data = pcm.Data[:words]
	}
	n := len(pcm.Data) / nch
	out := &Buffer{SampleRate: rate, Channels: make([][]float64, nch)}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, n)
		for i := range n {
			bits := uint32(int32(pcm.Data[i*nch+ch]))
			out.Channels[ch][i] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

// DecodeFlac reads a mono or stereo FLAC stream.
func DecodeFlac(r io.Reader) (*Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
	}
	defer stream.Close()

	nch := int(stream.Info.NChannels)
	if nch == 0 || nch > 2 {
		return nil, fmt.Errorf("%w: FLAC has %d channels", grid.ErrChannelMismatch, nch)
	}
	scale := 1 / float64(int64(1)<<(stream.Info.BitsPerSample-1))

	out := &Buffer{SampleRate: int(stream.Info.SampleRate), Channels: make([][]float64, nch)}
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", grid.ErrFormat, err)
		}
		for ch := 0; ch < nch; ch++ {
			for _, v := range frame.Subframes[ch].Samples {
				out.Channels[ch] = append(out.Channels[ch], float64(v)*scale)
			}
		}
	}
	return out, nil
}

// EncodeWav writes b as a WAVE file.
func EncodeWav(w io.WriteSeeker, b *Buffer, enc Encoding) error {
	switch enc {
	case Float32:
		return encodeFloat(w, b)
	case PCM16:
		format := beep.Format{
			SampleRate:  beep.SampleRate(b.SampleRate),
			NumChannels: len(b.Channels),
			Precision:   2,
		}
		return wav.Encode(w, &bufferStreamer{buf: b}, format)
	}
	return fmt.Errorf("%w: unknown WAV encoding %d", grid.ErrConfiguration, enc)
}

// encodeFloat writes b as 32-bit IEEE float through go-audio. Channels
// shorter than the longest one are padded with silence.
func encodeFloat(w io.WriteSeeker, b *Buffer) error {
	nch := len(b.Channels)
	if nch == 0 {
		return fmt.Errorf("%w: no channels to write", grid.ErrChannelMismatch)
	}
	n := b.Len()
	data := make([]int, n*nch)
	for ch, src := range b.Channels {
		for i, v := range src {
			data[i*nch+ch] = int(int32(math.Float32bits(float32(v))))
		}
	}
	enc := gowav.NewEncoder(w, b.SampleRate, 32, nch, wavFormatFloat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: nch, SampleRate: b.SampleRate},
		SourceBitDepth: 32,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// bufferStreamer feeds a Buffer to beep.
type bufferStreamer struct {
	buf *Buffer
	pos int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	total := s.buf.Len()
	if s.pos >= total {
		return 0, false
	}
	for n < len(samples) && s.pos < total {
		for ch := 0; ch < 2; ch++ {
			src := s.buf.Channels[min(ch, len(s.buf.Channels)-1)]
			if s.pos < len(src) {
				samples[n][ch] = src[s.pos]
			} else {
				samples[n][ch] = 0
			}
		}
		n++
		s.pos++
	}
	return n, true
}

func (s *bufferStreamer) Err() error { return nil }

// ReadFile decodes a .wav or .flac file.
func ReadFile(name string) (*Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return DecodeWav(f)
	case ".flac":
		return DecodeFlac(f)
	}
	return nil, fmt.Errorf("%w: %s is not a .wav or .flac file", grid.ErrFormat, name)
}

// WriteFile encodes b to name as WAV. A partially written file is removed.
func WriteFile(name string, b *Buffer, enc Encoding) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := EncodeWav(f, b, enc); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	return f.Close()
}

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV is returned when the input is not a RIFF/WAVE file.
	ErrInvalidWAV = errors.New("not a valid WAV file")
	// ErrUnsupportedFormat is returned for WAV encodings other than integer
	// PCM and 32-bit float.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

// Format tags of the fmt chunk.
const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// fmtHeader is the fixed part of a fmt chunk.
type fmtHeader struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

// fmtExtension follows fmtHeader when the tag is WAVE_FORMAT_EXTENSIBLE.
// SubFormat holds the first two bytes of the sub-format GUID, which are
// the effective format tag.
type fmtExtension struct {
	Size          uint16
	ValidBits     uint16
	ChannelMask   uint32
	SubFormatCode uint16
}

// SupportedBitDepths lists the PCM bit depths WriteWAV can produce.
var SupportedBitDepths = []int{16, 24, 32}

// ReadWAV reads a whole PCM WAV file into a Buffer.
func ReadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	defer f.Close()

	b, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("audio: read %s: %w", path, err)
	}

	return b, nil
}

// DecodeWAV decodes an integer PCM or 32-bit float WAV stream, including
// WAVE_FORMAT_EXTENSIBLE files. Integer samples are scaled by 2^-(bits-1).
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	format, err := sampleFormat(r)
	if err != nil {
		return nil, err
	}

	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	numChans := int(d.NumChans)
	if numChans < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidWAV, numChans)
	}

	bitDepth := int(d.BitDepth)

	var sample func(v int) float64

	switch format {
	case wavFormatPCM:
		if bitDepth < 8 || bitDepth > 32 {
			return nil, fmt.Errorf("%w: %d-bit", ErrUnsupportedFormat, bitDepth)
		}

		scale := 1 / float64(int64(1)<<(bitDepth-1))
		offset := 0
		if bitDepth == 8 {
			// 8-bit WAV is unsigned.
			offset = 128
		}

		sample = func(v int) float64 { return float64(v-offset) * scale }
	case wavFormatFloat:
		if bitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedFormat, bitDepth)
		}

		// The decoder hands back the raw little-endian words.
		sample = func(v int) float64 { return float64(math.Float32frombits(uint32(int32(v)))) }
	default:
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, format)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}

	frames := len(pcm.Data) / numChans
	b := NewBuffer(int(d.SampleRate), numChans, frames)

	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			b.Channels[c][i] = sample(pcm.Data[i*numChans+c])
		}
	}

	return b, nil
}

// sampleFormat returns the effective format tag of the stream: the
// sub-format of an extensible fmt chunk, the plain tag otherwise. The
// stream is returned to where it was.
func sampleFormat(r io.ReadSeeker) (uint16, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("seek: %w", err)
	}

	format, err := scanFormat(r)

	if _, serr := r.Seek(start, io.SeekStart); serr != nil && err == nil {
		err = fmt.Errorf("seek: %w", serr)
	}

	return format, err
}

func scanFormat(r io.Reader) (uint16, error) {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil || p.Format != riff.WavFormatID {
		return 0, ErrInvalidWAV
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
		}

		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		var hdr fmtHeader
		if err := ch.ReadLE(&hdr); err != nil {
			return 0, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
		}

		if hdr.FormatTag != wavFormatExtensible {
			return hdr.FormatTag, nil
		}

		var ext fmtExtension
		if err := ch.ReadLE(&ext); err != nil {
			return 0, fmt.Errorf("%w: short extensible fmt chunk", ErrInvalidWAV)
		}

		return ext.SubFormatCode, nil
	}
}

// WriteWAV writes b as integer PCM at the given bit depth. The channel count
// is taken from the buffer.
func WriteWAV(path string, b *Buffer, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	err = EncodeWAV(f, b, bitDepth)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}

	if err != nil {
		return fmt.Errorf("audio: write %s: %w", path, err)
	}

	return nil
}

// EncodeWAV encodes b as integer PCM. Samples are clipped to [-1, 1].
func EncodeWAV(w io.WriteSeeker, b *Buffer, bitDepth int) error {
	if err := b.Validate(); err != nil {
		return err
	}

	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d-bit output", ErrUnsupportedFormat, bitDepth)
	}

	numChans := b.NumChannels()
	frames := b.Frames()
	// Same scale as DecodeWAV so a decoded file re-encodes to identical
	// samples; +1.0 clips to the largest positive code.
	full := float64(int64(1) << (bitDepth - 1))

	data := make([]int, frames*numChans)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			v := math.Round(b.Channels[c][i] * full)
			data[i*numChans+c] = int(math.Max(-full, math.Min(full-1, v)))
		}
	}

	enc := wav.NewEncoder(w, b.SampleRate, bitDepth, numChans, wavFormatPCM)

	err := enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: numChans, SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("encode pcm: %w", err)
	}

	return enc.Close()
}

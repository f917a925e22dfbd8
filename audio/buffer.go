package audio

import (
	"errors"
	"fmt"
	"time"
)

// ErrShape is returned for buffers with ragged channels or a bad sample rate.
var ErrShape = errors.New("invalid buffer shape")

// Buffer is planar float64 audio: one slice per channel, all the same
// length, samples nominally in [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NewBuffer allocates a silent buffer.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	b := &Buffer{SampleRate: sampleRate, Channels: make([][]float64, channels)}
	for i := range b.Channels {
		b.Channels[i] = make([]float64, frames)
	}

	return b
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Duration returns the buffer length in time.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{SampleRate: b.SampleRate, Channels: make([][]float64, len(b.Channels))}
	for i, ch := range b.Channels {
		out.Channels[i] = append([]float64(nil), ch...)
	}

	return out
}

// Extend returns a copy with frames of silence appended to every channel.
func (b *Buffer) Extend(frames int) *Buffer {
	out := &Buffer{SampleRate: b.SampleRate, Channels: make([][]float64, len(b.Channels))}
	for i, ch := range b.Channels {
		c := make([]float64, len(ch)+max(frames, 0))
		copy(c, ch)
		out.Channels[i] = c
	}

	return out
}

// Validate checks the sample rate and that all channels have equal length.
func (b *Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrShape, b.SampleRate)
	}

	if len(b.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrShape)
	}

	n := len(b.Channels[0])
	for i, ch := range b.Channels[1:] {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d", ErrShape, i+1, len(ch), n)
		}
	}

	return nil
}

// Mono returns the average of all channels.
func (b *Buffer) Mono() []float64 {
	n := b.Frames()
	out := make([]float64, n)

	if len(b.Channels) == 0 {
		return out
	}

	scale := 1 / float64(len(b.Channels))
	for _, ch := range b.Channels {
		for i, v := range ch {
			out[i] += v * scale
		}
	}

	return out
}

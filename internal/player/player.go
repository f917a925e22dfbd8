package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-pedalboard/audio"
)

// ErrFormatChange is returned when a second file needs a different device
// format than the one the process already opened.
var ErrFormatChange = errors.New("player: device already opened with a different format")

const pollInterval = 20 * time.Millisecond

// oto allows a single context per process.
var (
	ctxMu      sync.Mutex
	otoCtx     *oto.Context
	otoRate    int
	otoChannel int
)

// Play decodes the WAV file at path and blocks until it has been played or
// ctx is cancelled.
func Play(ctx context.Context, path string) error {
	b, err := audio.ReadWAV(path)
	if err != nil {
		return err
	}

	return PlayBuffer(ctx, b)
}

// PlayBuffer plays b and blocks until it has been played or ctx is
// cancelled.
func PlayBuffer(ctx context.Context, b *audio.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}

	c, err := context16(b.SampleRate, b.NumChannels())
	if err != nil {
		return err
	}

	p := c.NewPlayer(bytes.NewReader(PCM16(b)))
	defer p.Close()

	p.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return p.Err()
}

func context16(rate, channels int) (*oto.Context, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()

	if otoCtx != nil {
		if rate != otoRate || channels != otoChannel {
			return nil, fmt.Errorf("%w: open %d Hz x %d, want %d Hz x %d",
				ErrFormatChange, otoRate, otoChannel, rate, channels)
		}

		return otoCtx, nil
	}

	c, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("player: open device: %w", err)
	}
	<-ready

	otoCtx, otoRate, otoChannel = c, rate, channels

	return c, nil
}

// PCM16 interleaves b into signed 16-bit little-endian frames, clipping
// samples outside [-1, 1).
func PCM16(b *audio.Buffer) []byte {
	ch := b.NumChannels()
	n := b.Frames()
	out := make([]byte, 2*ch*n)

	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			v := math.Round(b.Channels[c][i] * 32768)
			v = math.Max(math.MinInt16, math.Min(math.MaxInt16, v))
			binary.LittleEndian.PutUint16(out[2*(i*ch+c):], uint16(int16(v)))
		}
	}

	return out
}

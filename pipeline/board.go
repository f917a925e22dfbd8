package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/fx"
)

// ErrSampleRate is returned when a buffer does not match the board's rate.
var ErrSampleRate = errors.New("sample rate mismatch")

// Option configures a Board.
type Option func(*boardConfig) error

type boardConfig struct {
	tailSeconds float64
}

// WithTail appends seconds of silence to the input before processing so
// reverb and convolution tails are not cut off.
func WithTail(seconds float64) Option {
	return func(cfg *boardConfig) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("pipeline: tail must be >= 0 and finite: %f", seconds)
		}

		cfg.tailSeconds = seconds

		return nil
	}
}

// Board applies a fixed list of effects, in order, to whole buffers.
type Board struct {
	effects    []fx.Effect
	sampleRate int
	tailFrames int
}

// NewBoard returns a Board running effects at sampleRate.
func NewBoard(effects []fx.Effect, sampleRate int, opts ...Option) (*Board, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("pipeline: sample rate must be > 0: %d", sampleRate)
	}

	cfg := boardConfig{}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Board{
		effects:    append([]fx.Effect(nil), effects...),
		sampleRate: sampleRate,
		tailFrames: int(math.Round(cfg.tailSeconds * float64(sampleRate))),
	}, nil
}

// Len returns the number of stages.
func (b *Board) Len() int { return len(b.effects) }

// Effects returns the stages in processing order.
func (b *Board) Effects() []fx.Effect { return append([]fx.Effect(nil), b.effects...) }

// Process runs every effect once over a copy of in and returns the result.
// in is not modified. The output has the input's channel count and is
// longer than the input only by the configured tail.
func (b *Board) Process(ctx context.Context, in *audio.Buffer) (*audio.Buffer, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	if in.SampleRate != b.sampleRate {
		return nil, fmt.Errorf("pipeline: %w: buffer %d Hz, board %d Hz", ErrSampleRate, in.SampleRate, b.sampleRate)
	}

	out := in.Extend(b.tailFrames)

	for i, e := range b.effects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := e.Process(float64(b.sampleRate), out.Channels); err != nil {
			return nil, fmt.Errorf("pipeline: stage %d (%s): %w", i+1, e.Name(), err)
		}
	}

	return out, nil
}

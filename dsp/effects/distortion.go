package effects

import (
	"fmt"
	"math"
)

const (
	defaultDistortionDrive = 1.0
	defaultDistortionMix   = 1.0
)

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	drive float64
	mix   float64
}

// WithDistortionDrive sets the linear pre-shaper gain. Must be > 0.
func WithDistortionDrive(drive float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if drive <= 0 || !isFinite(drive) {
			return fmt.Errorf("distortion drive must be > 0 and finite: %f", drive)
		}

		cfg.drive = drive

		return nil
	}
}

// WithDistortionMix sets dry/wet mix in [0, 1].
func WithDistortionMix(mix float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if mix < 0 || mix > 1 || !isFinite(mix) {
			return fmt.Errorf("distortion mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// Distortion drives the input into a tanh waveshaper. The output of the
// shaper never exceeds ±1.
type Distortion struct {
	drive float64
	mix   float64
}

// NewDistortion creates a distortion processor with validated options.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := distortionConfig{drive: defaultDistortionDrive, mix: defaultDistortionMix}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Distortion{drive: cfg.drive, mix: cfg.mix}, nil
}

// Drive returns the pre-shaper gain.
func (d *Distortion) Drive() float64 { return d.drive }

// ProcessSample applies distortion to one sample.
func (d *Distortion) ProcessSample(input float64) float64 {
	wet := math.Tanh(input * d.drive)
	if d.mix == 1 {
		return wet
	}

	return input*(1-d.mix) + wet*d.mix
}

// ProcessInPlace applies distortion to buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

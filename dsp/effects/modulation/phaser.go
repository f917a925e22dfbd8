package modulation

import (
	"fmt"
	"math"
)

const (
	defaultPhaserRateHz   = 1.0
	defaultPhaserDepth    = 0.5
	defaultPhaserCentreHz = 1300.0
	defaultPhaserFeedback = 0.0
	defaultPhaserMix      = 0.5
	defaultPhaserStages   = 6

	maxPhaserRateHz = 100.0
	maxPhaserStages = 12

	// A full-depth sweep spans this many octaves either side of the centre.
	phaserSweepOctaves = 2.0

	phaserMinFreqHz          = 20.0
	phaserNyquistSafetyRatio = 0.45
	phaserFeedbackLimit      = 0.99

	// The allpass coefficient follows the LFO every this many samples.
	phaserCoeffUpdateInterval = 16
)

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

type phaserConfig struct {
	rateHz   float64
	depth    float64
	centreHz float64
	stages   int
	feedback float64
	mix      float64
}

func defaultPhaserConfig() phaserConfig {
	return phaserConfig{
		rateHz:   defaultPhaserRateHz,
		depth:    defaultPhaserDepth,
		centreHz: defaultPhaserCentreHz,
		stages:   defaultPhaserStages,
		feedback: defaultPhaserFeedback,
		mix:      defaultPhaserMix,
	}
}

// WithPhaserRateHz sets the LFO rate in [0, 100] Hz.
func WithPhaserRateHz(rateHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if rateHz < 0 || rateHz > maxPhaserRateHz || !isFinite(rateHz) {
			return fmt.Errorf("phaser rate must be in [0, %g]: %f", maxPhaserRateHz, rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithPhaserDepth sets the sweep depth in [0, 1].
func WithPhaserDepth(depth float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if depth < 0 || depth > 1 || !isFinite(depth) {
			return fmt.Errorf("phaser depth must be in [0, 1]: %f", depth)
		}

		cfg.depth = depth

		return nil
	}
}

// WithPhaserCentreHz sets the sweep centre frequency in Hz.
func WithPhaserCentreHz(centreHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if centreHz <= 0 || !isFinite(centreHz) {
			return fmt.Errorf("phaser centre frequency must be > 0 and finite: %f", centreHz)
		}

		cfg.centreHz = centreHz

		return nil
	}
}

// WithPhaserStages sets the number of allpass stages in [1, 12].
func WithPhaserStages(stages int) PhaserOption {
	return func(cfg *phaserConfig) error {
		if stages < 1 || stages > maxPhaserStages {
			return fmt.Errorf("phaser stages must be in [1, %d]: %d", maxPhaserStages, stages)
		}

		cfg.stages = stages

		return nil
	}
}

// WithPhaserFeedback sets the feedback amount in [-1, 1]. Values are
// limited to ±0.99 while processing to keep the loop stable.
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if feedback < -1 || feedback > 1 || !isFinite(feedback) {
			return fmt.Errorf("phaser feedback must be in [-1, 1]: %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithPhaserMix sets the wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if mix < 0 || mix > 1 || !isFinite(mix) {
			return fmt.Errorf("phaser mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

type phaserAllpassStage struct {
	x1 float64
	y1 float64
}

func (s *phaserAllpassStage) process(x, a float64) float64 {
	y := a*x + s.x1 - a*s.y1
	s.x1 = x
	s.y1 = y

	return y
}

// Phaser is a mono allpass-cascade phaser. The break frequency sweeps
// exponentially around the centre:
//
//	f(t) = centre * 2^(2 * depth * sin(2*pi*rate*t))
type Phaser struct {
	sampleRate float64
	cfg        phaserConfig

	feedback float64
	phaseInc float64

	lfoPhase       float64
	feedbackSample float64
	coeff          float64
	counter        int

	stages []phaserAllpassStage
}

// NewPhaser creates a phaser with optional overrides. The centre frequency
// must lie below Nyquist.
func NewPhaser(sampleRate float64, opts ...PhaserOption) (*Phaser, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("phaser sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultPhaserConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.centreHz >= sampleRate/2 {
		return nil, fmt.Errorf("phaser centre frequency must be below Nyquist (%g Hz): %g", sampleRate/2, cfg.centreHz)
	}

	return &Phaser{
		sampleRate: sampleRate,
		cfg:        cfg,
		feedback:   math.Max(-phaserFeedbackLimit, math.Min(phaserFeedbackLimit, cfg.feedback)),
		phaseInc:   2 * math.Pi * cfg.rateHz / sampleRate,
		stages:     make([]phaserAllpassStage, cfg.stages),
	}, nil
}

// Reset clears allpass and modulation state.
func (p *Phaser) Reset() {
	clear(p.stages)
	p.feedbackSample = 0
	p.lfoPhase = 0
	p.counter = 0
}

// ProcessSample processes one sample.
func (p *Phaser) ProcessSample(sample float64) float64 {
	if p.counter == 0 {
		p.coeff = phaserAllpassCoefficient(p.modulatedFrequency(), p.sampleRate)
	}

	p.counter++
	if p.counter >= phaserCoeffUpdateInterval {
		p.counter = 0
	}

	y := sample + p.feedback*p.feedbackSample
	for i := range p.stages {
		y = p.stages[i].process(y, p.coeff)
	}

	p.feedbackSample = y

	p.lfoPhase += p.phaseInc
	if p.lfoPhase >= 2*math.Pi {
		p.lfoPhase -= 2 * math.Pi
	}

	return sample*(1-p.cfg.mix) + y*p.cfg.mix
}

// ProcessInPlace applies phasing to buf in place.
func (p *Phaser) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = p.ProcessSample(buf[i])
	}
}

// SampleRate returns the sample rate in Hz.
func (p *Phaser) SampleRate() float64 { return p.sampleRate }

// Stages returns the number of allpass stages.
func (p *Phaser) Stages() int { return len(p.stages) }

// Mix returns the wet amount.
func (p *Phaser) Mix() float64 { return p.cfg.mix }

func (p *Phaser) modulatedFrequency() float64 {
	return p.cfg.centreHz * math.Exp2(phaserSweepOctaves*p.cfg.depth*math.Sin(p.lfoPhase))
}

// phaserAllpassCoefficient returns a for H(z) = (a + z^-1)/(1 + a*z^-1),
// whose phase passes -90 degrees at freqHz.
func phaserAllpassCoefficient(freqHz, sampleRate float64) float64 {
	freqHz = math.Max(phaserMinFreqHz, math.Min(freqHz, phaserNyquistSafetyRatio*sampleRate))

	g := math.Tan(math.Pi * freqHz / sampleRate)

	return (g - 1) / (g + 1)
}

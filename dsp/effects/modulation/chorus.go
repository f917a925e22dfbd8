package modulation

import (
	"fmt"
	"math"
)

const (
	defaultChorusRateHz        = 1.0
	defaultChorusDepth         = 0.25
	defaultChorusCentreSeconds = 0.007
	defaultChorusFeedback      = 0.0
	defaultChorusMix           = 0.5
	defaultChorusVoices        = 1

	maxChorusRateHz        = 100.0
	maxChorusCentreSeconds = 0.1
	maxChorusVoices        = 8
)

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*chorusConfig) error

type chorusConfig struct {
	rateHz        float64
	depth         float64
	centreSeconds float64
	feedback      float64
	mix           float64
	voices        int
}

func defaultChorusConfig() chorusConfig {
	return chorusConfig{
		rateHz:        defaultChorusRateHz,
		depth:         defaultChorusDepth,
		centreSeconds: defaultChorusCentreSeconds,
		feedback:      defaultChorusFeedback,
		mix:           defaultChorusMix,
		voices:        defaultChorusVoices,
	}
}

// WithChorusRateHz sets the LFO rate in [0, 100] Hz. 0 holds the delay at
// the centre.
func WithChorusRateHz(rateHz float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if rateHz < 0 || rateHz > maxChorusRateHz || !isFinite(rateHz) {
			return fmt.Errorf("chorus rate must be in [0, %g]: %f", maxChorusRateHz, rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithChorusDepth sets the modulation depth in [0, 1], relative to the
// centre delay.
func WithChorusDepth(depth float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if depth < 0 || depth > 1 || !isFinite(depth) {
			return fmt.Errorf("chorus depth must be in [0, 1]: %f", depth)
		}

		cfg.depth = depth

		return nil
	}
}

// WithChorusCentreDelay sets the centre delay in seconds, at most 0.1.
func WithChorusCentreDelay(seconds float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if seconds < 0 || seconds > maxChorusCentreSeconds || !isFinite(seconds) {
			return fmt.Errorf("chorus centre delay must be in [0, %g] s: %f", maxChorusCentreSeconds, seconds)
		}

		cfg.centreSeconds = seconds

		return nil
	}
}

// WithChorusFeedback sets how much wet signal is fed back into the delay
// line, in [-1, 1].
func WithChorusFeedback(feedback float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if feedback < -1 || feedback > 1 || !isFinite(feedback) {
			return fmt.Errorf("chorus feedback must be in [-1, 1]: %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithChorusMix sets the wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if mix < 0 || mix > 1 || !isFinite(mix) {
			return fmt.Errorf("chorus mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// WithChorusVoices sets the number of delay taps, spread evenly in LFO
// phase.
func WithChorusVoices(voices int) ChorusOption {
	return func(cfg *chorusConfig) error {
		if voices < 1 || voices > maxChorusVoices {
			return fmt.Errorf("chorus voices must be in [1, %d]: %d", maxChorusVoices, voices)
		}

		cfg.voices = voices

		return nil
	}
}

// Chorus is a modulated delay. Each voice reads the line at
//
//	d(t) = centre * (1 + depth * sin(2*pi*rate*t + 2*pi*v/voices))
//
// with Hermite interpolation. It is mono; run one per channel.
type Chorus struct {
	sampleRate float64
	cfg        chorusConfig

	centreSamples float64
	phaseInc      float64

	lfoPhase float64
	lastWet  float64

	delayLine []float64
	write     int
	maxDelay  float64
}

// NewChorus creates a chorus with optional overrides.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultChorusConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Chorus{
		sampleRate:    sampleRate,
		cfg:           cfg,
		centreSamples: cfg.centreSeconds * sampleRate,
		phaseInc:      2 * math.Pi * cfg.rateHz / sampleRate,
	}

	c.maxDelay = c.centreSamples * (1 + cfg.depth)
	c.delayLine = make([]float64, int(math.Ceil(c.maxDelay))+4)

	return c, nil
}

// Reset clears the delay line and rewinds the LFO.
func (c *Chorus) Reset() {
	clear(c.delayLine)
	c.write = 0
	c.lfoPhase = 0
	c.lastWet = 0
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	c.delayLine[c.write] = input + c.cfg.feedback*c.lastWet

	c.write++
	if c.write >= len(c.delayLine) {
		c.write = 0
	}

	wet := 0.0
	voices := float64(c.cfg.voices)

	for v := range c.cfg.voices {
		offset := 2 * math.Pi * float64(v) / voices
		delay := c.centreSamples * (1 + c.cfg.depth*math.Sin(c.lfoPhase+offset))
		wet += c.readFractional(delay)
	}

	wet /= voices
	c.lastWet = wet

	c.lfoPhase += c.phaseInc
	if c.lfoPhase >= 2*math.Pi {
		c.lfoPhase -= 2 * math.Pi
	}

	return input*(1-c.cfg.mix) + wet*c.cfg.mix
}

// ProcessInPlace applies the chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// SampleRate returns the sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

// Mix returns the wet amount.
func (c *Chorus) Mix() float64 { return c.cfg.mix }

func (c *Chorus) readFractional(delay float64) float64 {
	delay = math.Max(0, math.Min(delay, c.maxDelay))

	p := int(delay)
	t := delay - float64(p)

	return hermite4(t,
		c.tap(max(0, p-1)),
		c.tap(p),
		c.tap(p+1),
		c.tap(p+2),
	)
}

// tap returns the sample written delay samples ago; tap(0) is the newest.
func (c *Chorus) tap(delay int) float64 {
	if delay >= len(c.delayLine) {
		return 0
	}

	idx := c.write - 1 - delay
	if idx < 0 {
		idx += len(c.delayLine)
	}

	return c.delayLine[idx]
}

func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + x0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package fx

import (
	"github.com/cwbudde/algo-pedalboard/dsp/effects/dynamics"
	"github.com/cwbudde/algo-pedalboard/param"
)

// maxTimeMs bounds attack and release times.
const maxTimeMs = 5000.0

// Compressor is a feedforward peak compressor with a hard knee.
type Compressor struct {
	base

	opts []dynamics.CompressorOption
}

// NewCompressor builds a Compressor from threshold_db (default 0),
// ratio (1, must be >= 1), attack_ms (1) and release_ms (100). Times are
// in [0, 5000] ms.
func NewCompressor(params param.Set) (Effect, error) {
	r := newParamReader("Compressor", params)
	opts := []dynamics.CompressorOption{
		dynamics.WithThreshold(r.number("threshold_db", 0, -unbounded, unbounded)),
		dynamics.WithRatio(r.number("ratio", 1, 1, unbounded)),
		dynamics.WithAttack(r.number("attack_ms", 1, 0, maxTimeMs)),
		dynamics.WithRelease(r.number("release_ms", 100, 0, maxTimeMs)),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return &Compressor{base: base{name: "Compressor", params: params}, opts: opts}, nil
}

func (c *Compressor) Process(sampleRate float64, channels [][]float64) error {
	return processChannels(sampleRate, channels, func(sr float64) (kernel, error) {
		k, err := dynamics.NewCompressor(sr, c.opts...)
		if err != nil {
			return nil, kernelError(c.name, err)
		}

		return k, nil
	})
}

// Limiter is a fast, high-ratio compressor followed by a hard ceiling at
// the threshold.
type Limiter struct {
	base

	thresholdDB float64
	releaseMs   float64
}

// NewLimiter builds a Limiter from threshold_db (default -10) and
// release_ms (100, range [0, 5000]).
func NewLimiter(params param.Set) (Effect, error) {
	r := newParamReader("Limiter", params)
	l := &Limiter{
		base:        base{name: "Limiter", params: params},
		thresholdDB: r.number("threshold_db", -10, -unbounded, unbounded),
		releaseMs:   r.number("release_ms", 100, 0, maxTimeMs),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Limiter) Process(sampleRate float64, channels [][]float64) error {
	return processChannels(sampleRate, channels, func(sr float64) (kernel, error) {
		k, err := dynamics.NewLimiter(sr, l.thresholdDB, l.releaseMs)
		if err != nil {
			return nil, kernelError(l.name, err)
		}

		return k, nil
	})
}

// NoiseGate attenuates the signal when its RMS level falls below the
// threshold, expanding downward by ratio.
type NoiseGate struct {
	base

	opts []dynamics.GateOption
}

// NewNoiseGate builds a NoiseGate from threshold_db (default -100),
// ratio (10, must be >= 1), attack_ms (1) and release_ms (100).
func NewNoiseGate(params param.Set) (Effect, error) {
	r := newParamReader("NoiseGate", params)
	opts := []dynamics.GateOption{
		dynamics.WithGateThreshold(r.number("threshold_db", -100, -unbounded, unbounded)),
		dynamics.WithGateRatio(r.number("ratio", 10, 1, unbounded)),
		dynamics.WithGateAttack(r.number("attack_ms", 1, 0, maxTimeMs)),
		dynamics.WithGateRelease(r.number("release_ms", 100, 0, maxTimeMs)),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return &NoiseGate{base: base{name: "NoiseGate", params: params}, opts: opts}, nil
}

func (g *NoiseGate) Process(sampleRate float64, channels [][]float64) error {
	return processChannels(sampleRate, channels, func(sr float64) (kernel, error) {
		k, err := dynamics.NewGate(sr, g.opts...)
		if err != nil {
			return nil, kernelError(g.name, err)
		}

		return k, nil
	})
}

package dynamics

import (
	"fmt"
	"math"
)

const (
	defaultCompressorThresholdDB = 0.0
	defaultCompressorRatio       = 1.0
	defaultCompressorAttackMs    = 1.0
	defaultCompressorReleaseMs   = 100.0

	minCompressorRatio  = 1.0
	maxCompressorKneeDB = 24.0
)

// CompressorOption mutates compressor construction parameters.
type CompressorOption func(*compressorConfig) error

type compressorConfig struct {
	thresholdDB  float64
	ratio        float64
	kneeDB       float64
	attackMs     float64
	releaseMs    float64
	makeupGainDB float64
}

func defaultCompressorConfig() compressorConfig {
	return compressorConfig{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		attackMs:    defaultCompressorAttackMs,
		releaseMs:   defaultCompressorReleaseMs,
	}
}

// WithThreshold sets the threshold in dBFS.
func WithThreshold(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !isFinite(dB) {
			return fmt.Errorf("compressor threshold must be finite: %f", dB)
		}

		cfg.thresholdDB = dB

		return nil
	}
}

// WithRatio sets the compression ratio. 1 is no compression.
func WithRatio(ratio float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if ratio < minCompressorRatio || !isFinite(ratio) {
			return fmt.Errorf("compressor ratio must be >= %g and finite: %f", minCompressorRatio, ratio)
		}

		cfg.ratio = ratio

		return nil
	}
}

// WithKnee sets the soft-knee width in dB. 0 is a hard knee.
func WithKnee(kneeDB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if kneeDB < 0 || kneeDB > maxCompressorKneeDB || !isFinite(kneeDB) {
			return fmt.Errorf("compressor knee must be in [0, %g]: %f", maxCompressorKneeDB, kneeDB)
		}

		cfg.kneeDB = kneeDB

		return nil
	}
}

// WithAttack sets the detector attack time in milliseconds.
func WithAttack(ms float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if err := validateTime("compressor attack", ms); err != nil {
			return err
		}

		cfg.attackMs = ms

		return nil
	}
}

// WithRelease sets the detector release time in milliseconds.
func WithRelease(ms float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if err := validateTime("compressor release", ms); err != nil {
			return err
		}

		cfg.releaseMs = ms

		return nil
	}
}

// WithMakeupGain sets a fixed output gain in dB.
func WithMakeupGain(dB float64) CompressorOption {
	return func(cfg *compressorConfig) error {
		if !isFinite(dB) {
			return fmt.Errorf("compressor makeup gain must be finite: %f", dB)
		}

		cfg.makeupGainDB = dB

		return nil
	}
}

// Compressor is a feedforward peak compressor with log2-domain gain
// computation and an optional soft knee. It is mono; run one per channel.
type Compressor struct {
	sampleRate float64
	cfg        compressorConfig

	detector      follower
	curve         gainComputer
	makeupGainLin float64
}

// NewCompressor creates a compressor. Defaults: threshold 0 dB, ratio 1,
// hard knee, attack 1 ms, release 100 ms, no makeup gain.
func NewCompressor(sampleRate float64, opts ...CompressorOption) (*Compressor, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("compressor: %w", err)
	}

	cfg := defaultCompressorConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Compressor{
		sampleRate:    sampleRate,
		cfg:           cfg,
		detector:      newFollower(cfg.attackMs, cfg.releaseMs, sampleRate),
		curve:         newGainComputer(cfg.thresholdDB, cfg.kneeDB, 1-1/cfg.ratio),
		makeupGainLin: dbToGain(cfg.makeupGainDB),
	}, nil
}

// Threshold returns the threshold in dB.
func (c *Compressor) Threshold() float64 { return c.cfg.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.cfg.ratio }

// SampleRate returns the sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// ProcessSample processes one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	return input * c.GainForLevel(c.detector.process(math.Abs(input))) * c.makeupGainLin
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// GainForLevel returns the static gain for a detector level.
func (c *Compressor) GainForLevel(level float64) float64 {
	if level <= 0 {
		return 1
	}

	return c.curve.gain(log2(math.Max(level, minDetectLevel)) - c.curve.thresholdLog2)
}

// CalculateOutputLevel returns the steady-state output for a constant
// input magnitude, the compressor's transfer curve.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	return inputMagnitude * c.GainForLevel(inputMagnitude) * c.makeupGainLin
}

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.detector.y = 0
}

package dynamics

import (
	"fmt"
	"math"
)

const (
	defaultGateThresholdDB = -100.0
	defaultGateRatio       = 10.0
	defaultGateAttackMs    = 1.0
	defaultGateReleaseMs   = 100.0

	// gateRMSWindowMs is the time constant of the RMS level detector.
	gateRMSWindowMs = 50.0

	minGateRatio = 1.0
)

// GateOption mutates gate construction parameters.
type GateOption func(*gateConfig) error

type gateConfig struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
}

func defaultGateConfig() gateConfig {
	return gateConfig{
		thresholdDB: defaultGateThresholdDB,
		ratio:       defaultGateRatio,
		attackMs:    defaultGateAttackMs,
		releaseMs:   defaultGateReleaseMs,
	}
}

// WithGateThreshold sets the level in dBFS below which the gate closes.
func WithGateThreshold(dB float64) GateOption {
	return func(cfg *gateConfig) error {
		if !isFinite(dB) {
			return fmt.Errorf("gate threshold must be finite: %f", dB)
		}

		cfg.thresholdDB = dB

		return nil
	}
}

// WithGateRatio sets the downward expansion ratio. 1 disables gating.
func WithGateRatio(ratio float64) GateOption {
	return func(cfg *gateConfig) error {
		if ratio < minGateRatio || !isFinite(ratio) {
			return fmt.Errorf("gate ratio must be >= %g and finite: %f", minGateRatio, ratio)
		}

		cfg.ratio = ratio

		return nil
	}
}

// WithGateAttack sets how fast the gate opens, in milliseconds.
func WithGateAttack(ms float64) GateOption {
	return func(cfg *gateConfig) error {
		if err := validateTime("gate attack", ms); err != nil {
			return err
		}

		cfg.attackMs = ms

		return nil
	}
}

// WithGateRelease sets how fast the gate closes, in milliseconds.
func WithGateRelease(ms float64) GateOption {
	return func(cfg *gateConfig) error {
		if err := validateTime("gate release", ms); err != nil {
			return err
		}

		cfg.releaseMs = ms

		return nil
	}
}

// Gate is a downward expander driven by an RMS detector. Below the
// threshold the gain falls by (ratio-1) log2 units per log2 unit of
// undershoot; the gain itself is smoothed with the attack and release
// times. It is mono; run one per channel.
type Gate struct {
	cfg gateConfig

	rmsCoeff   float64
	meanSquare float64
	smoother   follower
	curve      gainComputer
}

// NewGate creates a gate. Defaults: threshold -100 dB, ratio 10, attack
// 1 ms, release 100 ms.
func NewGate(sampleRate float64, opts ...GateOption) (*Gate, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("gate: %w", err)
	}

	cfg := defaultGateConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	g := &Gate{
		cfg:      cfg,
		rmsCoeff: timeCoeff(gateRMSWindowMs, sampleRate),
		smoother: newFollower(cfg.attackMs, cfg.releaseMs, sampleRate),
		curve:    newGainComputer(cfg.thresholdDB, 0, cfg.ratio-1),
	}
	g.Reset()

	return g, nil
}

// Threshold returns the threshold in dB.
func (g *Gate) Threshold() float64 { return g.cfg.thresholdDB }

// Ratio returns the expansion ratio.
func (g *Gate) Ratio() float64 { return g.cfg.ratio }

// GainForLevel returns the static gain for an RMS level.
func (g *Gate) GainForLevel(level float64) float64 {
	return g.curve.gain(g.curve.thresholdLog2 - log2(math.Max(level, minDetectLevel)))
}

// ProcessSample processes one sample.
func (g *Gate) ProcessSample(input float64) float64 {
	sq := input * input
	g.meanSquare = sq + g.rmsCoeff*(g.meanSquare-sq)

	return input * g.smoother.process(g.GainForLevel(sqrt(g.meanSquare)))
}

// ProcessInPlace gates buf in place.
func (g *Gate) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = g.ProcessSample(buf[i])
	}
}

// Reset clears the detector and opens the gate, so material that starts
// above the threshold is not faded in.
func (g *Gate) Reset() {
	g.meanSquare = 0
	g.smoother.y = 1
}

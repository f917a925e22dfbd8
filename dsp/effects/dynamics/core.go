package dynamics

import (
	"fmt"
	"math"
)

const (
	// log2Of10Div20 converts decibels to the log2 domain: log2(10)/20.
	log2Of10Div20 = 0.166096404744

	// minDetectLevel keeps log2 finite on silence.
	minDetectLevel = 1e-12

	maxTimeMs = 5000.0
)

// follower is a one-pole envelope follower with separate rise and fall
// times.
type follower struct {
	attackCoeff  float64
	releaseCoeff float64
	y            float64
}

func newFollower(attackMs, releaseMs, sampleRate float64) follower {
	return follower{
		attackCoeff:  timeCoeff(attackMs, sampleRate),
		releaseCoeff: timeCoeff(releaseMs, sampleRate),
	}
}

func (f *follower) process(x float64) float64 {
	c := f.releaseCoeff
	if x > f.y {
		c = f.attackCoeff
	}

	f.y = x + c*(f.y-x)

	return f.y
}

// timeCoeff returns the pole of a one-pole smoother with the given time
// constant. Zero time tracks the input instantly.
func timeCoeff(ms, sampleRate float64) float64 {
	if ms <= 1e-3 {
		return 0
	}

	return math.Exp(-2 * math.Pi * 1000 / (sampleRate * ms))
}

// gainComputer holds the static curve of a compressor or expander in the
// log2 domain. slope is the gain change in log2 units per log2 unit of
// overshoot.
type gainComputer struct {
	thresholdLog2    float64
	kneeWidthLog2    float64
	invKneeWidthLog2 float64
	slope            float64
}

func newGainComputer(thresholdDB, kneeDB, slope float64) gainComputer {
	g := gainComputer{
		thresholdLog2: thresholdDB * log2Of10Div20,
		kneeWidthLog2: kneeDB * log2Of10Div20,
		slope:         slope,
	}

	if kneeDB > 0 {
		g.invKneeWidthLog2 = 1 / g.kneeWidthLog2
	}

	return g
}

// gain maps a signed distance past the threshold (log2 units, positive
// means "act") to a linear gain, with quadratic smoothing inside the knee.
func (g *gainComputer) gain(over float64) float64 {
	if g.kneeWidthLog2 <= 0 {
		if over <= 0 {
			return 1
		}

		return pow2(-over * g.slope)
	}

	half := g.kneeWidthLog2 * 0.5
	if over < -half {
		return 1
	}

	if over <= half {
		scratch := over + half
		over = scratch * scratch * 0.5 * g.invKneeWidthLog2
	}

	return pow2(-over * g.slope)
}

func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}

	return nil
}

func validateTime(name string, ms float64) error {
	if ms < 0 || ms > maxTimeMs || !isFinite(ms) {
		return fmt.Errorf("%s must be in [0, %g] ms: %f", name, maxTimeMs, ms)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package dynamics

import "math"

const (
	limiterRatio    = 100.0
	limiterAttackMs = 0.1
)

// Limiter is a fast 100:1 hard-knee compressor followed by a hard clip at
// the threshold, so no output sample exceeds the ceiling.
type Limiter struct {
	comp    *Compressor
	ceiling float64
}

// NewLimiter creates a limiter with its ceiling at thresholdDB.
func NewLimiter(sampleRate, thresholdDB, releaseMs float64) (*Limiter, error) {
	c, err := NewCompressor(sampleRate,
		WithThreshold(thresholdDB),
		WithRatio(limiterRatio),
		WithAttack(limiterAttackMs),
		WithRelease(releaseMs),
	)
	if err != nil {
		return nil, err
	}

	return &Limiter{comp: c, ceiling: dbToGain(thresholdDB)}, nil
}

// Ceiling returns the linear output ceiling.
func (l *Limiter) Ceiling() float64 { return l.ceiling }

// ProcessSample processes one sample.
func (l *Limiter) ProcessSample(input float64) float64 {
	y := l.comp.ProcessSample(input)
	return math.Max(-l.ceiling, math.Min(l.ceiling, y))
}

// ProcessInPlace limits buf in place.
func (l *Limiter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = l.ProcessSample(buf[i])
	}
}

// Reset clears the internal state.
func (l *Limiter) Reset() {
	l.comp.Reset()
}

package fx

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pedalboard/param"
)

// Gain scales the signal by a fixed amount in decibels.
type Gain struct {
	base

	gainDB float64
}

// NewGain builds a Gain from gain_db (default 1 dB).
func NewGain(params param.Set) (Effect, error) {
	r := newParamReader("Gain", params)
	g := &Gain{
		base:   base{name: "Gain", params: params},
		gainDB: r.number("gain_db", 1, -unbounded, unbounded),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return g, nil
}

// GainDB returns the configured gain in dB.
func (g *Gain) GainDB() float64 { return g.gainDB }

func (g *Gain) Process(sampleRate float64, channels [][]float64) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	scale := dbToLinear(g.gainDB)
	for _, ch := range channels {
		vecmath.ScaleBlock(ch, ch, scale)
	}

	return nil
}

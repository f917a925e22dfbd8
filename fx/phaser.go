package fx

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/effects/modulation"
	"github.com/cwbudde/algo-pedalboard/param"
)

// Phaser sweeps a cascade of six first-order allpass stages with a sine LFO
// and mixes the result with the dry signal.
type Phaser struct {
	base

	centreHz float64
	opts     []modulation.PhaserOption
}

// NewPhaser builds a Phaser from rate_hz (default 1, range [0, 100]),
// depth (0.5, [0, 1]), centre_frequency_hz (1300), feedback (0, [-1, 1])
// and mix (0.5, [0, 1]).
func NewPhaser(params param.Set) (Effect, error) {
	r := newParamReader("Phaser", params)
	p := &Phaser{base: base{name: "Phaser", params: params}}

	p.opts = []modulation.PhaserOption{
		modulation.WithPhaserRateHz(r.number("rate_hz", 1, 0, 100)),
		modulation.WithPhaserDepth(r.number("depth", 0.5, 0, 1)),
	}
	p.centreHz = r.number("centre_frequency_hz", 1300, math.SmallestNonzeroFloat64, unbounded)
	p.opts = append(p.opts,
		modulation.WithPhaserCentreHz(p.centreHz),
		modulation.WithPhaserFeedback(r.number("feedback", 0, -1, 1)),
		modulation.WithPhaserMix(r.number("mix", 0.5, 0, 1)),
	)

	if err := r.done(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Phaser) Process(sampleRate float64, channels [][]float64) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	if err := checkBelowNyquist(p.name, "centre_frequency_hz", p.centreHz, sampleRate); err != nil {
		return err
	}

	return processChannels(sampleRate, channels, func(sr float64) (kernel, error) {
		k, err := modulation.NewPhaser(sr, p.opts...)
		if err != nil {
			return nil, kernelError(p.name, err)
		}

		return k, nil
	})
}

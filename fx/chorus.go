package fx

import (
	"github.com/cwbudde/algo-pedalboard/dsp/effects/modulation"
	"github.com/cwbudde/algo-pedalboard/param"
)

// Chorus is a single-voice modulated delay with feedback. The read delay
// follows
//
//	d(t) = centre * (1 + depth * sin(2*pi*rate*t))
//
// so depth is relative to the centre delay.
type Chorus struct {
	base

	opts []modulation.ChorusOption
}

// NewChorus builds a Chorus from rate_hz (default 1, range [0, 100]),
// depth (0.25, [0, 1]), centre_delay_ms (7, [0, 100]), feedback (0, [-1, 1])
// and mix (0.5, [0, 1]).
func NewChorus(params param.Set) (Effect, error) {
	r := newParamReader("Chorus", params)
	opts := []modulation.ChorusOption{
		modulation.WithChorusRateHz(r.number("rate_hz", 1, 0, 100)),
		modulation.WithChorusDepth(r.number("depth", 0.25, 0, 1)),
		modulation.WithChorusCentreDelay(r.number("centre_delay_ms", 7, 0, 100) / 1000),
		modulation.WithChorusFeedback(r.number("feedback", 0, -1, 1)),
		modulation.WithChorusMix(r.number("mix", 0.5, 0, 1)),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return &Chorus{base: base{name: "Chorus", params: params}, opts: opts}, nil
}

func (c *Chorus) Process(sampleRate float64, channels [][]float64) error {
	return processChannels(sampleRate, channels, func(sr float64) (kernel, error) {
		k, err := modulation.NewChorus(sr, c.opts...)
		if err != nil {
			return nil, kernelError(c.name, err)
		}

		return k, nil
	})
}

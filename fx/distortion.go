package fx

import (
	"github.com/cwbudde/algo-pedalboard/dsp/effects"
	"github.com/cwbudde/algo-pedalboard/param"
)

// Distortion applies drive gain followed by tanh waveshaping.
type Distortion struct {
	base

	driveDB float64
}

// NewDistortion builds a Distortion from drive_db (default 25 dB).
func NewDistortion(params param.Set) (Effect, error) {
	r := newParamReader("Distortion", params)
	d := &Distortion{
		base:    base{name: "Distortion", params: params},
		driveDB: r.number("drive_db", 25, -unbounded, unbounded),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Distortion) Process(sampleRate float64, channels [][]float64) error {
	return processChannels(sampleRate, channels, func(float64) (kernel, error) {
		k, err := effects.NewDistortion(effects.WithDistortionDrive(dbToLinear(d.driveDB)))
		if err != nil {
			return nil, kernelError(d.name, err)
		}

		return k, nil
	})
}

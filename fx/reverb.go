package fx

import (
	"github.com/cwbudde/algo-pedalboard/dsp/effects"
	"github.com/cwbudde/algo-pedalboard/param"
)

// freezeAbove is the freeze_mode value from which the tail is held.
const freezeAbove = 0.5

// Reverb is a Freeverb-style stereo reverb.
type Reverb struct {
	base

	roomSize float64
	damping  float64
	wetLevel float64
	dryLevel float64
	width    float64
	freeze   float64
}

// NewReverb builds a Reverb from room_size (default 0.5), damping (0.5),
// wet_level (0.33), dry_level (0.4), width (1) and freeze_mode (0). All
// parameters are in [0, 1]; freeze_mode >= 0.5 holds the current tail.
func NewReverb(params param.Set) (Effect, error) {
	r := newParamReader("Reverb", params)
	rv := &Reverb{
		base:     base{name: "Reverb", params: params},
		roomSize: r.number("room_size", 0.5, 0, 1),
		damping:  r.number("damping", 0.5, 0, 1),
		wetLevel: r.number("wet_level", 0.33, 0, 1),
		dryLevel: r.number("dry_level", 0.4, 0, 1),
		width:    r.number("width", 1, 0, 1),
		freeze:   r.number("freeze_mode", 0, 0, 1),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return rv, nil
}

func (rv *Reverb) newKernel(sampleRate float64) (*effects.Reverb, error) {
	k, err := effects.NewReverb(sampleRate)
	if err != nil {
		return nil, kernelError(rv.name, err)
	}

	for _, set := range []struct {
		apply func(float64) error
		v     float64
	}{
		{k.SetRoomSize, rv.roomSize},
		{k.SetDamp, rv.damping},
		{k.SetWet, rv.wetLevel},
		{k.SetDry, rv.dryLevel},
		{k.SetWidth, rv.width},
	} {
		if err := set.apply(set.v); err != nil {
			return nil, kernelError(rv.name, err)
		}
	}

	k.SetFreeze(rv.freeze >= freezeAbove)

	return k, nil
}

// Process runs channels through the reverb in pairs. An odd last channel
// gets a mono tank.
func (rv *Reverb) Process(sampleRate float64, channels [][]float64) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	for c := 0; c < len(channels); c += 2 {
		k, err := rv.newKernel(sampleRate)
		if err != nil {
			return err
		}

		if c+1 >= len(channels) {
			k.ProcessInPlace(channels[c])
			continue
		}

		k.ProcessStereoInPlace(channels[c], channels[c+1])
	}

	return nil
}

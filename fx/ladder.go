package fx

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/filter/moog"
	"github.com/cwbudde/algo-pedalboard/param"
)

// LadderFilter is a four-stage nonlinear transistor ladder with selectable
// lowpass, highpass and bandpass responses.
type LadderFilter struct {
	base

	mode     moog.Mode
	cutoffHz float64
	opts     []moog.Option
}

// NewLadderFilter builds a LadderFilter from mode (default LPF12),
// cutoff_hz (200), resonance (0, range [0, 1]) and drive (1, range
// [1, 1000]).
func NewLadderFilter(params param.Set) (Effect, error) {
	r := newParamReader("LadderFilter", params)
	f := &LadderFilter{
		base:     base{name: "LadderFilter", params: params},
		mode:     moog.Mode(r.choice("mode", string(moog.ModeLPF12), moog.ModeNames())),
		cutoffHz: r.number("cutoff_hz", 200, math.SmallestNonzeroFloat64, unbounded),
	}

	f.opts = []moog.Option{
		moog.WithMode(f.mode),
		moog.WithCutoffHz(f.cutoffHz),
		moog.WithResonance(r.number("resonance", 0, 0, 1)),
		moog.WithDrive(r.number("drive", 1, 1, 1000)),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return f, nil
}

// Mode returns the filter mode.
func (f *LadderFilter) Mode() moog.Mode { return f.mode }

func (f *LadderFilter) Process(sampleRate float64, channels [][]float64) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	if err := checkBelowNyquist(f.name, "cutoff_hz", f.cutoffHz, sampleRate); err != nil {
		return err
	}

	return processChannels(sampleRate, channels, func(sr float64) (kernel, error) {
		k, err := moog.New(sr, f.opts...)
		if err != nil {
			return nil, kernelError(f.name, err)
		}

		return k, nil
	})
}

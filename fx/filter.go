package fx

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedalboard/dsp/filter/design"
	"github.com/cwbudde/algo-pedalboard/param"
)

// filterOrder is the Butterworth order of the pass filters: one pole,
// 6 dB/octave.
const filterOrder = 1

// PassFilter is a first-order highpass or lowpass filter.
type PassFilter struct {
	base

	cutoffHz float64
	design   func(freq float64, order int, sampleRate float64) []biquad.Coefficients
}

// NewHighpassFilter builds a HighpassFilter from cutoff_frequency_hz
// (default 50 Hz).
func NewHighpassFilter(params param.Set) (Effect, error) {
	return newPassFilter("HighpassFilter", params, design.ButterworthHP)
}

// NewLowpassFilter builds a LowpassFilter from cutoff_frequency_hz
// (default 50 Hz).
func NewLowpassFilter(params param.Set) (Effect, error) {
	return newPassFilter("LowpassFilter", params, design.ButterworthLP)
}

func newPassFilter(
	name string,
	params param.Set,
	design func(freq float64, order int, sampleRate float64) []biquad.Coefficients,
) (Effect, error) {
	r := newParamReader(name, params)
	f := &PassFilter{
		base:     base{name: name, params: params},
		cutoffHz: r.number("cutoff_frequency_hz", 50, math.SmallestNonzeroFloat64, unbounded),
		design:   design,
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	return f, nil
}

// CutoffHz returns the cutoff frequency.
func (f *PassFilter) CutoffHz() float64 { return f.cutoffHz }

func (f *PassFilter) Process(sampleRate float64, channels [][]float64) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	if err := checkBelowNyquist(f.name, "cutoff_frequency_hz", f.cutoffHz, sampleRate); err != nil {
		return err
	}

	coeffs := f.design(f.cutoffHz, filterOrder, sampleRate)

	return processChannels(sampleRate, channels, func(float64) (kernel, error) {
		return sectionKernel{biquad.NewSection(coeffs[0])}, nil
	})
}

type sectionKernel struct {
	*biquad.Section
}

func (k sectionKernel) ProcessInPlace(buf []float64) { k.ProcessBlock(buf) }

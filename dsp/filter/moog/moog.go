package moog

import (
	"fmt"
	"math"
)

const (
	defaultCutoffHz  = 200.0
	defaultResonance = 0.0
	defaultDrive     = 1.0

	minDrive = 1.0
	maxDrive = 1000.0

	// Resonance 0 still leaves a little feedback so the ladder keeps its
	// character; 1 reaches the self-oscillation threshold.
	minFeedback   = 0.1
	feedbackRange = 0.9

	// The feedback path sees a much gentler drive than the input.
	feedbackDriveScale  = 0.04
	feedbackDriveOffset = 0.96
)

// Mode selects which stage outputs are mixed into the filter output.
type Mode string

const (
	ModeLPF12 Mode = "LPF12"
	ModeHPF12 Mode = "HPF12"
	ModeBPF12 Mode = "BPF12"
	ModeLPF24 Mode = "LPF24"
	ModeHPF24 Mode = "HPF24"
	ModeBPF24 Mode = "BPF24"
)

// stageMix weights the input and the four stage outputs. comp is the share
// of the input added back into the feedback path, which keeps passband gain
// from collapsing as resonance rises.
type stageMix struct {
	weights [5]float64
	comp    float64
}

var modes = map[Mode]stageMix{
	ModeLPF12: {weights: [5]float64{0, 0, 1, 0, 0}, comp: 0.5},
	ModeHPF12: {weights: [5]float64{1, -2, 1, 0, 0}, comp: 0},
	ModeBPF12: {weights: [5]float64{0, 0, -1, 1, 0}, comp: 0.5},
	ModeLPF24: {weights: [5]float64{0, 0, 0, 0, 1}, comp: 0.5},
	ModeHPF24: {weights: [5]float64{1, -4, 6, -4, 1}, comp: 0},
	ModeBPF24: {weights: [5]float64{0, 0, 1, -2, 1}, comp: 0.5},
}

// ModeNames lists the modes in presentation order.
func ModeNames() []string {
	return []string{
		string(ModeLPF12), string(ModeHPF12), string(ModeBPF12),
		string(ModeLPF24), string(ModeHPF24), string(ModeBPF24),
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	mode      Mode
	cutoffHz  float64
	resonance float64
	drive     float64
}

func defaultConfig() config {
	return config{
		mode:      ModeLPF12,
		cutoffHz:  defaultCutoffHz,
		resonance: defaultResonance,
		drive:     defaultDrive,
	}
}

// WithMode selects the response shape.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if _, ok := modes[mode]; !ok {
			return fmt.Errorf("moog: invalid mode: %q", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithCutoffHz sets cutoff in Hz. Must be finite and > 0.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(cutoffHz, math.SmallestNonzeroFloat64, math.MaxFloat64, "cutoff"); err != nil {
			return err
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets resonance in [0, 1].
func WithResonance(resonance float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(resonance, 0, 1, "resonance"); err != nil {
			return err
		}

		cfg.resonance = resonance

		return nil
	}
}

// WithDrive sets input drive in [1, 1000].
func WithDrive(drive float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(drive, minDrive, maxDrive, "drive"); err != nil {
			return err
		}

		cfg.drive = drive

		return nil
	}
}

// State is the ladder's stage memory: the feedback-summed input followed by
// the four one-pole stage outputs.
type State [5]float64

// Filter is a four-stage nonlinear transistor ladder. Each stage is a
// one-pole lowpass with a 0.3 zero; the mode mixes stage outputs into
// 12 or 24 dB/octave lowpass, highpass and bandpass responses.
type Filter struct {
	sampleRate float64

	mode      Mode
	cutoffHz  float64
	resonance float64
	drive     float64

	mix stageMix

	a1, b0, b1 float64
	feedback   float64
	gain       float64
	drive2     float64
	gain2      float64

	state State
}

// New constructs a ladder filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("moog: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		sampleRate: sampleRate,
		mode:       cfg.mode,
		cutoffHz:   cfg.cutoffHz,
		resonance:  cfg.resonance,
		drive:      cfg.drive,
	}

	if err := f.rebuild(); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Mode returns the response shape.
func (f *Filter) Mode() Mode { return f.mode }

// CutoffHz returns the cutoff frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns the resonance in [0, 1].
func (f *Filter) Resonance() float64 { return f.resonance }

// Drive returns the input drive.
func (f *Filter) Drive() float64 { return f.drive }

// SetMode changes the response shape without clearing state.
func (f *Filter) SetMode(mode Mode) error {
	if _, ok := modes[mode]; !ok {
		return fmt.Errorf("moog: invalid mode: %q", mode)
	}

	f.mode = mode
	f.mix = modes[mode]

	return nil
}

// SetCutoffHz changes the cutoff frequency.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	prev := f.cutoffHz
	f.cutoffHz = cutoffHz

	if err := f.rebuild(); err != nil {
		f.cutoffHz = prev
		return err
	}

	return nil
}

// Reset clears ladder state.
func (f *Filter) Reset() {
	f.state = State{}
}

// State returns a copy of the stage memory.
func (f *Filter) State() State {
	return f.state
}

// SetState restores stage memory saved by State.
func (f *Filter) SetState(state State) error {
	for _, v := range state {
		if !isFinite(v) {
			return fmt.Errorf("moog: state contains NaN or Inf")
		}
	}

	f.state = state

	return nil
}

// ProcessSample processes one sample.
func (f *Filter) ProcessSample(input float64) float64 {
	s := &f.state

	dx := f.gain * math.Tanh(f.drive*input)
	a := dx - 4*f.feedback*(f.gain2*math.Tanh(f.drive2*s[4])-dx*f.mix.comp)
	b := f.b1*s[0] + f.a1*s[1] + f.b0*a
	c := f.b1*s[1] + f.a1*s[2] + f.b0*b
	d := f.b1*s[2] + f.a1*s[3] + f.b0*c
	e := f.b1*s[3] + f.a1*s[4] + f.b0*d

	*s = State{a, b, c, d, e}

	w := &f.mix.weights

	return a*w[0] + b*w[1] + c*w[2] + d*w[3] + e*w[4]
}

// ProcessInPlace processes a mono buffer in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

func (f *Filter) rebuild() error {
	if err := validateFiniteRange(f.cutoffHz, math.SmallestNonzeroFloat64, math.MaxFloat64, "cutoff"); err != nil {
		return err
	}

	nyquist := f.sampleRate * 0.5
	if f.cutoffHz >= nyquist {
		return fmt.Errorf("moog: cutoff must be < Nyquist (%g Hz): %g", nyquist, f.cutoffHz)
	}

	f.mix = modes[f.mode]

	f.a1 = math.Exp(-2 * math.Pi * f.cutoffHz / f.sampleRate)
	g := 1 - f.a1
	f.b0 = g / 1.3
	f.b1 = g * 0.3 / 1.3

	f.feedback = minFeedback + feedbackRange*f.resonance
	f.gain = driveCompensation(f.drive)
	f.drive2 = f.drive*feedbackDriveScale + feedbackDriveOffset
	f.gain2 = driveCompensation(f.drive2)

	return nil
}

// driveCompensation keeps loudness roughly constant as drive rises.
func driveCompensation(drive float64) float64 {
	return math.Pow(drive, -2.642)*0.6103 + 0.3903
}

func validateFiniteRange(value, lo, hi float64, name string) error {
	if !isFinite(value) {
		return fmt.Errorf("moog: %s must be finite: %v", name, value)
	}

	if value < lo || value > hi {
		return fmt.Errorf("moog: %s must be in [%g, %g]: %f", name, lo, hi, value)
	}

	return nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

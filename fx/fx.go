package fx

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedalboard/param"
)

// ErrInvalidParam is returned when a constructor or Process rejects a
// parameter value.
var ErrInvalidParam = errors.New("invalid effect parameter")

// Effect is a configured effect. It holds parameters only; every Process
// call builds fresh per-channel state, so an Effect can be reused and two
// effects never share mutable state.
type Effect interface {
	// Name returns the catalog name of the effect.
	Name() string
	// Params returns the parameters the effect was built from.
	Params() param.Set
	// Process filters channels in place. All channels have equal length.
	Process(sampleRate float64, channels [][]float64) error
}

// Constructor builds an Effect from a parameter mapping. Parameters missing
// from the mapping take the effect's built-in default; unknown names,
// mistyped values and out-of-range values are rejected.
type Constructor func(params param.Set) (Effect, error)

type base struct {
	name   string
	params param.Set
}

func (b base) Name() string      { return b.name }
func (b base) Params() param.Set { return b.params }

// kernel is the mono per-channel processing state of an effect.
type kernel interface {
	ProcessInPlace(buf []float64)
}

// processChannels runs a fresh kernel over each channel.
func processChannels(sampleRate float64, channels [][]float64, newKernel func(sampleRate float64) (kernel, error)) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	for _, ch := range channels {
		k, err := newKernel(sampleRate)
		if err != nil {
			return err
		}

		k.ProcessInPlace(ch)
	}

	return nil
}

func checkSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("fx: sample rate must be > 0 and finite: %f", sampleRate)
	}

	return nil
}

// checkBelowNyquist validates a frequency against the processing sample rate.
func checkBelowNyquist(effect, name string, freqHz, sampleRate float64) error {
	if freqHz >= sampleRate/2 {
		return fmt.Errorf("%w: %s.%s = %g Hz must be below Nyquist (%g Hz)", ErrInvalidParam, effect, name, freqHz, sampleRate/2)
	}

	return nil
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// kernelError marks a kernel construction failure as a parameter error of
// the named effect.
func kernelError(effect string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidParam, effect, err)
}

package fx

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/dsp/conv"
	"github.com/cwbudde/algo-pedalboard/param"
)

const (
	syntheticIRSeconds = 0.6
	syntheticIRDecay   = 6.9 / syntheticIRSeconds // -60 dB over the IR length
	syntheticIRSeed    = 0x5eed
)

// Convolution convolves each channel with a mono impulse response. With no
// impulse_response_filename it uses a synthetic decaying-noise room.
type Convolution struct {
	base

	ir  *audio.Buffer
	mix float64
}

// NewConvolution builds a Convolution with no impulse response directory,
// so only the built-in room is available.
func NewConvolution(params param.Set) (Effect, error) {
	return newConvolution("", params)
}

// ConvolutionIn returns a Convolution constructor that resolves
// impulse_response_filename (default "", the built-in room) inside dir.
// mix defaults to 1, range [0, 1]. The impulse response is read when the
// effect is built.
func ConvolutionIn(dir IRDir) Constructor {
	return func(params param.Set) (Effect, error) {
		return newConvolution(dir, params)
	}
}

func newConvolution(dir IRDir, params param.Set) (Effect, error) {
	r := newParamReader("Convolution", params)
	name := r.text("impulse_response_filename", "")
	c := &Convolution{
		base: base{name: "Convolution", params: params},
		mix:  r.number("mix", 1, 0, 1),
	}

	if err := r.done(); err != nil {
		return nil, err
	}

	if name != "" {
		ir, err := dir.Load(name)
		if err != nil {
			return nil, fmt.Errorf("%w: Convolution.impulse_response_filename: %w", ErrInvalidParam, err)
		}

		c.ir = ir
	}

	return c, nil
}

func (c *Convolution) impulseResponse(sampleRate float64) ([]float64, error) {
	if c.ir == nil {
		return syntheticIR(sampleRate), nil
	}

	if float64(c.ir.SampleRate) != sampleRate {
		return nil, fmt.Errorf("%w: Convolution: impulse response is %d Hz, audio is %g Hz",
			ErrInvalidParam, c.ir.SampleRate, sampleRate)
	}

	return c.ir.Mono(), nil
}

func (c *Convolution) Process(sampleRate float64, channels [][]float64) error {
	if err := checkSampleRate(sampleRate); err != nil {
		return err
	}

	ir, err := c.impulseResponse(sampleRate)
	if err != nil {
		return err
	}

	oa, err := conv.NewOverlapAdd(ir, 0)
	if err != nil {
		return kernelError(c.name, err)
	}

	for _, ch := range channels {
		if len(ch) == 0 {
			continue
		}

		wet, err := oa.ProcessSame(ch)
		if err != nil {
			return kernelError(c.name, err)
		}

		// ch = (1-mix)*ch + mix*wet
		vecmath.ScaleBlock(ch, ch, 1-c.mix)
		vecmath.ScaleBlock(wet, wet, c.mix)
		vecmath.AddBlockInPlace(ch, wet)
	}

	return nil
}

// syntheticIR returns a deterministic exponentially decaying noise burst
// with unit energy.
func syntheticIR(sampleRate float64) []float64 {
	n := max(1, int(syntheticIRSeconds*sampleRate))
	rng := rand.New(rand.NewPCG(syntheticIRSeed, syntheticIRSeed))

	ir := make([]float64, n)
	energy := 0.0

	for i := range ir {
		t := float64(i) / sampleRate
		ir[i] = (2*rng.Float64() - 1) * math.Exp(-syntheticIRDecay*t)
		energy += ir[i] * ir[i]
	}

	ir[0] = 1
	energy += 1

	vecmath.ScaleBlock(ir, ir, 1/math.Sqrt(energy))

	return ir
}

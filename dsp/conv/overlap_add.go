package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const minAutoBlockSize = 256

// OverlapAdd convolves signals with a fixed kernel using the overlap-add
// method. The kernel spectrum is computed once; each call to Process splits
// the input into blocks, multiplies their spectra with it and sums the
// overlapping tails.
type OverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int

	plan *algofft.Plan[complex128]

	timeBuf []complex128
	freqBuf []complex128
}

// NewOverlapAdd creates a convolver for kernel. If blockSize is 0 the block
// is the next power of two at or above the kernel length, at least 256.
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	kernelLen := len(kernel)

	if blockSize <= 0 {
		blockSize = max(minAutoBlockSize, nextPowerOf2(kernelLen))
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		timeBuf:   make([]complex128, fftSize),
		freqBuf:   make([]complex128, fftSize),
	}

	for i, v := range kernel {
		oa.timeBuf[i] = complex(v, 0)
	}

	if err := plan.Forward(oa.kernelFFT, oa.timeBuf); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return oa, nil
}

// BlockSize returns the input block size.
func (oa *OverlapAdd) BlockSize() int { return oa.blockSize }

// FFTSize returns the FFT size used internally.
func (oa *OverlapAdd) FFTSize() int { return oa.fftSize }

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int { return oa.kernelLen }

// Process returns the full linear convolution, of length
// len(input)+KernelLen()-1.
func (oa *OverlapAdd) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	output := make([]float64, len(input)+oa.kernelLen-1)
	if err := oa.accumulate(output, input); err != nil {
		return nil, err
	}

	return output, nil
}

// ProcessSame returns the first len(input) samples of the convolution,
// so the output is time-aligned with the input and the tail is dropped.
func (oa *OverlapAdd) ProcessSame(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	output := make([]float64, len(input))
	if err := oa.accumulate(output, input); err != nil {
		return nil, err
	}

	return output, nil
}

// ProcessTo convolves input into output, which must have length
// len(input)+KernelLen()-1.
func (oa *OverlapAdd) ProcessTo(output, input []float64) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}

	if want := len(input) + oa.kernelLen - 1; len(output) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(output))
	}

	clear(output)

	return oa.accumulate(output, input)
}

// accumulate adds input*kernel into output, dropping samples past its end.
func (oa *OverlapAdd) accumulate(output, input []float64) error {
	for start := 0; start < len(input); start += oa.blockSize {
		end := min(start+oa.blockSize, len(input))

		clear(oa.timeBuf)
		for i := start; i < end; i++ {
			oa.timeBuf[i-start] = complex(input[i], 0)
		}

		if err := oa.plan.Forward(oa.freqBuf, oa.timeBuf); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}

		for i := range oa.freqBuf {
			oa.freqBuf[i] *= oa.kernelFFT[i]
		}

		if err := oa.plan.Inverse(oa.timeBuf, oa.freqBuf); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		resultLen := end - start + oa.kernelLen - 1
		for i := 0; i < resultLen && start+i < len(output); i++ {
			output[start+i] += real(oa.timeBuf[i])
		}
	}

	return nil
}

// OverlapAddConvolve performs one-shot overlap-add convolution.
func OverlapAddConvolve(signal, kernel []float64) ([]float64, error) {
	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}

	return oa.Process(signal)
}

// Package conv provides FFT-based convolution of real signals.
//
// Direct is the O(N*M) reference. OverlapAdd segments the signal into
// blocks and convolves each block in the frequency domain, which is the
// method of choice for impulse responses of more than a few dozen taps.
//
//	oa, err := conv.NewOverlapAdd(ir, 0)
//	wet, err := oa.ProcessSame(signal)
package conv

import (
	"errors"
	"math/bits"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Direct performs time-domain linear convolution of a and b. The result has
// length len(a)+len(b)-1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, h := range b {
			out[i+j] += x * h
		}
	}

	return out, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}

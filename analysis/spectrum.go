package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pedalboard/dsp/window"
)

// FloorDB is the lowest level reported by Spectrum.
const FloorDB = -130.0

// DefaultFFTSize is the analysis frame length used by the UI.
const DefaultFFTSize = 4096

// ErrFFTSize is returned for frame sizes that are not a power of two >= 16.
var ErrFFTSize = errors.New("fft size must be a power of two >= 16")

// Spectrum is an averaged single-sided amplitude spectrum. A full-scale sine
// that falls on a bin centre reads 0 dB.
type Spectrum struct {
	SampleRate int
	Freqs      []float64
	DB         []float64
}

// ComputeSpectrum averages the power of Hann-windowed frames of x with 50 %
// overlap. Input shorter than one frame is zero padded.
func ComputeSpectrum(x []float64, sampleRate, size int) (*Spectrum, error) {
	if size < 16 || size&(size-1) != 0 {
		return nil, fmt.Errorf("analysis: %w: %d", ErrFFTSize, size)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("analysis: sample rate must be > 0: %d", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analysis: fft plan: %w", err)
	}

	win, err := window.Hann(size, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	winSum := window.CoherentGain(win) * float64(size)

	bins := size/2 + 1
	hop := size / 2

	var (
		frame = make([]float64, size)
		buf   = make([]complex128, size)
		freq  = make([]complex128, size)
		re    = make([]float64, bins)
		im    = make([]float64, bins)
		pow   = make([]float64, bins)
		acc   = make([]float64, bins)
	)

	frames := 0
	for start := 0; frames == 0 || start+size <= len(x); start += hop {
		clear(frame)
		copy(frame, x[min(start, len(x)):min(start+size, len(x))])
		if err := window.ApplyCoefficientsInPlace(frame, win); err != nil {
			return nil, fmt.Errorf("analysis: %w", err)
		}

		for i, v := range frame {
			buf[i] = complex(v, 0)
		}

		if err := plan.Forward(freq, buf); err != nil {
			return nil, fmt.Errorf("analysis: fft: %w", err)
		}

		for i := range bins {
			re[i] = real(freq[i])
			im[i] = imag(freq[i])
		}

		vecmath.Power(pow, re, im)
		vecmath.AddBlockInPlace(acc, pow)

		frames++
	}

	vecmath.ScaleBlock(acc, acc, 1/float64(frames))

	s := &Spectrum{
		SampleRate: sampleRate,
		Freqs:      make([]float64, bins),
		DB:         make([]float64, bins),
	}

	for k := range bins {
		s.Freqs[k] = float64(k) * float64(sampleRate) / float64(size)

		amp := 2 * math.Sqrt(acc[k]) / winSum
		if k == 0 || k == bins-1 {
			amp /= 2
		}

		s.DB[k] = toDB(amp)
	}

	return s, nil
}

// LevelAt returns the highest level within two bins of freq.
func (s *Spectrum) LevelAt(freq float64) float64 {
	if len(s.Freqs) < 2 {
		return FloorDB
	}

	step := s.Freqs[1]
	k := int(math.Round(freq / step))

	level := FloorDB
	for i := max(0, k-2); i <= min(len(s.DB)-1, k+2); i++ {
		level = math.Max(level, s.DB[i])
	}

	return level
}

// ToneLevelDB measures the level of a sine at freq in x.
func ToneLevelDB(x []float64, sampleRate int, freq float64) (float64, error) {
	s, err := ComputeSpectrum(x, sampleRate, DefaultFFTSize)
	if err != nil {
		return 0, err
	}

	return s.LevelAt(freq), nil
}

func toDB(amp float64) float64 {
	if amp <= 0 {
		return FloorDB
	}

	return math.Max(FloorDB, 20*math.Log10(amp))
}

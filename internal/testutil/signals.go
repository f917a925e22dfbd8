// Package testutil holds deterministic test signals and tolerance checks
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-pedalboard/audio"
)

// Sine returns frames samples of a sine at freqHz.
func Sine(freqHz float64, sampleRate int, amplitude float64, frames int) []float64 {
	out := make([]float64, frames)
	step := 2 * math.Pi * freqHz / float64(sampleRate)

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise returns white noise with a fixed seed.
func Noise(seed int64, amplitude float64, frames int) []float64 {
	out := make([]float64, frames)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(frames, pos int) []float64 {
	out := make([]float64, frames)
	if pos >= 0 && pos < frames {
		out[pos] = 1
	}

	return out
}

// ToneBuffer returns a buffer holding a sine at freqHz on every channel,
// channel c shifted by a quarter period per channel.
func ToneBuffer(sampleRate, channels int, freqHz, amplitude float64, frames int) *audio.Buffer {
	b := audio.NewBuffer(sampleRate, channels, frames)
	step := 2 * math.Pi * freqHz / float64(sampleRate)

	for c, ch := range b.Channels {
		shift := float64(c) * math.Pi / 2
		for i := range ch {
			ch[i] = amplitude * math.Sin(step*float64(i)+shift)
		}
	}

	return b
}

// WriteWAV writes b as 16-bit PCM to name inside a fresh temp dir and
// returns the path.
func WriteWAV(t *testing.T, name string, b *audio.Buffer) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := audio.WriteWAV(path, b, 16); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

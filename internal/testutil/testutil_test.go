package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedalboard/audio"
)

func TestSineLevels(t *testing.T) {
	t.Parallel()

	x := Sine(1000, 48000, 0.5, 48000)

	if got := Peak(x); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Peak = %v, want 0.5", got)
	}

	if got := RMS(x); math.Abs(got-0.5/math.Sqrt2) > 1e-6 {
		t.Errorf("RMS = %v, want %v", got, 0.5/math.Sqrt2)
	}
}

func TestNoiseIsDeterministic(t *testing.T) {
	t.Parallel()

	a := Noise(7, 0.3, 512)
	RequireSliceNearlyEqual(t, a, Noise(7, 0.3, 512), 0)
	RequireFinite(t, a)

	if Peak(a) > 0.3 {
		t.Fatalf("Peak = %v, want <= 0.3", Peak(a))
	}
}

func TestImpulse(t *testing.T) {
	t.Parallel()

	RequireSliceNearlyEqual(t, Impulse(4, 2), []float64{0, 0, 1, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(3, 5), []float64{0, 0, 0}, 0)
}

func TestToneBufferQuadrature(t *testing.T) {
	t.Parallel()

	b := ToneBuffer(8000, 2, 1000, 1, 8)

	// Two samples per quarter period at 8 kHz.
	RequireSliceNearlyEqual(t, b.Channels[1][:6], b.Channels[0][2:8], 1e-12)
}

func TestWriteWAV(t *testing.T) {
	t.Parallel()

	path := WriteWAV(t, "tone.wav", ToneBuffer(22050, 1, 440, 0.25, 2205))

	got, err := audio.ReadWAV(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.SampleRate != 22050 || got.Frames() != 2205 {
		t.Fatalf("read %d Hz x %d frames", got.SampleRate, got.Frames())
	}
}

func TestRMSEmpty(t *testing.T) {
	t.Parallel()

	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}

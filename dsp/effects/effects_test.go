package effects

import (
	"math"
	"testing"
)

func TestDistortionBoundedAndMixed(t *testing.T) {
	t.Parallel()

	d, err := NewDistortion(WithDistortionDrive(10))
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range []float64{-4, -1, -0.1, 0, 0.1, 1, 4} {
		y := d.ProcessSample(x)
		if math.Abs(y) > 1 {
			t.Fatalf("shaped %g -> %g, want |y| <= 1", x, y)
		}

		if y != math.Tanh(10*x) {
			t.Fatalf("shaped %g -> %g, want tanh", x, y)
		}
	}

	half, err := NewDistortion(WithDistortionDrive(10), WithDistortionMix(0.5))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := half.ProcessSample(0.5), 0.25+0.5*math.Tanh(5); math.Abs(got-want) > 1e-15 {
		t.Fatalf("half mix = %g, want %g", got, want)
	}

	for _, opt := range []DistortionOption{WithDistortionDrive(0), WithDistortionMix(2)} {
		if _, err := NewDistortion(opt); err == nil {
			t.Fatal("expected option error")
		}
	}
}

func TestReverbDryUnity(t *testing.T) {
	t.Parallel()

	r, err := NewReverb(44100)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.SetWet(0); err != nil {
		t.Fatal(err)
	}

	if err := r.SetDry(0.5); err != nil {
		t.Fatal(err)
	}

	for i := range 1000 {
		x := math.Sin(float64(i) * 0.05)
		l, rr := r.ProcessStereo(x, -x)

		if l != x || rr != -x {
			t.Fatalf("frame %d: (%g, %g), want (%g, %g)", i, l, rr, x, -x)
		}
	}
}

func TestReverbTailAndFreeze(t *testing.T) {
	t.Parallel()

	r, err := NewReverb(48000)
	if err != nil {
		t.Fatal(err)
	}

	_ = r.SetDry(0)

	buf := make([]float64, 48000)
	buf[0] = 1
	r.ProcessInPlace(buf)

	tail := 0.0
	for _, v := range buf[4800:] {
		tail += v * v
	}

	if tail == 0 {
		t.Fatal("no reverb tail")
	}

	// A frozen tank holds its energy and ignores new input.
	r.SetFreeze(true)

	held := make([]float64, 48000)
	held[0] = 1
	r.ProcessInPlace(held)

	if e := energy(held[24000:]); e < 0.5*energy(held[:24000]) {
		t.Fatalf("frozen tail decayed: %g -> %g", energy(held[:24000]), e)
	}

	r.Reset()

	silent := make([]float64, 4800)
	silent[0] = 1
	r.ProcessInPlace(silent)

	if e := energy(silent); e != 0 {
		t.Fatalf("frozen empty tank produced energy %g", e)
	}
}

func TestReverbWidthZeroIsMono(t *testing.T) {
	t.Parallel()

	r, err := NewReverb(44100)
	if err != nil {
		t.Fatal(err)
	}

	_ = r.SetDry(0)
	_ = r.SetWidth(0)

	left := make([]float64, 8000)
	right := make([]float64, 8000)
	left[0] = 1

	r.ProcessStereoInPlace(left, right)

	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("frame %d differs with width 0: %g vs %g", i, left[i], right[i])
		}
	}

	if err := r.SetWidth(1.5); err == nil {
		t.Fatal("expected width error")
	}
}

func energy(x []float64) float64 {
	e := 0.0
	for _, v := range x {
		e += v * v
	}

	return e
}

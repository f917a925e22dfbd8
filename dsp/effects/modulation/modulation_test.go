package modulation

import (
	"math"
	"testing"
)

const sampleRate = 44100.0

func testSignal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / 37)
	}

	return out
}

func TestChorusStaticDelay(t *testing.T) {
	t.Parallel()

	c, err := NewChorus(sampleRate, WithChorusDepth(0), WithChorusCentreDelay(0.01), WithChorusMix(1))
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	buf := make([]float64, 1000)
	buf[0] = 1
	c.ProcessInPlace(buf)

	for i, v := range buf {
		want := 0.0
		if i == 441 {
			want = 1
		}

		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("sample %d = %g, want %g", i, v, want)
		}
	}
}

func TestChorusFeedbackRepeats(t *testing.T) {
	t.Parallel()

	c, err := NewChorus(sampleRate,
		WithChorusDepth(0), WithChorusCentreDelay(0.001), WithChorusFeedback(0.5), WithChorusMix(1))
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]float64, 200)
	buf[0] = 1
	c.ProcessInPlace(buf)

	// 1 ms is 44.1 samples, so the echoes are interpolated; check energy
	// after the first repeat instead of exact taps.
	tail := 0.0
	for _, v := range buf[60:] {
		tail += v * v
	}

	if tail < 0.01 {
		t.Fatalf("feedback produced no repeats: tail energy %g", tail)
	}
}

func TestChorusResetRestoresState(t *testing.T) {
	t.Parallel()

	c, err := NewChorus(sampleRate, WithChorusVoices(3), WithChorusRateHz(2))
	if err != nil {
		t.Fatal(err)
	}

	first := testSignal(512)
	c.ProcessInPlace(first)
	c.Reset()

	second := testSignal(512)
	c.ProcessInPlace(second)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after Reset", i)
		}
	}
}

func TestPhaserDryMixIsIdentity(t *testing.T) {
	t.Parallel()

	p, err := NewPhaser(sampleRate, WithPhaserMix(0), WithPhaserFeedback(0.7))
	if err != nil {
		t.Fatal(err)
	}

	in := testSignal(256)
	out := append([]float64(nil), in...)
	p.ProcessInPlace(out)

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed with mix 0", i)
		}
	}
}

func TestPhaserWetIsAllpass(t *testing.T) {
	t.Parallel()

	// With the LFO stopped the wet path is a fixed allpass cascade: it
	// keeps the energy of a long tone.
	p, err := NewPhaser(sampleRate, WithPhaserRateHz(0), WithPhaserMix(1))
	if err != nil {
		t.Fatal(err)
	}

	in := testSignal(8192)
	out := append([]float64(nil), in...)
	p.ProcessInPlace(out)

	var ein, eout float64
	for i := 1024; i < len(in); i++ {
		ein += in[i] * in[i]
		eout += out[i] * out[i]
	}

	if math.Abs(eout/ein-1) > 0.01 {
		t.Fatalf("allpass energy ratio = %g, want 1", eout/ein)
	}
}

func TestPhaserAllpassCoefficientCrossing(t *testing.T) {
	t.Parallel()

	a := phaserAllpassCoefficient(sampleRate/4, sampleRate)
	if math.Abs(a) > 1e-12 {
		t.Fatalf("coefficient at fs/4 = %g, want 0", a)
	}

	if lo, hi := phaserAllpassCoefficient(100, sampleRate), phaserAllpassCoefficient(10000, sampleRate); lo >= hi {
		t.Fatalf("coefficient should rise with frequency: %g, %g", lo, hi)
	}
}

func TestModulationOptionsValidate(t *testing.T) {
	t.Parallel()

	for _, opt := range []ChorusOption{
		WithChorusDepth(1.5),
		WithChorusCentreDelay(-0.001),
		WithChorusFeedback(2),
		WithChorusMix(math.NaN()),
		WithChorusVoices(0),
		WithChorusRateHz(-1),
	} {
		if _, err := NewChorus(sampleRate, opt); err == nil {
			t.Fatal("expected chorus option error")
		}
	}

	for _, opt := range []PhaserOption{
		WithPhaserDepth(-0.1),
		WithPhaserCentreHz(0),
		WithPhaserCentreHz(30000),
		WithPhaserStages(13),
		WithPhaserMix(1.1),
	} {
		if _, err := NewPhaser(sampleRate, opt); err == nil {
			t.Fatal("expected phaser option error")
		}
	}
}

package fx

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cwbudde/algo-pedalboard/audio"
	"github.com/cwbudde/algo-pedalboard/dsp/conv"
	"github.com/cwbudde/algo-pedalboard/dsp/filter/moog"
	"github.com/cwbudde/algo-pedalboard/param"
)

func TestGainScalesEverySample(t *testing.T) {
	t.Parallel()

	in := make([]float64, 1000)
	for i := range in {
		in[i] = float64(i%200)/200 - 0.5
	}

	g := mustBuild(t, NewGain, set("gain_db", 6.0))
	out := process(t, g, in)

	want := math.Pow(10, 6.0/20)
	for i := range in {
		if math.Abs(out[0][i]-in[i]*want) > 1e-12 {
			t.Fatalf("sample %d = %g, want %g", i, out[0][i], in[i]*want)
		}
	}
}

func TestConstructorsRejectBadParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ctor   Constructor
		params param.Set
	}{
		{"unknown name", NewGain, set("gain_db", 1.0, "volume", 2.0)},
		{"text for number", NewGain, set("gain_db", "loud")},
		{"chorus depth above 1", NewChorus, set("depth", 5.0)},
		{"chorus negative centre delay", NewChorus, set("centre_delay_ms", -1.0)},
		{"compressor ratio below 1", NewCompressor, set("ratio", 0.5)},
		{"ladder drive below 1", NewLadderFilter, set("drive", 0.5)},
		{"ladder bad mode", NewLadderFilter, set("mode", "NOTCH")},
		{"ladder numeric mode", NewLadderFilter, set("mode", 3)},
		{"phaser mix above 1", NewPhaser, set("mix", 1.5)},
		{"reverb width above 1", NewReverb, set("width", 2.0)},
		{"gate negative attack", NewNoiseGate, set("attack_ms", -1.0)},
		{"compressor release above 5 s", NewCompressor, set("release_ms", 6000.0)},
		{"ladder drive above 1000", NewLadderFilter, set("drive", 2000.0)},
		{"highpass zero cutoff", NewHighpassFilter, set("cutoff_frequency_hz", 0)},
		{"gain infinite", NewGain, set("gain_db", math.Inf(1))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.ctor(tc.params)
			if !errors.Is(err, ErrInvalidParam) {
				t.Fatalf("err = %v, want ErrInvalidParam", err)
			}
		})
	}
}

func TestConstructorsAcceptEmptySet(t *testing.T) {
	t.Parallel()

	ctors := []Constructor{
		NewChorus, NewCompressor, NewConvolution, NewDistortion, NewGain, NewHighpassFilter,
		NewLadderFilter, NewLimiter, NewLowpassFilter, NewNoiseGate, NewPhaser, NewReverb,
	}

	for _, ctor := range ctors {
		e, err := ctor(nil)
		if err != nil {
			t.Fatalf("default construction failed: %v", err)
		}

		if e.Name() == "" {
			t.Fatal("effect has no name")
		}
	}
}

func TestHighpassThenLowpassAttenuatesTone(t *testing.T) {
	t.Parallel()

	in := sine(1000, 0.5, int(testRate))

	hp := mustBuild(t, NewHighpassFilter, set("cutoff_frequency_hz", 50))
	lp := mustBuild(t, NewLowpassFilter, set("cutoff_frequency_hz", 50))

	out := process(t, hp, in)
	out = process(t, lp, out[0])

	settled := int(testRate / 10)
	if got, ref := rms(out[0][settled:]), rms(in[settled:]); got > 0.1*ref {
		t.Fatalf("1 kHz rms after HP(50)->LP(50) = %g, input %g", got, ref)
	}
}

func TestLowpassPassesLowTone(t *testing.T) {
	t.Parallel()

	in := sine(100, 0.5, int(testRate))
	lp := mustBuild(t, NewLowpassFilter, set("cutoff_frequency_hz", 5000))
	out := process(t, lp, in)

	settled := int(testRate / 10)
	if got, ref := rms(out[0][settled:]), rms(in[settled:]); got < 0.95*ref {
		t.Fatalf("100 Hz rms through LP(5000) = %g, input %g", got, ref)
	}
}

func TestFilterCutoffAboveNyquist(t *testing.T) {
	t.Parallel()

	lp := mustBuild(t, NewLowpassFilter, set("cutoff_frequency_hz", 30000))

	err := lp.Process(testRate, [][]float64{{0, 1, 0}})
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

func TestLadderModesMatchControlChoices(t *testing.T) {
	t.Parallel()

	if !slices.Equal(moog.ModeNames(), param.FilterModes) {
		t.Fatalf("ladder modes %v differ from control choices %v", moog.ModeNames(), param.FilterModes)
	}
}

func TestLadderLowpassAndHighpass(t *testing.T) {
	t.Parallel()

	frames := int(testRate)
	settled := frames / 5

	high := sine(5000, 0.3, frames)
	lp := mustBuild(t, NewLadderFilter, set("mode", "LPF24", "cutoff_hz", 200))

	out := process(t, lp, high)
	if got, ref := rms(out[0][settled:]), rms(high[settled:]); got > 0.05*ref {
		t.Fatalf("LPF24@200 on 5 kHz: rms %g, input %g", got, ref)
	}

	low := sine(50, 0.3, frames)
	hp := mustBuild(t, NewLadderFilter, set("mode", "HPF24", "cutoff_hz", 2000))

	out = process(t, hp, low)
	if got, ref := rms(out[0][settled:]), rms(low[settled:]); got > 0.1*ref {
		t.Fatalf("HPF24@2000 on 50 Hz: rms %g, input %g", got, ref)
	}
}

func TestCompressorUnityRatioIsTransparent(t *testing.T) {
	t.Parallel()

	in := sine(440, 0.9, 4410)
	c := mustBuild(t, NewCompressor, set("threshold_db", -30.0, "ratio", 1.0))
	out := process(t, c, in)

	for i := range in {
		if out[0][i] != in[i] {
			t.Fatalf("sample %d changed: %g -> %g", i, in[i], out[0][i])
		}
	}
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	t.Parallel()

	in := sine(440, 1, int(testRate))
	c := mustBuild(t, NewCompressor, set("threshold_db", -20.0, "ratio", 20.0, "attack_ms", 0.1, "release_ms", 100.0))
	out := process(t, c, in)

	if p := peak(out[0][len(in)/2:]); p > 0.5 {
		t.Fatalf("compressed peak = %g, want < 0.5", p)
	}
}

func TestLimiterRespectsCeiling(t *testing.T) {
	t.Parallel()

	in := sine(440, 1, int(testRate)/2)
	l := mustBuild(t, NewLimiter, set("threshold_db", -6.0, "release_ms", 50.0))
	out := process(t, l, in)

	ceiling := math.Pow(10, -6.0/20)
	if p := peak(out[0]); p > ceiling+1e-12 {
		t.Fatalf("limited peak = %g, ceiling %g", p, ceiling)
	}
}

func TestNoiseGate(t *testing.T) {
	t.Parallel()

	frames := int(testRate)
	params := set("threshold_db", -20.0, "ratio", 10.0, "attack_ms", 1.0, "release_ms", 10.0)

	quiet := sine(440, 0.01, frames)
	out := process(t, mustBuild(t, NewNoiseGate, params), quiet)

	if got, ref := rms(out[0][frames/2:]), rms(quiet[frames/2:]); got > 0.1*ref {
		t.Fatalf("gated rms = %g, input %g", got, ref)
	}

	loud := sine(440, 0.5, frames)
	out = process(t, mustBuild(t, NewNoiseGate, params), loud)

	if got, ref := rms(out[0][frames/2:]), rms(loud[frames/2:]); got < 0.95*ref {
		t.Fatalf("open gate rms = %g, input %g", got, ref)
	}
}

func TestDistortionIsBounded(t *testing.T) {
	t.Parallel()

	in := sine(220, 0.8, 4410)
	out := process(t, mustBuild(t, NewDistortion, set("drive_db", 20.0)), in)

	if p := peak(out[0]); p > 1 {
		t.Fatalf("distortion peak = %g, want <= 1", p)
	}

	if rms(out[0]) <= rms(in) {
		t.Fatal("driven tanh should be louder than the input")
	}
}

func TestModulationDryMixIsTransparent(t *testing.T) {
	t.Parallel()

	in := sine(330, 0.5, 8820)

	for _, e := range []Effect{
		mustBuild(t, NewChorus, set("mix", 0.0)),
		mustBuild(t, NewPhaser, set("mix", 0.0)),
	} {
		out := process(t, e, in)
		if !slices.Equal(out[0], in) {
			t.Fatalf("%s with mix 0 changed the signal", e.Name())
		}
	}
}

func TestChorusWetIsDelayed(t *testing.T) {
	t.Parallel()

	in := make([]float64, 4410)
	in[0] = 1

	out := process(t, mustBuild(t, NewChorus, set("mix", 1.0, "depth", 0.0, "centre_delay_ms", 10.0)), in)

	// 10 ms at 44.1 kHz.
	at := 441
	if math.Abs(out[0][at]-1) > 1e-9 {
		t.Fatalf("impulse at %d = %g, want 1", at, out[0][at])
	}

	if out[0][0] != 0 {
		t.Fatalf("wet-only output leaked dry signal: %g", out[0][0])
	}
}

func TestReverbDryOnlyAndTail(t *testing.T) {
	t.Parallel()

	left := sine(440, 0.25, 4410)
	right := sine(660, 0.25, 4410)

	dryOnly := mustBuild(t, NewReverb, set("wet_level", 0.0, "dry_level", 0.5))
	out := process(t, dryOnly, left, right)

	if !slices.Equal(out[0], left) || !slices.Equal(out[1], right) {
		t.Fatal("dry-only reverb at dry_level 0.5 should be unity")
	}

	impulse := make([]float64, int(testRate))
	impulse[0] = 1

	wetOnly := mustBuild(t, NewReverb, set("wet_level", 0.5, "dry_level", 0.0))
	out = process(t, wetOnly, impulse)

	if rms(out[0][int(testRate/10):]) == 0 {
		t.Fatal("reverb produced no tail")
	}

	frozen := mustBuild(t, NewReverb, set("freeze_mode", 1.0, "dry_level", 0.0))
	out = process(t, frozen, impulse)

	if peak(out[0]) != 0 {
		t.Fatal("freeze mode should not take new input into an empty tank")
	}
}

func writeIR(t *testing.T, dir, name string, taps []float64) {
	t.Helper()

	ir := &audio.Buffer{SampleRate: int(testRate), Channels: [][]float64{taps}}
	if err := audio.WriteWAV(filepath.Join(dir, name), ir, 32); err != nil {
		t.Fatal(err)
	}
}

func TestConvolutionMatchesDirectSum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := []float64{0.5, -0.25, 0.125, 0, 0.3}
	writeIR(t, dir, "taps.wav", h)

	c := mustBuild(t, ConvolutionIn(IRDir(dir)), param.NewSet(
		param.Entry{Name: "impulse_response_filename", Value: param.ChoiceValue("taps.wav")},
	))

	x := sine(1234, 0.7, 3000)
	got := process(t, c, x)[0]

	full, err := conv.Direct(x, h)
	if err != nil {
		t.Fatal(err)
	}

	for n := range x {
		if math.Abs(got[n]-full[n]) > 1e-6 {
			t.Fatalf("y[%d] = %g, want %g", n, got[n], full[n])
		}
	}
}

func TestConvolutionWithImpulseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIR(t, dir, "delta.wav", []float64{1, 0, 0, 0})

	c := mustBuild(t, ConvolutionIn(IRDir(dir)), param.NewSet(
		param.Entry{Name: "impulse_response_filename", Value: param.TextValue("delta.wav")},
	))

	in := sine(500, 0.5, 2048)
	out := process(t, c, in)

	for i := range in {
		if math.Abs(out[0][i]-in[i]) > 1e-6 {
			t.Fatalf("sample %d = %g, want %g", i, out[0][i], in[i])
		}
	}

	if err := c.Process(22050, [][]float64{in}); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("sample rate mismatch err = %v, want ErrInvalidParam", err)
	}
}

func TestConvolutionRejectsNamesOutsideDir(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	dir := filepath.Join(parent, "irs")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeIR(t, parent, "secret.wav", []float64{1})
	writeIR(t, dir, "room.wav", []float64{1})

	if err := os.Symlink(filepath.Join(parent, "secret.wav"), filepath.Join(dir, "link.wav")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dir     IRDir
		irName  string
		outside bool
	}{
		{"absolute path", IRDir(dir), filepath.Join(parent, "secret.wav"), true},
		{"parent traversal", IRDir(dir), "../secret.wav", true},
		{"nested traversal", IRDir(dir), "sub/../../secret.wav", true},
		{"symlink escape", IRDir(dir), "link.wav", false},
		{"missing file", IRDir(dir), "nope.wav", false},
		{"no directory", "", "room.wav", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ConvolutionIn(tc.dir)(param.NewSet(
				param.Entry{Name: "impulse_response_filename", Value: param.TextValue(tc.irName)},
			))
			if !errors.Is(err, ErrInvalidParam) {
				t.Fatalf("err = %v, want ErrInvalidParam", err)
			}

			if tc.outside && !errors.Is(err, ErrIROutsideDir) {
				t.Fatalf("err = %v, want ErrIROutsideDir", err)
			}
		})
	}

	if _, err := IRDir(dir).Load("room.wav"); err != nil {
		t.Fatalf("Load(room.wav) = %v", err)
	}
}

func TestIRDirNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIR(t, dir, "b.wav", []float64{1})
	writeIR(t, dir, "a.WAV", []float64{1})

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := IRDir(dir).Names()
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"a.WAV", "b.wav"}; !slices.Equal(names, want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}

	if names, err := IRDir("").Names(); err != nil || names != nil {
		t.Fatalf("empty dir Names() = %v, %v", names, err)
	}
}

func TestKernelErrorsAreParamErrors(t *testing.T) {
	t.Parallel()

	// 1e6 dB overflows to an infinite drive, which the shaper rejects.
	d := mustBuild(t, NewDistortion, set("drive_db", 1e6))

	err := d.Process(testRate, [][]float64{{0.1}})
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("err = %v, want ErrInvalidParam", err)
	}
}

func TestEffectsAreDeterministic(t *testing.T) {
	t.Parallel()

	ctors := []Constructor{
		NewChorus, NewCompressor, NewConvolution, NewDistortion, NewGain, NewHighpassFilter,
		NewLadderFilter, NewLimiter, NewLowpassFilter, NewNoiseGate, NewPhaser, NewReverb,
	}

	left := sine(440, 0.4, 8192)
	right := sine(550, 0.4, 8192)

	for _, ctor := range ctors {
		e := mustBuild(t, ctor, nil)

		a := process(t, e, left, right)
		b := process(t, e, left, right)

		for c := range a {
			if !slices.Equal(a[c], b[c]) {
				t.Fatalf("%s: two runs differ on channel %d", e.Name(), c)
			}

			for i, v := range a[c] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%s: non-finite output at %d", e.Name(), i)
				}
			}
		}
	}
}

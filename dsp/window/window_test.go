package window

import (
	"math"
	"testing"
)

func TestGenerateSymmetricHannEndsAtZero(t *testing.T) {
	t.Parallel()

	w := Generate(TypeHann, 9)
	if w[0] != 0 || math.Abs(w[8]) > 1e-15 {
		t.Fatalf("edges = %g, %g, want 0", w[0], w[8])
	}

	if math.Abs(w[4]-1) > 1e-15 {
		t.Fatalf("centre = %g, want 1", w[4])
	}

	for i := range w {
		if math.Abs(w[i]-w[len(w)-1-i]) > 1e-15 {
			t.Fatalf("not symmetric at %d: %g vs %g", i, w[i], w[len(w)-1-i])
		}
	}
}

func TestPeriodicHannSumsToHalfLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{16, 256, 4096} {
		w, err := Hann(n, WithPeriodic())
		if err != nil {
			t.Fatal(err)
		}

		if got := CoherentGain(w); math.Abs(got-0.5) > 1e-12 {
			t.Fatalf("n=%d coherent gain = %g, want 0.5", n, got)
		}
	}
}

func TestCosineSumWindows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ       Type
		edge, mid float64
	}{
		{TypeRectangular, 1, 1},
		{TypeHann, 0, 1},
		{TypeHamming, 0.08, 1},
		{TypeBlackman, 0, 1},
	}

	for _, tc := range tests {
		w := Generate(tc.typ, 5)
		if math.Abs(w[0]-tc.edge) > 1e-12 || math.Abs(w[2]-tc.mid) > 1e-12 {
			t.Errorf("type %d: edge %g mid %g, want %g %g", tc.typ, w[0], w[2], tc.edge, tc.mid)
		}
	}
}

func TestHannRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Hann(0); err == nil {
		t.Fatal("expected error for size 0")
	}

	if w := Generate(TypeHann, -1); w != nil {
		t.Fatalf("Generate(-1) = %v, want nil", w)
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	t.Parallel()

	buf := []float64{2, 2, 2}
	if err := ApplyCoefficientsInPlace(buf, []float64{0, 0.5, 1}); err != nil {
		t.Fatal(err)
	}

	if buf[0] != 0 || buf[1] != 1 || buf[2] != 2 {
		t.Fatalf("buf = %v", buf)
	}

	if err := ApplyCoefficientsInPlace(buf, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

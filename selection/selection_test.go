package selection

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

var testNames = []string{"Chorus", "Gain", "Reverb"}

func mustNew(t *testing.T, allowEmpty bool) *Machine {
	t.Helper()

	m, err := New(testNames, allowEmpty)
	if err != nil {
		t.Fatal(err)
	}

	return m
}

func TestOptions(t *testing.T) {
	t.Parallel()

	m := mustNew(t, false)

	if got := m.Options(1); !slices.Equal(got, testNames) {
		t.Fatalf("Options(1) = %v", got)
	}

	if m.Default(1) != "Chorus" {
		t.Fatalf("Default(1) = %q", m.Default(1))
	}

	for k := 2; k <= 5; k++ {
		got := m.Options(k)
		if got[0] != None || !slices.Equal(got[1:], testNames) {
			t.Fatalf("Options(%d) = %v", k, got)
		}

		if m.Default(k) != None {
			t.Fatalf("Default(%d) = %q, want sentinel", k, m.Default(k))
		}
	}

	empty := mustNew(t, true)
	if empty.Options(1)[0] != None {
		t.Fatalf("allow-empty Options(1) = %v", empty.Options(1))
	}
}

func TestFirstPositionNeverOffersSentinel(t *testing.T) {
	t.Parallel()

	m := mustNew(t, false)
	if slices.Contains(m.Options(1), None) {
		t.Fatal("sentinel offered at position 1")
	}

	_, err := m.Finalize(FromSlice([]string{None}))
	if !errors.Is(err, ErrNotOffered) {
		t.Fatalf("err = %v, want ErrNotOffered", err)
	}

	got, err := m.Finalize(FromSlice(nil))
	if err != nil {
		t.Fatal(err)
	}

	if len(got) == 0 {
		t.Fatal("an untouched selection must hold at least one effect")
	}
}

func TestFinalizeReturnsPrefixBeforeSentinel(t *testing.T) {
	t.Parallel()

	m := mustNew(t, false)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		n := 1 + rng.IntN(10)

		prefix := make([]string, n)
		for i := range prefix {
			prefix[i] = testNames[rng.IntN(len(testNames))]
		}

		// Anything after the sentinel is never looked at.
		picks := append(slices.Clone(prefix), None, "Bogus", "Gain")

		got, err := m.Finalize(FromSlice(picks))
		if err != nil {
			t.Fatalf("Finalize(%v): %v", picks, err)
		}

		if !slices.Equal(got, prefix) {
			t.Fatalf("Finalize(%v) = %v, want %v", picks, got, prefix)
		}
	}
}

func TestFinalizeErrors(t *testing.T) {
	t.Parallel()

	m := mustNew(t, false)

	t.Run("unknown effect", func(t *testing.T) {
		t.Parallel()

		_, err := m.Finalize(FromSlice([]string{"Gain", "Wah"}))
		if !errors.Is(err, ErrUnknownEffect) {
			t.Fatalf("err = %v, want ErrUnknownEffect", err)
		}
	})

	t.Run("too many stages", func(t *testing.T) {
		t.Parallel()

		_, err := m.Finalize(func(int) (string, bool) { return "Gain", true })
		if !errors.Is(err, ErrTooManyStages) {
			t.Fatalf("err = %v, want ErrTooManyStages", err)
		}
	})

	t.Run("exactly MaxStages", func(t *testing.T) {
		t.Parallel()

		picks := make([]string, MaxStages)
		for i := range picks {
			picks[i] = "Gain"
		}

		got, err := m.Finalize(FromSlice(picks))
		if err != nil {
			t.Fatal(err)
		}

		if len(got) != MaxStages {
			t.Fatalf("len = %d, want %d", len(got), MaxStages)
		}
	})
}

func TestAllowEmpty(t *testing.T) {
	t.Parallel()

	m := mustNew(t, true)

	got, err := m.Finalize(FromSlice(nil))
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 0 {
		t.Fatalf("got %v, want empty selection", got)
	}
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	m := mustNew(t, false)

	var s State
	if s.Position() != 1 || s.Done() {
		t.Fatalf("zero state = position %d done %v", s.Position(), s.Done())
	}

	s, err := m.Advance(s, "Reverb")
	if err != nil {
		t.Fatal(err)
	}

	next, err := m.Advance(s, "Gain")
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(s.Picks(), []string{"Reverb"}) {
		t.Fatalf("earlier state changed: %v", s.Picks())
	}

	next, err = m.Advance(next, None)
	if err != nil {
		t.Fatal(err)
	}

	if !next.Done() || !slices.Equal(next.Picks(), []string{"Reverb", "Gain"}) {
		t.Fatalf("final state = %v done %v", next.Picks(), next.Done())
	}

	if _, err := m.Advance(next, "Gain"); !errors.Is(err, ErrFinished) {
		t.Fatalf("err = %v, want ErrFinished", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, false); !errors.Is(err, ErrNoEffects) {
		t.Fatalf("err = %v, want ErrNoEffects", err)
	}

	if _, err := New([]string{"Gain", None}, false); err == nil {
		t.Fatal("expected error for reserved name")
	}
}

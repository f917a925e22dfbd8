package fx

import (
	"testing"

	"github.com/cwbudde/algo-pedalboard/internal/testutil"
	"github.com/cwbudde/algo-pedalboard/param"
)

const testRate = 44100.0

func sine(freq, amp float64, frames int) []float64 {
	return testutil.Sine(freq, testRate, amp, frames)
}

func rms(x []float64) float64 { return testutil.RMS(x) }

func peak(x []float64) float64 { return testutil.Peak(x) }

func set(kv ...any) param.Set {
	s := param.Set{}
	for i := 0; i+1 < len(kv); i += 2 {
		name := kv[i].(string)

		switch v := kv[i+1].(type) {
		case float64:
			s = s.With(name, param.FloatValue(v))
		case int:
			s = s.With(name, param.IntValue(v))
		case string:
			s = s.With(name, param.ChoiceValue(v))
		default:
			panic("unsupported test value")
		}
	}

	return s
}

func mustBuild(t *testing.T, ctor Constructor, params param.Set) Effect {
	t.Helper()

	e, err := ctor(params)
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}

	return e
}

func process(t *testing.T, e Effect, channels ...[]float64) [][]float64 {
	t.Helper()

	out := make([][]float64, len(channels))
	for i, ch := range channels {
		out[i] = append([]float64(nil), ch...)
	}

	if err := e.Process(testRate, out); err != nil {
		t.Fatalf("%s.Process: %v", e.Name(), err)
	}

	return out
}

package fx

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-pedalboard/param"
)

// paramReader pulls typed, range-checked values out of a param.Set and
// keeps the first error. done reports that error, or the first parameter
// name the effect does not accept.
type paramReader struct {
	effect string
	params param.Set
	known  map[string]struct{}
	err    error
}

func newParamReader(effect string, params param.Set) *paramReader {
	return &paramReader{effect: effect, params: params, known: make(map[string]struct{})}
}

func (r *paramReader) fail(name, format string, args ...any) {
	if r.err != nil {
		return
	}

	r.err = fmt.Errorf("%w: %s.%s: %s", ErrInvalidParam, r.effect, name, fmt.Sprintf(format, args...))
}

// number reads a finite numeric parameter in [min, max].
func (r *paramReader) number(name string, def, minVal, maxVal float64) float64 {
	r.known[name] = struct{}{}

	v, ok := r.params.Get(name)
	if !ok {
		return def
	}

	f, ok := v.AsFloat()
	if !ok {
		r.fail(name, "expected a number, got %s %q", v.Kind(), v.String())
		return def
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(name, "must be finite, got %g", f)
		return def
	}

	if f < minVal || f > maxVal {
		r.fail(name, "%g outside [%g, %g]", f, minVal, maxVal)
		return def
	}

	return f
}

// choice reads a choice or text parameter that must be one of choices.
func (r *paramReader) choice(name, def string, choices []string) string {
	r.known[name] = struct{}{}

	v, ok := r.params.Get(name)
	if !ok {
		return def
	}

	s, ok := v.AsText()
	if !ok {
		r.fail(name, "expected one of %v, got %s %q", choices, v.Kind(), v.String())
		return def
	}

	if !slices.Contains(choices, s) {
		r.fail(name, "expected one of %v, got %q", choices, s)
		return def
	}

	return s
}

// text reads a free-text parameter.
func (r *paramReader) text(name, def string) string {
	r.known[name] = struct{}{}

	v, ok := r.params.Get(name)
	if !ok {
		return def
	}

	s, ok := v.AsText()
	if !ok {
		r.fail(name, "expected text, got %s %q", v.Kind(), v.String())
		return def
	}

	return s
}

func (r *paramReader) done() error {
	if r.err != nil {
		return r.err
	}

	for _, name := range r.params.Names() {
		if _, ok := r.known[name]; !ok {
			return fmt.Errorf("%w: %s does not accept parameter %q", ErrInvalidParam, r.effect, name)
		}
	}

	return nil
}

var unbounded = math.MaxFloat64

package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/cwbudde/algo-pedalboard/fx"
	"github.com/cwbudde/algo-pedalboard/param"
)

// ErrUnknownEffect is returned by Lookup for names not in the registry.
var ErrUnknownEffect = errors.New("unknown effect")

var errDuplicateEffect = errors.New("duplicate effect")

// EffectSpec describes one selectable effect: its catalog name, its
// parameter defaults in presentation order, and its constructor.
// Suggestions lists known values for free-text parameters; they do not
// restrict what may be entered.
type EffectSpec struct {
	Name        string
	Defaults    param.Set
	New         fx.Constructor
	Suggestions map[string][]string
}

// Controls returns the input control of every default parameter, in order.
func (s EffectSpec) Controls() []param.Control {
	out := make([]param.Control, len(s.Defaults))
	for i, d := range s.Defaults {
		out[i] = param.ControlFor(d.Name, d.Value)
	}

	return out
}

// Build constructs the effect with params.
func (s EffectSpec) Build(params param.Set) (fx.Effect, error) {
	return s.New(params)
}

// Registry is an immutable name-keyed set of effect specs.
type Registry struct {
	specs map[string]EffectSpec
	names []string
}

// NewRegistry builds a registry from specs. Names must be unique and
// non-empty and every spec needs a constructor.
func NewRegistry(specs ...EffectSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]EffectSpec, len(specs))}

	for _, s := range specs {
		if s.Name == "" {
			return nil, errors.New("catalog: empty effect name")
		}

		if s.New == nil {
			return nil, fmt.Errorf("catalog: %s: nil constructor", s.Name)
		}

		if _, exists := r.specs[s.Name]; exists {
			return nil, fmt.Errorf("catalog: %w: %s", errDuplicateEffect, s.Name)
		}

		r.specs[s.Name] = s
		r.names = append(r.names, s.Name)
	}

	slices.Sort(r.names)

	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(specs ...EffectSpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}

	return r
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (EffectSpec, error) {
	s, ok := r.specs[name]
	if !ok {
		return EffectSpec{}, fmt.Errorf("catalog: %w: %q", ErrUnknownEffect, name)
	}

	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Names returns all effect names in ascending order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// All returns every spec ordered by name.
func (r *Registry) All() []EffectSpec {
	out := make([]EffectSpec, len(r.names))
	for i, n := range r.names {
		out[i] = r.specs[n]
	}

	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in catalog of all effects in package fx, with
// no impulse response directory.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustNewRegistry(builtins("", nil)...)
	})

	return defaultRegistry
}

// New returns the built-in catalog with Convolution reading impulse
// responses from irDir. The WAV files found there are suggested for
// impulse_response_filename.
func New(irDir fx.IRDir) (*Registry, error) {
	names, err := irDir.Names()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	return NewRegistry(builtins(irDir, names)...)
}

package param

import "fmt"

// Entry is one named parameter value.
type Entry struct {
	Name  string
	Value Value
}

// Set is an ordered parameter mapping. Order is the order controls are
// presented in; lookups are by name.
type Set []Entry

// NewSet builds a Set from entries. A repeated name overwrites the earlier value.
func NewSet(entries ...Entry) Set {
	s := make(Set, 0, len(entries))
	for _, e := range entries {
		s = s.With(e.Name, e.Value)
	}

	return s
}

// Get returns the value for name.
func (s Set) Get(name string) (Value, bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Value, true
		}
	}

	return Value{}, false
}

// With returns a copy of s with name set to v. Existing names keep their
// position, new names are appended.
func (s Set) With(name string, v Value) Set {
	out := make(Set, len(s), len(s)+1)
	copy(out, s)

	for i := range out {
		if out[i].Name == name {
			out[i].Value = v
			return out
		}
	}

	return append(out, Entry{Name: name, Value: v})
}

// Names returns the parameter names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.Name
	}

	return names
}

// Float returns the numeric value for name.
func (s Set) Float(name string) (float64, error) {
	v, ok := s.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissing, name)
	}

	f, ok := v.AsFloat()
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s, want number", ErrType, name, v.Kind())
	}

	return f, nil
}

// Text returns the string value of a choice or text parameter.
func (s Set) Text(name string) (string, error) {
	v, ok := s.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissing, name)
	}

	t, ok := v.AsText()
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, want text", ErrType, name, v.Kind())
	}

	return t, nil
}

// Map returns the set as a plain map for serialization.
func (s Set) Map() map[string]any {
	m := make(map[string]any, len(s))
	for _, e := range s {
		m[e.Name] = e.Value.Any()
	}

	return m
}

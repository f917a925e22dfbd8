package selection

import (
	"errors"
	"fmt"
	"slices"
)

// None is the sentinel choice that ends a selection.
const None = "None"

// MaxStages bounds the number of effects one selection may hold.
const MaxStages = 64

var (
	// ErrUnknownEffect is returned for a pick that is not an offered name.
	ErrUnknownEffect = errors.New("unknown effect")
	// ErrNotOffered is returned for a pick of the sentinel where it is not
	// offered.
	ErrNotOffered = errors.New("choice not offered at this position")
	// ErrTooManyStages is returned when a selection runs past MaxStages.
	ErrTooManyStages = errors.New("too many stages")
	// ErrFinished is returned by Advance after the sentinel was picked.
	ErrFinished = errors.New("selection already finished")
	// ErrNoEffects is returned by New for an empty name list.
	ErrNoEffects = errors.New("no effects to select from")
)

// Machine offers effect names position by position. Position 1 offers only
// real names unless AllowEmpty is set; later positions offer the sentinel
// first and then every name.
type Machine struct {
	names      []string
	allowEmpty bool
}

// New returns a Machine over names, kept in the given order.
func New(names []string, allowEmpty bool) (*Machine, error) {
	if len(names) == 0 {
		return nil, ErrNoEffects
	}

	if slices.Contains(names, None) {
		return nil, fmt.Errorf("selection: %q is reserved", None)
	}

	return &Machine{names: slices.Clone(names), allowEmpty: allowEmpty}, nil
}

// AllowEmpty reports whether the sentinel is offered at position 1.
func (m *Machine) AllowEmpty() bool { return m.allowEmpty }

// Options returns the choices offered at position k (1-based).
func (m *Machine) Options(k int) []string {
	if k <= 1 && !m.allowEmpty {
		return slices.Clone(m.names)
	}

	return append([]string{None}, m.names...)
}

// Default returns the choice preselected at position k: the first option.
func (m *Machine) Default(k int) string {
	return m.Options(k)[0]
}

// State is the position of a selection in progress. The zero State is
// awaiting the first pick.
type State struct {
	picks []string
	done  bool
}

// Position returns the 1-based position awaiting a pick.
func (s State) Position() int { return len(s.picks) + 1 }

// Done reports whether the sentinel was picked.
func (s State) Done() bool { return s.done }

// Picks returns the effect names picked so far.
func (s State) Picks() []string { return slices.Clone(s.picks) }

// Advance applies one pick at the current position.
func (m *Machine) Advance(s State, pick string) (State, error) {
	if s.done {
		return s, ErrFinished
	}

	k := s.Position()

	if pick == None {
		if !slices.Contains(m.Options(k), None) {
			return s, fmt.Errorf("selection: position %d: %w: %s", k, ErrNotOffered, None)
		}

		return State{picks: s.picks, done: true}, nil
	}

	if !slices.Contains(m.names, pick) {
		return s, fmt.Errorf("selection: position %d: %w: %q", k, ErrUnknownEffect, pick)
	}

	if len(s.picks) >= MaxStages {
		return s, fmt.Errorf("selection: %w: more than %d", ErrTooManyStages, MaxStages)
	}

	picks := make([]string, len(s.picks), len(s.picks)+1)
	copy(picks, s.picks)

	return State{picks: append(picks, pick)}, nil
}

// Finalize walks positions 1, 2, ... asking pick for the user's choice at
// each; a position without a choice takes Default. The walk stops at the
// sentinel and returns the names picked before it.
func (m *Machine) Finalize(pick func(k int) (string, bool)) ([]string, error) {
	var s State

	for !s.Done() {
		k := s.Position()

		name, ok := pick(k)
		if !ok {
			name = m.Default(k)
		}

		next, err := m.Advance(s, name)
		if err != nil {
			return nil, err
		}

		s = next
	}

	return s.Picks(), nil
}

// FromSlice adapts a fixed list of picks for Finalize. Positions past the
// end of picks take the default.
func FromSlice(picks []string) func(k int) (string, bool) {
	return func(k int) (string, bool) {
		if k < 1 || k > len(picks) {
			return "", false
		}

		return picks[k-1], true
	}
}

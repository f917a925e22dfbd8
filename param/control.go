package param

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrCoerce is returned when raw input cannot be converted to the
	// control's value type.
	ErrCoerce = errors.New("cannot coerce parameter input")
	// ErrMissing is returned when a Set has no value for a name.
	ErrMissing = errors.New("missing parameter")
	// ErrType is returned when a Set value has an unexpected kind.
	ErrType = errors.New("wrong parameter type")
)

// CoercionError describes one failed conversion of user input.
type CoercionError struct {
	Name string
	Raw  string
	Want Kind
	Err  error
}

func (e *CoercionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q is not a valid %s: %v", e.Name, e.Raw, e.Want, e.Err)
	}

	return fmt.Sprintf("%s: %q is not a valid %s", e.Name, e.Raw, e.Want)
}

func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoerce}
	}

	return []error{ErrCoerce, e.Err}
}

// ControlKind selects the input widget used for a parameter.
type ControlKind int

const (
	// ControlSlider is a continuous or stepped float range.
	ControlSlider ControlKind = iota
	// ControlIntSlider is an integer range.
	ControlIntSlider
	// ControlSelect is a choice among fixed options.
	ControlSelect
	// ControlText is the free-text fallback.
	ControlText
)

func (k ControlKind) String() string {
	switch k {
	case ControlSlider:
		return "slider"
	case ControlIntSlider:
		return "int-slider"
	case ControlSelect:
		return "select"
	case ControlText:
		return "text"
	default:
		return "unknown"
	}
}

// Control describes the input control for one parameter. Min, Max and Step
// apply to sliders; Step 0 means continuous. Choices apply to selects.
type Control struct {
	Name    string
	Kind    ControlKind
	Min     float64
	Max     float64
	Step    float64
	Default Value
	Choices []string
}

// FilterModes are the six ladder filter modes offered for "mode".
var FilterModes = []string{"LPF12", "HPF12", "BPF12", "LPF24", "HPF24", "BPF24"}

type rule struct {
	names   []string
	control Control
}

// rules is the control policy keyed by parameter name. Two effects sharing
// a parameter name share its control.
var rules = []rule{
	{
		names:   []string{"mix", "room_size", "damping", "wet_level", "dry_level", "width", "freeze_mode", "feedback"},
		control: Control{Kind: ControlSlider, Min: 0, Max: 1, Step: 0.1, Default: FloatValue(0.1)},
	},
	{
		names:   []string{"threshold_db", "gain_db"},
		control: Control{Kind: ControlSlider, Min: -20, Max: 20, Step: 0, Default: FloatValue(0)},
	},
	{
		names:   []string{"rate_hz", "centre_delay_ms", "depth"},
		control: Control{Kind: ControlSlider, Min: 0, Max: 10, Step: 0.01, Default: FloatValue(0.5)},
	},
	{
		names:   []string{"drive_db"},
		control: Control{Kind: ControlSlider, Min: 0, Max: 20, Step: 0.01, Default: FloatValue(0)},
	},
	{
		names:   []string{"release"},
		control: Control{Kind: ControlSlider, Min: 0.01, Max: 5000, Step: 0.01, Default: FloatValue(100)},
	},
	{
		names:   []string{"ratio", "drive"},
		control: Control{Kind: ControlSlider, Min: 1, Max: 20, Step: 0.01, Default: FloatValue(4)},
	},
	{
		names:   []string{"attack_ms", "release_ms"},
		control: Control{Kind: ControlSlider, Min: 0.1, Max: 2000, Step: 0.01, Default: FloatValue(0.1)},
	},
	{
		names:   []string{"cutoff_frequency_hz", "cutoff_hz", "centre_frequency_hz"},
		control: Control{Kind: ControlIntSlider, Min: 20, Max: 20000, Step: 1, Default: IntValue(20)},
	},
	{
		names:   []string{"mode"},
		control: Control{Kind: ControlSelect, Default: ChoiceValue(FilterModes[0]), Choices: FilterModes},
	},
}

var controls = buildControls(rules)

func buildControls(rules []rule) map[string]Control {
	m := make(map[string]Control)

	for _, r := range rules {
		for _, name := range r.names {
			if _, dup := m[name]; dup {
				panic("param: duplicate control rule for " + name)
			}

			c := r.control
			c.Name = name
			m[name] = c
		}
	}

	return m
}

// ControlFor returns the control for a parameter name. Names absent from the
// table get a text control whose default is def and whose input is coerced
// to def's kind.
func ControlFor(name string, def Value) Control {
	if c, ok := controls[name]; ok {
		return c
	}

	return Control{Name: name, Kind: ControlText, Default: def}
}

// Known reports whether name has a dedicated control.
func Known(name string) bool {
	_, ok := controls[name]
	return ok
}

// Collect turns raw user input into a typed value. A missing input yields
// the control default. Slider input is clamped into [Min, Max].
func (c Control) Collect(raw string, present bool) (Value, error) {
	if !present {
		return c.Default, nil
	}

	switch c.Kind {
	case ControlSlider:
		f, err := c.parseNumber(raw)
		if err != nil {
			return Value{}, err
		}

		return FloatValue(c.clamp(f)), nil
	case ControlIntSlider:
		f, err := c.parseNumber(raw)
		if err != nil {
			return Value{}, err
		}

		return IntValue(int(math.Round(c.clamp(f)))), nil
	case ControlSelect:
		if !slices.Contains(c.Choices, raw) {
			return Value{}, &CoercionError{Name: c.Name, Raw: raw, Want: KindChoice}
		}

		return ChoiceValue(raw), nil
	default:
		return c.coerceText(raw)
	}
}

func (c Control) parseNumber(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &CoercionError{Name: c.Name, Raw: raw, Want: KindFloat, Err: err}
	}

	if math.IsNaN(f) {
		return 0, &CoercionError{Name: c.Name, Raw: raw, Want: KindFloat}
	}

	return f, nil
}

func (c Control) clamp(f float64) float64 {
	return math.Max(c.Min, math.Min(c.Max, f))
}

// coerceText converts free text to the kind of the control default.
func (c Control) coerceText(raw string) (Value, error) {
	switch c.Default.Kind() {
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, &CoercionError{Name: c.Name, Raw: raw, Want: KindInt, Err: err}
		}

		return IntValue(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, &CoercionError{Name: c.Name, Raw: raw, Want: KindFloat, Err: err}
		}

		return FloatValue(f), nil
	case KindChoice:
		return ChoiceValue(raw), nil
	default:
		return TextValue(raw), nil
	}
}

package param

import (
	"strconv"
)

// Kind identifies the runtime type of a Value.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindChoice
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindChoice:
		return "choice"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a typed scalar bound to a parameter name. The zero value is the
// float 0.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// FloatValue returns a float Value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, num: v} }

// IntValue returns an int Value.
func IntValue(v int) Value { return Value{kind: KindInt, num: float64(v)} }

// ChoiceValue returns an enumerated choice Value.
func ChoiceValue(v string) Value { return Value{kind: KindChoice, str: v} }

// TextValue returns a free-text Value.
func TextValue(v string) Value { return Value{kind: KindText, str: v} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// AsFloat returns the numeric value of a float or int Value.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat && v.kind != KindInt {
		return 0, false
	}

	return v.num, true
}

// AsInt returns the value of an int Value.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindInt {
		return 0, false
	}

	return int(v.num), true
}

// AsText returns the string of a choice or text Value.
func (v Value) AsText() (string, bool) {
	if v.kind != KindChoice && v.kind != KindText {
		return "", false
	}

	return v.str, true
}

// Any returns the value as float64, int or string for serialization.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return int(v.num)
	case KindChoice, KindText:
		return v.str
	default:
		return v.num
	}
}

// String formats the value the way it is presented in an input control.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(int(v.num))
	case KindChoice, KindText:
		return v.str
	default:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
}

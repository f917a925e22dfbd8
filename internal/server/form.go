package server

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/param"
	"github.com/cwbudde/algo-pedalboard/pipeline"
	"github.com/cwbudde/algo-pedalboard/selection"
)

// Query keys: fx{k} holds the pick at position k, p{k}.{name} the raw value
// of parameter name of the effect at position k. Positions are 1-based.

func pickKey(k int) string { return "fx" + strconv.Itoa(k) }

func paramKey(k int, name string) string { return "p" + strconv.Itoa(k) + "." + name }

func formPicks(q url.Values) func(k int) (string, bool) {
	return func(k int) (string, bool) {
		v := q.Get(pickKey(k))
		return v, v != ""
	}
}

func formParams(q url.Values) pipeline.RawInput {
	return func(index int, name string) (string, bool) {
		key := paramKey(index+1, name)
		if !q.Has(key) {
			return "", false
		}

		return q.Get(key), true
	}
}

type position struct {
	K        int
	Key      string
	Options  []string
	Selected string
}

// positions lays out one select per position up to and including the one
// holding the sentinel, or up to the first pick that is not offered.
func positions(m *selection.Machine, picks func(k int) (string, bool)) []position {
	var out []position

	for k := 1; k <= selection.MaxStages+1; k++ {
		name, ok := picks(k)
		if !ok {
			name = m.Default(k)
		}

		opts := m.Options(k)
		out = append(out, position{K: k, Key: pickKey(k), Options: opts, Selected: name})

		if name == selection.None || !slices.Contains(opts, name) {
			break
		}
	}

	return out
}

type controlView struct {
	Name        string
	Key         string
	Kind        string
	Min         string
	Max         string
	Step        string
	Value       string
	Choices     []string
	Suggestions []string
	Invalid     bool
}

type stageView struct {
	K        int
	Name     string
	Controls []controlView
}

// stageViews renders the controls of every selected effect with the value
// the collector would use for it.
func stageViews(reg *catalog.Registry, names []string, input pipeline.RawInput) []stageView {
	out := make([]stageView, 0, len(names))

	for i, name := range names {
		spec, err := reg.Lookup(name)
		if err != nil {
			continue
		}

		sv := stageView{K: i + 1, Name: name}

		for _, c := range spec.Controls() {
			raw, ok := input(i, c.Name)
			cv := controlView{
				Name:    c.Name,
				Key:     paramKey(i+1, c.Name),
				Kind:    controlKind(c.Kind),
				Min:     formatNum(c.Min),
				Max:     formatNum(c.Max),
				Step:    formatStep(c),
				Choices: c.Choices,
			}
			if cv.Kind == "text" {
				cv.Suggestions = spec.Suggestions[c.Name]
			}

			v, err := c.Collect(raw, ok)
			if err != nil {
				cv.Value, cv.Invalid = raw, true
			} else {
				cv.Value = v.String()
			}

			sv.Controls = append(sv.Controls, cv)
		}

		out = append(out, sv)
	}

	return out
}

func controlKind(k param.ControlKind) string {
	switch k {
	case param.ControlSlider, param.ControlIntSlider:
		return "slider"
	case param.ControlSelect:
		return "select"
	default:
		return "text"
	}
}

func formatStep(c param.Control) string {
	if c.Kind == param.ControlIntSlider {
		return "1"
	}

	if c.Step <= 0 {
		return "any"
	}

	return formatNum(c.Step)
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

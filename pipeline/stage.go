package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-pedalboard/catalog"
	"github.com/cwbudde/algo-pedalboard/fx"
	"github.com/cwbudde/algo-pedalboard/param"
)

// Stage is one selected effect together with its collected parameters.
type Stage struct {
	Spec   catalog.EffectSpec
	Params param.Set
}

// RawInput returns the user's raw input for parameter name of the stage at
// index (0-based), and whether the user supplied one.
type RawInput func(index int, name string) (raw string, ok bool)

// NoInput is a RawInput that never has a value, so every parameter takes
// its control default.
func NoInput(int, string) (string, bool) { return "", false }

// Collect gathers one typed value per default parameter of spec, in default
// order, using the control table for each name.
func Collect(spec catalog.EffectSpec, index int, input RawInput) (param.Set, error) {
	out := make(param.Set, 0, len(spec.Defaults))

	for _, d := range spec.Defaults {
		raw, ok := input(index, d.Name)

		v, err := param.ControlFor(d.Name, d.Value).Collect(raw, ok)
		if err != nil {
			return nil, fmt.Errorf("pipeline: stage %d (%s): %w", index+1, spec.Name, err)
		}

		out = append(out, param.Entry{Name: d.Name, Value: v})
	}

	return out, nil
}

// Stages looks up every name in reg and collects its parameters.
func Stages(reg *catalog.Registry, names []string, input RawInput) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))

	for i, name := range names {
		spec, err := reg.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("pipeline: stage %d: %w", i+1, err)
		}

		params, err := Collect(spec, i, input)
		if err != nil {
			return nil, err
		}

		stages = append(stages, Stage{Spec: spec, Params: params})
	}

	return stages, nil
}

// Build constructs one effect per stage, in order. The first constructor
// error aborts.
func Build(stages []Stage) ([]fx.Effect, error) {
	effects := make([]fx.Effect, 0, len(stages))

	for i, s := range stages {
		e, err := s.Spec.Build(s.Params)
		if err != nil {
			return nil, fmt.Errorf("pipeline: stage %d (%s): %w", i+1, s.Spec.Name, err)
		}

		effects = append(effects, e)
	}

	return effects, nil
}

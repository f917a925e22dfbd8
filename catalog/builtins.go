package catalog

import (
	"github.com/cwbudde/algo-pedalboard/dsp/filter/moog"
	"github.com/cwbudde/algo-pedalboard/fx"
	"github.com/cwbudde/algo-pedalboard/param"
)

func num(name string, v float64) param.Entry { return param.Entry{Name: name, Value: param.FloatValue(v)} }
func whole(name string, v int) param.Entry   { return param.Entry{Name: name, Value: param.IntValue(v)} }

// builtins lists every effect with the defaults it is presented with. The
// value kinds matter: a parameter without a dedicated control is read back
// as the kind of its default. irNames are the impulse responses in irDir.
func builtins(irDir fx.IRDir, irNames []string) []EffectSpec {
	return []EffectSpec{
		{
			Name: "Chorus",
			Defaults: param.NewSet(
				num("rate_hz", 1.0), num("depth", 0.25), num("centre_delay_ms", 7.0), num("feedback", 0.0), num("mix", 0.5),
			),
			New: fx.NewChorus,
		},
		{
			Name: "Compressor",
			Defaults: param.NewSet(
				whole("threshold_db", 0), whole("ratio", 1), num("attack_ms", 1.0), whole("release_ms", 100),
			),
			New: fx.NewCompressor,
		},
		{
			Name: "Convolution",
			Defaults: param.NewSet(
				param.Entry{Name: "impulse_response_filename", Value: param.TextValue("")}, num("mix", 1.0),
			),
			New:         fx.ConvolutionIn(irDir),
			Suggestions: map[string][]string{"impulse_response_filename": irNames},
		},
		{
			Name:     "Distortion",
			Defaults: param.NewSet(whole("drive_db", 25)),
			New:      fx.NewDistortion,
		},
		{
			Name:     "Gain",
			Defaults: param.NewSet(num("gain_db", 1.0)),
			New:      fx.NewGain,
		},
		{
			Name:     "HighpassFilter",
			Defaults: param.NewSet(whole("cutoff_frequency_hz", 50)),
			New:      fx.NewHighpassFilter,
		},
		{
			Name: "LadderFilter",
			Defaults: param.NewSet(
				param.Entry{Name: "mode", Value: param.ChoiceValue(string(moog.ModeLPF12))},
				whole("cutoff_hz", 200), num("resonance", 0.0), num("drive", 1.0),
			),
			New: fx.NewLadderFilter,
		},
		{
			Name:     "Limiter",
			Defaults: param.NewSet(num("threshold_db", -10.0), num("release_ms", 100.0)),
			New:      fx.NewLimiter,
		},
		{
			Name:     "LowpassFilter",
			Defaults: param.NewSet(whole("cutoff_frequency_hz", 50)),
			New:      fx.NewLowpassFilter,
		},
		{
			Name: "NoiseGate",
			Defaults: param.NewSet(
				num("threshold_db", -100.0), whole("ratio", 10), num("attack_ms", 1.0), num("release_ms", 100.0),
			),
			New: fx.NewNoiseGate,
		},
		{
			Name: "Phaser",
			Defaults: param.NewSet(
				num("rate_hz", 1.0), num("depth", 0.5), num("centre_frequency_hz", 1300.0), num("feedback", 0.0), num("mix", 0.5),
			),
			New: fx.NewPhaser,
		},
		{
			Name: "Reverb",
			Defaults: param.NewSet(
				num("room_size", 0.5), num("damping", 0.5), num("wet_level", 0.33),
				num("dry_level", 0.4), num("width", 1.0), num("freeze_mode", 0.0),
			),
			New: fx.NewReverb,
		},
	}
}

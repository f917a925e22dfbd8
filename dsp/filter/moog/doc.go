// Package moog provides a nonlinear four-pole transistor ladder filter.
//
// The ladder drives its input through tanh, feeds the fourth stage back
// through a gentler tanh, and mixes the stage outputs into one of six
// responses:
//   - ModeLPF12, ModeLPF24: 12 and 24 dB/octave lowpass
//   - ModeHPF12, ModeHPF24: 12 and 24 dB/octave highpass
//   - ModeBPF12, ModeBPF24: 12 and 24 dB/octave bandpass
//
// A Filter is stateful and deterministic. Run one Filter per channel.
package moog

// Package fx provides the effect kernels an effect chain is built from.
//
// Effects are constructed from a param.Set, the way keyword arguments are
// passed to a constructor:
//   - Chorus: modulated delay with feedback.
//   - Compressor, Limiter, NoiseGate: peak/RMS dynamics.
//   - Convolution: FFT overlap-add convolution with an impulse response
//     read from an IRDir.
//   - Distortion: drive into tanh.
//   - Gain: fixed gain in dB.
//   - HighpassFilter, LowpassFilter: first-order (6 dB/octave) filters.
//   - LadderFilter: nonlinear four-pole ladder, 12/24 dB LP/HP/BP modes.
//   - Phaser: LFO-swept allpass cascade.
//   - Reverb: Freeverb-style stereo reverb.
//
// The signal processing lives in the dsp packages; constructors here
// validate parameters and Process builds the dsp kernels.
//
// An Effect stores parameters only. Each Process call starts from fresh
// filter and delay state, so processing is deterministic for fixed input
// and parameters.
package fx

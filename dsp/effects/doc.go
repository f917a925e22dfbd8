// Package effects provides stateful audio effects that do not fit a more
// specific package: a Freeverb-style reverb and a tanh distortion.
//
// Subpackages hold the larger families:
//   - dynamics: compressor, limiter, noise gate
//   - modulation: chorus, phaser
package effects

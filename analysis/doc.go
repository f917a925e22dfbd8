// Package analysis derives the numbers behind the pedalboard's plots: a
// min/max waveform envelope, an averaged FFT amplitude spectrum and peak/RMS
// levels.
package analysis

// Package audio provides the in-memory sample buffer passed through an
// effect pipeline and whole-file WAV reading and writing.
package audio

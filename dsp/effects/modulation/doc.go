// Package modulation provides LFO-driven delay and allpass effects: a
// multi-voice chorus with feedback and an exponential-sweep phaser.
package modulation

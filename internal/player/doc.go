// Package player plays WAV files on the default audio device.
//
// Playback goes through oto: the file is decoded, converted to interleaved
// signed 16-bit little-endian PCM and streamed to a player created on a
// context opened at the file's own sample rate and channel count.
package player

package analysis

import (
	"math"

	"github.com/cwbudde/algo-pedalboard/audio"
)

// Envelope is the min/max outline of one channel reduced to a fixed number
// of columns, ready to be drawn as a waveform.
type Envelope struct {
	Min []float64
	Max []float64
	// SecondsPerColumn is the time span covered by one column.
	SecondsPerColumn float64
}

// Waveform reduces every channel of b to at most columns min/max pairs. A
// buffer shorter than columns yields one column per frame.
func Waveform(b *audio.Buffer, columns int) []Envelope {
	frames := b.Frames()
	cols := min(max(columns, 1), max(frames, 1))

	out := make([]Envelope, len(b.Channels))

	for c, ch := range b.Channels {
		env := Envelope{Min: make([]float64, cols), Max: make([]float64, cols)}
		if b.SampleRate > 0 {
			env.SecondsPerColumn = float64(frames) / float64(cols) / float64(b.SampleRate)
		}

		for col := range cols {
			lo := col * frames / cols
			hi := max((col+1)*frames/cols, lo+1)

			mn, mx := 0.0, 0.0
			if lo < len(ch) {
				mn, mx = math.Inf(1), math.Inf(-1)
				for _, v := range ch[lo:min(hi, len(ch))] {
					mn = math.Min(mn, v)
					mx = math.Max(mx, v)
				}
			}

			env.Min[col], env.Max[col] = mn, mx
		}

		out[c] = env
	}

	return out
}

// Summary holds the headline numbers of a buffer.
type Summary struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Frames     int     `json:"frames"`
	Seconds    float64 `json:"seconds"`
	PeakDB     float64 `json:"peak_db"`
	RMSDB      float64 `json:"rms_db"`
}

// Summarize measures peak and RMS level over all channels.
func Summarize(b *audio.Buffer) Summary {
	s := Summary{
		SampleRate: b.SampleRate,
		Channels:   b.NumChannels(),
		Frames:     b.Frames(),
		Seconds:    b.Duration().Seconds(),
	}

	var peak, sum float64

	n := 0
	for _, ch := range b.Channels {
		for _, v := range ch {
			peak = math.Max(peak, math.Abs(v))
			sum += v * v
		}

		n += len(ch)
	}

	s.PeakDB = toDB(peak)
	s.RMSDB = FloorDB

	if n > 0 {
		s.RMSDB = toDB(math.Sqrt(sum / float64(n)))
	}

	return s
}

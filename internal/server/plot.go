package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pedalboard/analysis"
	"github.com/cwbudde/algo-pedalboard/audio"
)

const (
	plotWidth        = 720.0
	waveHeight       = 90.0
	spectrumHeight   = 220.0
	waveColumns      = 720
	spectrumMinHz    = 20.0
	spectrumTopDB    = 0.0
	spectrumBottomDB = -100.0
)

type wavePlot struct {
	Channel int
	Points  string
}

type spectrumPlot struct {
	Input   string
	Output  string
	Ticks   []tick
	DBTicks []tick
}

type tick struct {
	Pos   float64
	Label string
}

// waveformPlots outlines every channel of b as a closed min/max polygon.
func waveformPlots(b *audio.Buffer) []wavePlot {
	envs := analysis.Waveform(b, waveColumns)
	out := make([]wavePlot, len(envs))

	mid := waveHeight / 2

	for c, env := range envs {
		n := len(env.Max)
		step := plotWidth / float64(max(n-1, 1))

		var sb strings.Builder

		for i := 0; i < n; i++ {
			writePoint(&sb, float64(i)*step, mid-clampUnit(env.Max[i])*mid)
		}

		for i := n - 1; i >= 0; i-- {
			writePoint(&sb, float64(i)*step, mid-clampUnit(env.Min[i])*mid)
		}

		out[c] = wavePlot{Channel: c + 1, Points: sb.String()}
	}

	return out
}

// spectrumPlots draws input and output spectra on a log frequency axis.
func spectrumPlots(in, out *audio.Buffer) (*spectrumPlot, error) {
	inSpec, err := analysis.ComputeSpectrum(in.Mono(), in.SampleRate, analysis.DefaultFFTSize)
	if err != nil {
		return nil, err
	}

	outSpec, err := analysis.ComputeSpectrum(out.Mono(), out.SampleRate, analysis.DefaultFFTSize)
	if err != nil {
		return nil, err
	}

	nyquist := float64(out.SampleRate) / 2

	p := &spectrumPlot{
		Input:  spectrumLine(inSpec, nyquist),
		Output: spectrumLine(outSpec, nyquist),
	}

	for _, f := range []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000, 20000} {
		if f < nyquist {
			p.Ticks = append(p.Ticks, tick{Pos: freqX(f, nyquist), Label: freqLabel(f)})
		}
	}

	for db := spectrumTopDB; db >= spectrumBottomDB; db -= 20 {
		p.DBTicks = append(p.DBTicks, tick{Pos: dbY(db), Label: strconv.Itoa(int(db))})
	}

	return p, nil
}

func spectrumLine(s *analysis.Spectrum, nyquist float64) string {
	var sb strings.Builder

	for k, f := range s.Freqs {
		if f < spectrumMinHz || f > nyquist {
			continue
		}

		writePoint(&sb, freqX(f, nyquist), dbY(s.DB[k]))
	}

	return sb.String()
}

func freqX(f, nyquist float64) float64 {
	return plotWidth * math.Log(f/spectrumMinHz) / math.Log(nyquist/spectrumMinHz)
}

func dbY(db float64) float64 {
	db = math.Max(spectrumBottomDB, math.Min(spectrumTopDB, db))
	return spectrumHeight * (spectrumTopDB - db) / (spectrumTopDB - spectrumBottomDB)
}

func freqLabel(f float64) string {
	if f >= 1000 {
		return strconv.FormatFloat(f/1000, 'f', -1, 64) + "k"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func writePoint(sb *strings.Builder, x, y float64) {
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}

	sb.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
}

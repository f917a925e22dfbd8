package effects

import (
	"fmt"
	"math"
)

const (
	reverbNumCombs     = 8
	reverbNumAllpasses = 4

	reverbFixedGain     = 0.015
	reverbScaleRoom     = 0.28
	reverbOffsetRoom    = 0.7
	reverbScaleDamp     = 0.4
	reverbScaleWet      = 3.0
	reverbScaleDry      = 2.0
	reverbAllpassGain   = 0.5
	reverbStereoSpread  = 23
	reverbTuningRate    = 44100.0
	reverbDenormalFloor = 1e-23

	defaultReverbRoomSize = 0.5
	defaultReverbDamp     = 0.5
	defaultReverbWet      = 0.33
	defaultReverbDry      = 0.4
	defaultReverbWidth    = 1.0
)

// Delay lengths in samples at 44.1 kHz.
var (
	reverbCombTuning    = [reverbNumCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	reverbAllpassTuning = [reverbNumAllpasses]int{556, 441, 341, 225}
)

type reverbAllpass struct {
	buffer []float64
	index  int
}

func (a *reverbAllpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	a.buffer[a.index] = input + bufOut*reverbAllpassGain

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return bufOut - input
}

func (a *reverbAllpass) reset() {
	clear(a.buffer)
	a.index = 0
}

type reverbComb struct {
	filterStore float64
	buffer      []float64
	index       int
}

func (c *reverbComb) process(input, feedback, damp float64) float64 {
	output := c.buffer[c.index]

	c.filterStore = output*(1-damp) + c.filterStore*damp
	if math.Abs(c.filterStore) < reverbDenormalFloor {
		c.filterStore = 0
	}

	c.buffer[c.index] = input + c.filterStore*feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

func (c *reverbComb) reset() {
	clear(c.buffer)
	c.index = 0
	c.filterStore = 0
}

// reverbTank is one channel's comb bank and allpass chain.
type reverbTank struct {
	combs   [reverbNumCombs]reverbComb
	allpass [reverbNumAllpasses]reverbAllpass
}

func newReverbTank(sampleRate float64, spread int) reverbTank {
	scale := sampleRate / reverbTuningRate
	size := func(n int) int {
		return max(1, int(math.Round(float64(n+spread)*scale)))
	}

	var t reverbTank
	for i, n := range reverbCombTuning {
		t.combs[i].buffer = make([]float64, size(n))
	}

	for i, n := range reverbAllpassTuning {
		t.allpass[i].buffer = make([]float64, size(n))
	}

	return t
}

func (t *reverbTank) process(input, feedback, damp float64) float64 {
	var acc float64
	for i := range t.combs {
		acc += t.combs[i].process(input, feedback, damp)
	}

	for i := range t.allpass {
		acc = t.allpass[i].process(acc)
	}

	return acc
}

func (t *reverbTank) reset() {
	for i := range t.combs {
		t.combs[i].reset()
	}

	for i := range t.allpass {
		t.allpass[i].reset()
	}
}

// Reverb is a Freeverb-style stereo reverb: eight parallel damped combs
// into four series allpasses per channel, the right tank detuned by a
// fixed spread. Delay lengths scale with the sample rate.
type Reverb struct {
	roomSize float64
	damp     float64
	wet      float64
	dry      float64
	width    float64
	frozen   bool

	feedback  float64
	dampCoeff float64
	gain      float64
	wet1      float64
	wet2      float64
	dryGain   float64

	left  reverbTank
	right reverbTank
}

// NewReverb constructs a reverb with room size 0.5, damping 0.5, wet 0.33,
// dry 0.4 and full width.
func NewReverb(sampleRate float64) (*Reverb, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("reverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	r := &Reverb{
		roomSize: defaultReverbRoomSize,
		damp:     defaultReverbDamp,
		wet:      defaultReverbWet,
		dry:      defaultReverbDry,
		width:    defaultReverbWidth,
		left:     newReverbTank(sampleRate, 0),
		right:    newReverbTank(sampleRate, reverbStereoSpread),
	}
	r.update()

	return r, nil
}

// SetRoomSize sets the tail length in [0, 1].
func (r *Reverb) SetRoomSize(v float64) error {
	return r.setUnit("room size", &r.roomSize, v)
}

// SetDamp sets high-frequency damping in the tail, in [0, 1].
func (r *Reverb) SetDamp(v float64) error {
	return r.setUnit("damping", &r.damp, v)
}

// SetWet sets the reverberated level in [0, 1].
func (r *Reverb) SetWet(v float64) error {
	return r.setUnit("wet level", &r.wet, v)
}

// SetDry sets the direct level in [0, 1]. 0.5 passes the input at unity.
func (r *Reverb) SetDry(v float64) error {
	return r.setUnit("dry level", &r.dry, v)
}

// SetWidth sets stereo width in [0, 1]. 0 sends the same tail to both
// channels.
func (r *Reverb) SetWidth(v float64) error {
	return r.setUnit("width", &r.width, v)
}

// SetFreeze holds the current tail indefinitely and stops taking input.
func (r *Reverb) SetFreeze(frozen bool) {
	r.frozen = frozen
	r.update()
}

// RoomSize returns the room size.
func (r *Reverb) RoomSize() float64 { return r.roomSize }

// Width returns the stereo width.
func (r *Reverb) Width() float64 { return r.width }

// Frozen reports whether the tail is held.
func (r *Reverb) Frozen() bool { return r.frozen }

// Reset clears all delay and filter state.
func (r *Reverb) Reset() {
	r.left.reset()
	r.right.reset()
}

// ProcessSample runs one mono sample through the left tank.
func (r *Reverb) ProcessSample(input float64) float64 {
	out := r.left.process(input*r.gain, r.feedback, r.dampCoeff)
	return out*r.wet1 + input*r.dryGain
}

// ProcessInPlace applies mono reverb to buf in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// ProcessStereo processes one stereo frame. Both tanks are fed the sum of
// the inputs; width cross-mixes their outputs.
func (r *Reverb) ProcessStereo(inL, inR float64) (outL, outR float64) {
	input := (inL + inR) * r.gain

	tailL := r.left.process(input, r.feedback, r.dampCoeff)
	tailR := r.right.process(input, r.feedback, r.dampCoeff)

	outL = tailL*r.wet1 + tailR*r.wet2 + inL*r.dryGain
	outR = tailR*r.wet1 + tailL*r.wet2 + inR*r.dryGain

	return outL, outR
}

// ProcessStereoInPlace processes planar stereo buffers of equal length.
func (r *Reverb) ProcessStereoInPlace(left, right []float64) {
	n := len(left)
	if n == 0 {
		return
	}

	_ = right[n-1]

	for i := range n {
		left[i], right[i] = r.ProcessStereo(left[i], right[i])
	}
}

func (r *Reverb) setUnit(name string, dst *float64, v float64) error {
	if v < 0 || v > 1 || !isFinite(v) {
		return fmt.Errorf("reverb %s must be in [0, 1]: %f", name, v)
	}

	*dst = v
	r.update()

	return nil
}

func (r *Reverb) update() {
	r.feedback = r.roomSize*reverbScaleRoom + reverbOffsetRoom
	r.dampCoeff = r.damp * reverbScaleDamp
	r.gain = reverbFixedGain

	if r.frozen {
		r.feedback, r.dampCoeff, r.gain = 1, 0, 0
	}

	wet := r.wet * reverbScaleWet
	r.wet1 = 0.5 * wet * (1 + r.width)
	r.wet2 = 0.5 * wet * (1 - r.width)
	r.dryGain = r.dry * reverbScaleDry
}

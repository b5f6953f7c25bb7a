// Package reverb implements the two MultichannelReverb backends named in
// spec.md §4.7: a Freeverb-style comb/allpass network (tuning constants
// ported from building_blocks/freeverb.rs) and a UPOLS convolution reverb.
package reverb

import "github.com/polyvoice/engine/internal/param"

// Multichannel is the contract the master bus drives: one block in, one
// block out, per channel.
type Multichannel interface {
	Process(in [][]float32) [][]float32
	SetParameter(par param.Label, val param.Value)
}

const (
	fixedGain    = 0.015
	scaleWet     = 3.0
	scaleDamp    = 0.4
	scaleRoom    = 0.28
	offsetRoom   = 0.7
	initialRoom  = 0.5
	initialDamp  = 0.5
	initialWet   = 1.0 / 3.0
	stereoSpread = 23
)

var combTuningL = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
var allpassTuningL = [4]int{556, 441, 341, 225}

type comb struct {
	buf         []float32
	idx         int
	feedback    float32
	damp1       float32
	damp2       float32
	filterStore float32
}

func newComb(size int) *comb { return &comb{buf: make([]float32, size)} }

func (c *comb) setDamp(d float32) { c.damp1 = d; c.damp2 = 1 - d }

func (c *comb) process(in float32) float32 {
	out := c.buf[c.idx]
	c.filterStore = out*c.damp2 + c.filterStore*c.damp1
	c.buf[c.idx] = in + c.filterStore*c.feedback
	c.idx++
	if c.idx >= len(c.buf) {
		c.idx = 0
	}
	return out
}

type allpass struct {
	buf      []float32
	idx      int
	feedback float32
}

func newAllpass(size int) *allpass { return &allpass{buf: make([]float32, size), feedback: 0.5} }

func (a *allpass) process(in float32) float32 {
	bufout := a.buf[a.idx]
	out := -in + bufout
	a.buf[a.idx] = in + bufout*a.feedback
	a.idx++
	if a.idx >= len(a.buf) {
		a.idx = 0
	}
	return out
}

// perChannel bundles the 8 combs + 4 allpasses for one output channel.
type perChannel struct {
	combs    [8]*comb
	allpasss [4]*allpass
}

func newPerChannel(sampleRate float32, channelOffset int) *perChannel {
	pc := &perChannel{}
	scale := sampleRate / 44100.0
	for i, t := range combTuningL {
		size := int(float32(t+channelOffset) * scale)
		if size < 1 {
			size = 1
		}
		pc.combs[i] = newComb(size)
	}
	for i, t := range allpassTuningL {
		size := int(float32(t+channelOffset) * scale)
		if size < 1 {
			size = 1
		}
		pc.allpasss[i] = newAllpass(size)
	}
	return pc
}

func (pc *perChannel) process(in float32) float32 {
	out := float32(0)
	for _, c := range pc.combs {
		out += c.process(in)
	}
	for _, a := range pc.allpasss {
		out = a.process(out)
	}
	return out
}

// Freeverb is the NCHAN-generalized Freeverb: channel 0 uses the stock
// tuning, every other channel's delay lengths are offset by
// channelIndex*stereoSpread so channels decorrelate the way the original's
// stereo L/R (+23 offset) does, generalized past two channels.
type Freeverb struct {
	channels                   []*perChannel
	roomsize, damp, wet, width float32
	gain                       float32
}

func NewFreeverb(sampleRate float32, nchan int) *Freeverb {
	f := &Freeverb{gain: fixedGain, width: 1.0}
	for c := 0; c < nchan; c++ {
		f.channels = append(f.channels, newPerChannel(sampleRate, c*stereoSpread))
	}
	f.SetRoomsize(initialRoom)
	f.SetDamp(initialDamp)
	f.SetWet(initialWet)
	return f
}

func (f *Freeverb) SetRoomsize(r float32) {
	f.roomsize = r
	fb := r*scaleRoom + offsetRoom
	for _, ch := range f.channels {
		for _, c := range ch.combs {
			c.feedback = fb
		}
	}
}

func (f *Freeverb) SetDamp(d float32) {
	f.damp = d
	scaled := d * scaleDamp
	for _, ch := range f.channels {
		for _, c := range ch.combs {
			c.setDamp(scaled)
		}
	}
}

func (f *Freeverb) SetWet(w float32) { f.wet = w * scaleWet }

func (f *Freeverb) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.ReverbRoomsize:
		f.SetRoomsize(val.Scalar)
	case param.ReverbDamping:
		f.SetDamp(val.Scalar)
	case param.ReverbMix:
		f.SetWet(val.Scalar)
	}
}

// Process downmixes every input channel to mono before feeding the comb/
// allpass network (matching the original's mono-sum reverb input) and
// returns an NCHAN-wide wet signal.
func (f *Freeverb) Process(in [][]float32) [][]float32 {
	nchan := len(f.channels)
	n := 0
	if len(in) > 0 {
		n = len(in[0])
	}
	out := make([][]float32, nchan)
	for c := range out {
		out[c] = make([]float32, n)
	}
	for s := 0; s < n; s++ {
		mono := float32(0)
		for c := range in {
			mono += in[c][s]
		}
		mono *= f.gain
		for c, ch := range f.channels {
			out[c][s] = ch.process(mono) * f.wet
		}
	}
	return out
}

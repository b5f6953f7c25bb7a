// Package delay implements the per-channel feedback delay line described in
// spec.md §4.8, ported from ruffbox/synth/delay.rs: a fixed ring buffer
// whose feedback path runs through an internal Lpf18 dampening filter.
package delay

import "github.com/polyvoice/engine/internal/param"

const maxDelaySeconds = 2.0

// lpf18Like is the minimal subset of filter.Lpf18's methods this package
// needs, declared locally so this package does not import internal/filter;
// *filter.Lpf18 satisfies it.
type lpf18Like interface {
	Process(in float32) float32
	SetParameter(par param.Label, val param.Value)
}

// Mono is a single feedback delay line: read the old value, write the new
// value (input plus the old value fed back through dampening), output the
// freshly written value — the same "read old / write new / output=new"
// topology the original uses rather than a separate dry read.
type Mono struct {
	buffer     []float32
	idx        int
	maxIdx     int
	feedback   float32
	samplerate float32
	dampening  lpf18Like
}

// NewMono builds a delay line over a dampening filter the caller
// constructs (typically filter.NewLpf18(3000, 0.4, 0.3, samplerate), the
// original's defaults).
func NewMono(samplerate float32, dampening lpf18Like) *Mono {
	return &Mono{
		buffer:     make([]float32, int(maxDelaySeconds*samplerate)),
		maxIdx:     int(samplerate / 2), // default 0.5s until DelayTime sets it
		samplerate: samplerate,
		dampening:  dampening,
	}
}

func (m *Mono) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.DelayDampeningFrequency:
		m.dampening.SetParameter(param.LowpassCutoffFrequency, val)
	case param.DelayFeedback:
		m.feedback = val.Scalar
	case param.DelayTime:
		n := int(m.samplerate * val.Scalar)
		if n < 1 {
			n = 1
		}
		if n > len(m.buffer) {
			n = len(m.buffer)
		}
		m.maxIdx = n
	}
}

func (m *Mono) Process(in float32) float32 {
	bufOut := m.buffer[m.idx]
	written := m.dampening.Process(bufOut)*m.feedback + in
	m.buffer[m.idx] = written
	m.idx++
	if m.idx >= m.maxIdx {
		m.idx = 0
	}
	return written
}

func (m *Mono) ProcessBlock(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		out[i] = m.Process(out[i])
	}
}

// Multichannel broadcasts parameter changes to NCHAN independent Mono
// delay lines and processes each channel's block through its own line.
type Multichannel struct {
	lines []*Mono
	mix   float32
}

func NewMultichannel(lines []*Mono) *Multichannel {
	return &Multichannel{lines: lines, mix: 1.0}
}

func (m *Multichannel) SetParameter(par param.Label, val param.Value) {
	if par == param.DelayMix {
		m.mix = val.Scalar
		return
	}
	for _, l := range m.lines {
		l.SetParameter(par, val)
	}
}

func (m *Multichannel) Process(in [][]float32) [][]float32 {
	out := make([][]float32, len(in))
	for c, line := range m.lines {
		if c >= len(in) {
			break
		}
		out[c] = make([]float32, len(in[c]))
		copy(out[c], in[c])
		line.ProcessBlock(out[c], 0)
		for i := range out[c] {
			out[c][i] *= m.mix
		}
	}
	return out
}

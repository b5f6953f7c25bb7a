// Package voice implements the prefabricated-voice builder layer of
// spec.md §4.11: a SynthType selects a source plus a standard or bespoke
// chain, producing a PreparedInstance that satisfies internal/engine.Synth.
package voice

import (
	"github.com/polyvoice/engine/internal/envelope"
	"github.com/polyvoice/engine/internal/filter"
	"github.com/polyvoice/engine/internal/pan"
	"github.com/polyvoice/engine/internal/param"
	"github.com/polyvoice/engine/internal/source"
)

// SynthType names a prefabricated voice family a host can trigger by type
// rather than wiring a chain by hand.
type SynthType int

const (
	SynthSine SynthType = iota
	SynthLFTri
	SynthLFSquare
	SynthLFSaw
	SynthLFRsaw
	SynthWavetable
	SynthWavematrix
	SynthSampler
	SynthKarplusStrong
	SynthRissetBell
	SynthAmbisonicO1
)

// monoHead is anything that can render a mono signal into the head of a
// voice's chain: an oscillator/noise Source, a sampler, or a bespoke
// generator like Karplus-Strong or Risset bell.
type monoHead interface {
	RenderBlock(out []float32, startSample int)
	IsFinished() bool
}

// PreparedInstance is a fully assembled voice: head -> lowpass -> highpass
// -> peak1 -> peak2 -> bitcrusher -> waveshaper -> amplitude envelope ->
// panner -> NCHAN output, with reverb/delay send levels read by the
// scheduler each block, matching spec.md §4's signal chain.
type PreparedInstance struct {
	head monoHead

	lowpass, highpass filter.Mono
	peak1, peak2      filter.Mono
	bitcrusher        *filter.Bitcrusher
	waveshaper        *filter.Waveshaper

	env interface {
		Next() float32
		IsFinished() bool
	}

	panner *pan.Chan

	reverbLevel, delayLevel float32
	amp                     float32
	nchan                   int
	blockSize               int

	scratch []float32
}

// NewPreparedInstance assembles the standard chain around head, sized for
// the scheduler's fixed blockSize. The Karplus-Strong and Risset-bell
// constructors in this package build a head and then route it through
// NewPreparedInstance for the shared filter/envelope/pan chain; the
// ambisonic constructor builds its own AmbisonicInstance instead.
func NewPreparedInstance(head monoHead, nchan, blockSize int, sampleRate float32) *PreparedInstance {
	return &PreparedInstance{
		head:       head,
		lowpass:    filter.Dummy{},
		highpass:   filter.Dummy{},
		peak1:      filter.Dummy{},
		peak2:      filter.Dummy{},
		bitcrusher: filter.NewBitcrusher(),
		waveshaper: filter.NewWaveshaper(),
		env:        envelope.NewLinearASR(sampleRate),
		panner:     pan.NewChan(nchan),
		amp:        1.0,
		nchan:      nchan,
		blockSize:  blockSize,
		scratch:    make([]float32, blockSize),
	}
}

// UseLowpassLpf18 swaps in a resonant/distorting lowpass in place of the
// no-op Dummy stage.
func (p *PreparedInstance) UseLowpassLpf18(freq, res, dist float64, sampleRate float64) {
	p.lowpass = filter.NewLpf18(freq, res, dist, sampleRate)
}

func (p *PreparedInstance) UseLowpassBiquad(kind filter.BiquadKind, freq, q, sampleRate float64) {
	p.lowpass = filter.NewBiquad(kind, freq, q, sampleRate)
}

func (p *PreparedInstance) UseHighpassBiquad(kind filter.BiquadKind, freq, q, sampleRate float64) {
	p.highpass = filter.NewBiquad(kind, freq, q, sampleRate)
}

func (p *PreparedInstance) UsePeak1(freq, q, gainDB, sampleRate float64) {
	p.peak1 = filter.NewPeakEQ(freq, q, gainDB, sampleRate)
}

func (p *PreparedInstance) UsePeak2(freq, q, gainDB, sampleRate float64) {
	p.peak2 = filter.NewPeakEQ(freq, q, gainDB, sampleRate)
}

func (p *PreparedInstance) SetReverbLevel(v float32) { p.reverbLevel = v }
func (p *PreparedInstance) SetDelayLevel(v float32)  { p.delayLevel = v }

func (p *PreparedInstance) ReverbLevel() float32 { return p.reverbLevel }
func (p *PreparedInstance) DelayLevel() float32  { return p.delayLevel }

// IsFinished reports true once either side of the chain has nothing left to
// contribute: an envelope that has fully released (the common case for
// indefinite sources like oscillators, which never finish on their own) or a
// non-repeating source that ran out of content first (a sampler reaching
// the end of its buffer, say, even mid-release).
func (p *PreparedInstance) IsFinished() bool {
	return p.head.IsFinished() || p.env.IsFinished()
}

// SetParameter routes a single labeled value to whichever chain member
// owns it; members that don't own the label silently ignore it, matching
// every set_parameter implementation grounded in original_source. Labels
// owned by the head (oscillator frequency, sampler playback rate/start) are
// not routed to it and have no effect here.
func (p *PreparedInstance) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.AttackTime, param.AttackPeakLevel, param.SustainTime, param.SustainLevel, param.ReleaseTime:
		if e, ok := p.env.(interface {
			SetParameter(param.Label, param.Value)
		}); ok {
			e.SetParameter(par, val)
		}
	case param.LowpassCutoffFrequency, param.LowpassQFactor, param.LowpassDistortion:
		p.lowpass.SetParameter(par, val)
	case param.HighpassCutoffFrequency, param.HighpassQFactor:
		p.highpass.SetParameter(par, val)
	case param.Peak1Frequency, param.PeakQFactor, param.PeakGain:
		p.peak1.SetParameter(par, val)
	case param.Peak2Frequency:
		p.peak2.SetParameter(par, val)
	case param.BitcrusherBits, param.BitcrusherDownsampling, param.BitcrusherMix:
		p.bitcrusher.SetParameter(par, val)
	case param.WaveshaperMix:
		p.waveshaper.SetParameter(par, val)
	case param.ChannelPosition:
		p.panner.SetParameter(par, val)
	case param.OscillatorAmplitude:
		p.amp = val.Scalar
	}
}

func (p *PreparedInstance) SetModulator(par param.Label, init float32, mod param.Modulator) {
	switch par {
	case param.LowpassCutoffFrequency, param.LowpassQFactor, param.LowpassDistortion:
		p.lowpass.SetModulator(par, init, mod)
	case param.HighpassCutoffFrequency, param.HighpassQFactor:
		p.highpass.SetModulator(par, init, mod)
	case param.ChannelPosition:
		p.panner.SetModulator(par, init, mod)
	}
}

// GetNextBlock renders the voice's chain for one scheduler block, starting
// at startSample, producing p.nchan channels of blockSize samples (the
// scheduler's fixed block size given at construction). buffers is not read.
func (p *PreparedInstance) GetNextBlock(startSample int, buffers [][]float32) [][]float32 {
	mono := p.scratch
	for i := range mono {
		mono[i] = 0
	}

	p.head.RenderBlock(mono, startSample)
	p.lowpass.ProcessBlock(mono, startSample)
	p.highpass.ProcessBlock(mono, startSample)
	p.peak1.ProcessBlock(mono, startSample)
	p.peak2.ProcessBlock(mono, startSample)
	p.bitcrusher.ProcessBlock(mono, startSample)
	p.waveshaper.ProcessBlock(mono, startSample)

	for i := startSample; i < len(mono); i++ {
		mono[i] *= p.env.Next() * p.amp
	}

	out := make([][]float32, p.nchan)
	for c := range out {
		out[c] = make([]float32, len(mono))
	}
	p.panner.ProcessBlock(mono, out, startSample)
	return out
}

var _ = source.Sine // keep internal/source imported; the New* constructors live in heads.go

package filter

import (
	"math"

	"github.com/polyvoice/engine/internal/param"
)

// PeakEQ is a single RBJ peaking-EQ second-order section, used for the
// optional Peak1/Peak2 voice-chain stages named in spec.md's parameter
// label list.
type PeakEQ struct {
	freq, q, gainDB float64
	samplerate      float64
	stage           sos
	freqMod, qMod   *param.Modulator
	gainMod         *param.Modulator
}

func NewPeakEQ(freq, q, gainDB, samplerate float64) *PeakEQ {
	p := &PeakEQ{samplerate: samplerate}
	p.recalc(freq, q, gainDB)
	return p
}

func (p *PeakEQ) recalc(freq, q, gainDB float64) {
	p.freq, p.q, p.gainDB = freq, q, gainDB
	A := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freq / p.samplerate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	b0 := 1 + alpha*A
	b1 := -2 * cosw0
	b2 := 1 - alpha*A
	a0 := 1 + alpha/A
	a1 := -2 * cosw0
	a2 := 1 - alpha/A

	z1, z2 := p.stage.z1, p.stage.z2
	p.stage = newSOSFromCoeffs(b0, b1, b2, a0, a1, a2)
	p.stage.z1, p.stage.z2 = z1, z2
}

func (p *PeakEQ) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.PeakFrequency, param.Peak1Frequency, param.Peak2Frequency:
		p.recalc(float64(val.Scalar), p.q, p.gainDB)
	case param.PeakQFactor:
		p.recalc(p.freq, float64(val.Scalar), p.gainDB)
	case param.PeakGain:
		p.recalc(p.freq, p.q, float64(val.Scalar))
	}
}

func (p *PeakEQ) SetModulator(par param.Label, init float32, mod param.Modulator) {
	switch par {
	case param.PeakFrequency, param.Peak1Frequency, param.Peak2Frequency:
		p.freq = float64(init)
		p.freqMod = &mod
	case param.PeakQFactor:
		p.q = float64(init)
		p.qMod = &mod
	case param.PeakGain:
		p.gainDB = float64(init)
		p.gainMod = &mod
	}
}

func (p *PeakEQ) Reset() { p.stage.reset() }

func (p *PeakEQ) Process(in float32) float32 {
	return float32(p.stage.process(float64(in)))
}

func (p *PeakEQ) ProcessBlock(out []float32, startSample int) {
	n := len(out) - startSample
	if p.freqMod == nil && p.qMod == nil && p.gainMod == nil {
		for i := startSample; i < len(out); i++ {
			out[i] = p.Process(out[i])
		}
		return
	}
	var fBuf, qBuf, gBuf []float32
	if p.freqMod != nil {
		fBuf = p.freqMod.Process(float32(p.freq), n)
	}
	if p.qMod != nil {
		qBuf = p.qMod.Process(float32(p.q), n)
	}
	if p.gainMod != nil {
		gBuf = p.gainMod.Process(float32(p.gainDB), n)
	}
	for i := startSample; i < len(out); i++ {
		j := i - startSample
		freq, q, gain := p.freq, p.q, p.gainDB
		if fBuf != nil {
			freq = float64(fBuf[j])
		}
		if qBuf != nil {
			q = float64(qBuf[j])
		}
		if gBuf != nil {
			gain = float64(gBuf[j])
		}
		p.recalc(freq, q, gain)
		out[i] = p.Process(out[i])
	}
}

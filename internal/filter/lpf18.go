package filter

import (
	"math"

	"github.com/polyvoice/engine/internal/param"
)

// Lpf18 is a direct port of building_blocks/filters/lpf18.rs: a 3-pole,
// 18dB/octave tanh-saturated lowpass with resonance and distortion
// controls, a Moog-style ladder approximation.
type Lpf18 struct {
	cutoff, res, dist float64
	samplerate        float64

	ay1, ay2, ay11, ay31, ax1 float64
	kfcn, kp, kp1, kp1h, kres float64
	value, aout, lastin       float64

	cutoffMod, resMod, distMod *param.Modulator
}

func NewLpf18(freq, res, dist float64, samplerate float64) *Lpf18 {
	l := &Lpf18{samplerate: samplerate}
	l.updateInternals(freq, res, dist)
	return l
}

func (l *Lpf18) updateInternals(cutoff, res, dist float64) {
	l.cutoff, l.res, l.dist = cutoff, res, dist
	l.kfcn = 2 * cutoff / l.samplerate
	l.kp = ((-2.7528*l.kfcn+3.0429)*l.kfcn+1.718)*l.kfcn - 0.9984
	l.kp1 = l.kp + 1
	l.kp1h = 0.5 * l.kp1
	l.kres = res * (((-2.7079*l.kp1+10.963)*l.kp1-14.934)*l.kp1 + 8.4974)
	l.value = 1 + dist*(1.5+2*res*(1-l.kfcn))
}

func (l *Lpf18) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.LowpassCutoffFrequency:
		l.updateInternals(float64(val.Scalar), l.res, l.dist)
	case param.LowpassQFactor:
		l.updateInternals(l.cutoff, float64(val.Scalar), l.dist)
	case param.LowpassDistortion:
		l.updateInternals(l.cutoff, l.res, float64(val.Scalar))
	}
}

func (l *Lpf18) SetModulator(par param.Label, init float32, mod param.Modulator) {
	switch par {
	case param.LowpassCutoffFrequency:
		l.cutoff = float64(init)
		l.cutoffMod = &mod
	case param.LowpassQFactor:
		l.res = float64(init)
		l.resMod = &mod
	case param.LowpassDistortion:
		l.dist = float64(init)
		l.distMod = &mod
	}
}

func (l *Lpf18) Reset() {
	l.ay1, l.ay2, l.ay11, l.ay31, l.ax1, l.aout, l.lastin = 0, 0, 0, 0, 0, 0, 0
}

func (l *Lpf18) Process(in float32) float32 {
	return float32(l.processSample(float64(in)))
}

func (l *Lpf18) processSample(in float64) float64 {
	l.ax1 = l.lastin
	l.ay11 = l.ay1
	l.ay31 = l.ay2
	l.lastin = in - math.Tanh(l.kres*l.aout)
	l.ay1 = l.kp1h*(l.lastin+l.ax1) - l.kp*l.ay1
	l.ay2 = l.kp1h*(l.ay1+l.ay11) - l.kp*l.ay2
	l.aout = l.kp1h*(l.ay2+l.ay31) - l.kp*l.aout
	return math.Tanh(l.aout * l.value)
}

func (l *Lpf18) ProcessBlock(out []float32, startSample int) {
	n := len(out) - startSample
	if l.cutoffMod == nil && l.resMod == nil && l.distMod == nil {
		for i := startSample; i < len(out); i++ {
			out[i] = float32(l.processSample(float64(out[i])))
		}
		return
	}
	var cBuf, rBuf, dBuf []float32
	if l.cutoffMod != nil {
		cBuf = l.cutoffMod.Process(float32(l.cutoff), n)
	}
	if l.resMod != nil {
		rBuf = l.resMod.Process(float32(l.res), n)
	}
	if l.distMod != nil {
		dBuf = l.distMod.Process(float32(l.dist), n)
	}
	for i := startSample; i < len(out); i++ {
		j := i - startSample
		cutoff, res, dist := l.cutoff, l.res, l.dist
		if cBuf != nil {
			cutoff = float64(cBuf[j])
		}
		if rBuf != nil {
			res = float64(rBuf[j])
		}
		if dBuf != nil {
			dist = float64(dBuf[j])
		}
		l.updateInternals(cutoff, res, dist)
		out[i] = float32(l.processSample(float64(out[i])))
	}
}

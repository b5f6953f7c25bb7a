// Package filter implements the voice-chain filter library: a uniform
// second-order-section (SOS) core, the Lpf18 tanh-saturated 3-pole filter
// ported exactly from the original's building_blocks/filters/lpf18.rs, a
// Biquad/Butterworth cascade family built on the standard RBJ cookbook
// formulas, a PeakEQ stage, a Dummy pass-through, and the Bitcrusher /
// Waveshaper effect-chain members.
package filter

import (
	"math"

	"github.com/polyvoice/engine/internal/param"
)

// Mono is the contract every filter/chain-effect in this package satisfies.
type Mono interface {
	Process(in float32) float32
	ProcessBlock(out []float32, startSample int)
	SetParameter(par param.Label, val param.Value)
	SetModulator(par param.Label, init float32, mod param.Modulator)
	Reset()
}

// Dummy is a pass-through used whenever a voice's topology doesn't need a
// given slot (e.g. no PeakEQ stage requested).
type Dummy struct{}

func (Dummy) Process(in float32) float32 { return in }
func (d Dummy) ProcessBlock(out []float32, startSample int) {
	// no-op: input is the output
	_ = startSample
}
func (Dummy) SetParameter(param.Label, param.Value)              {}
func (Dummy) SetModulator(param.Label, float32, param.Modulator) {}
func (Dummy) Reset()                                             {}

// sos is a single second-order-section biquad core shared by Biquad and
// Butterworth, in the standard direct-form-II-transposed shape.
type sos struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (s *sos) process(in float64) float64 {
	out := s.b0*in + s.z1
	s.z1 = s.b1*in - s.a1*out + s.z2
	s.z2 = s.b2*in - s.a2*out
	return out
}

func (s *sos) reset() { s.z1, s.z2 = 0, 0 }

// lowpassCoeffs / highpassCoeffs follow the RBJ Audio EQ Cookbook biquad
// formulas (the standard derivation the original's own biquad filters are
// built on; see DESIGN.md for why no example repo supplied a ready-made
// implementation to ground this on directly).
func lowpassCoeffs(freq, q, sr float64) (b0, b1, b2, a0, a1, a2 float64) {
	w0 := 2 * math.Pi * freq / sr
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)
	b0 = (1 - cosw0) / 2
	b1 = 1 - cosw0
	b2 = (1 - cosw0) / 2
	a0 = 1 + alpha
	a1 = -2 * cosw0
	a2 = 1 - alpha
	return
}

func highpassCoeffs(freq, q, sr float64) (b0, b1, b2, a0, a1, a2 float64) {
	w0 := 2 * math.Pi * freq / sr
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)
	b0 = (1 + cosw0) / 2
	b1 = -(1 + cosw0)
	b2 = (1 + cosw0) / 2
	a0 = 1 + alpha
	a1 = -2 * cosw0
	a2 = 1 - alpha
	return
}

func newSOSFromCoeffs(b0, b1, b2, a0, a1, a2 float64) sos {
	return sos{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

package filter

import (
	"math"

	"github.com/polyvoice/engine/internal/param"
)

// Bitcrusher quantizes amplitude to a reduced bit depth and holds samples
// across a reduced effective sample rate, the two classic lo-fi artifacts,
// blended against the dry signal via BitcrusherMix.
type Bitcrusher struct {
	bits          float64
	downsampling  float64
	mix           float64
	heldSample    float32
	sampleCounter float64
}

func NewBitcrusher() *Bitcrusher {
	return &Bitcrusher{bits: 16, downsampling: 1, mix: 0}
}

func (b *Bitcrusher) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.BitcrusherBits:
		b.bits = float64(val.Scalar)
	case param.BitcrusherDownsampling:
		b.downsampling = float64(val.Scalar)
	case param.BitcrusherMix:
		b.mix = float64(val.Scalar)
	}
}

func (b *Bitcrusher) SetModulator(param.Label, float32, param.Modulator) {}
func (b *Bitcrusher) Reset()                                             { b.sampleCounter = 0; b.heldSample = 0 }

func (b *Bitcrusher) Process(in float32) float32 {
	if b.downsampling > 1 {
		b.sampleCounter++
		if b.sampleCounter >= b.downsampling {
			b.sampleCounter = 0
			b.heldSample = in
		}
	} else {
		b.heldSample = in
	}
	steps := math.Pow(2, b.bits)
	crushed := float32(math.Round(float64(b.heldSample)*steps) / steps)
	return in*float32(1-b.mix) + crushed*float32(b.mix)
}

func (b *Bitcrusher) ProcessBlock(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		out[i] = b.Process(out[i])
	}
}

// Waveshaper applies a fixed tanh-family transfer curve, blended against
// dry via WaveshaperMix.
type Waveshaper struct {
	mix   float64
	drive float64
}

func NewWaveshaper() *Waveshaper {
	return &Waveshaper{mix: 0, drive: 1}
}

func (w *Waveshaper) SetParameter(par param.Label, val param.Value) {
	if par == param.WaveshaperMix {
		w.mix = float64(val.Scalar)
	}
}

func (w *Waveshaper) SetModulator(param.Label, float32, param.Modulator) {}
func (w *Waveshaper) Reset()                                             {}

func (w *Waveshaper) Process(in float32) float32 {
	shaped := float32(math.Tanh(float64(in) * w.drive))
	return in*float32(1-w.mix) + shaped*float32(w.mix)
}

func (w *Waveshaper) ProcessBlock(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		out[i] = w.Process(out[i])
	}
}

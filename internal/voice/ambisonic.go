package voice

import (
	"github.com/polyvoice/engine/internal/ambisonic"
	"github.com/polyvoice/engine/internal/envelope"
	"github.com/polyvoice/engine/internal/param"
	"github.com/polyvoice/engine/internal/source"
)

// AmbisonicInstance is the AmbisonicO1 SynthType: a mono oscillator encoded
// to first-order B-format and decoded to the scheduler's channel count,
// bypassing the equal-power Chan panner entirely (ambisonic position is a
// property of the encode step, not of pan.Chan).
type AmbisonicInstance struct {
	head monoHead
	env  *envelope.LinearASR

	azimuth, elevation float64
	nchan              int

	reverbLevel, delayLevel float32
	scratch                 []float32
}

func NewAmbisonicInstance(wave source.Waveform, freq, amp float32, nchan, blockSize int, sampleRate float32) *AmbisonicInstance {
	osc := source.NewOscillator(wave, freq, amp, sampleRate)
	return &AmbisonicInstance{
		head:    osc,
		env:     envelope.NewLinearASR(sampleRate),
		nchan:   nchan,
		scratch: make([]float32, blockSize),
	}
}

func (a *AmbisonicInstance) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.AmbisonicAzimuth:
		a.azimuth = float64(val.Scalar)
	case param.AmbisonicElevation:
		a.elevation = float64(val.Scalar)
	}
}

func (a *AmbisonicInstance) SetModulator(param.Label, float32, param.Modulator) {}

func (a *AmbisonicInstance) ReverbLevel() float32     { return a.reverbLevel }
func (a *AmbisonicInstance) DelayLevel() float32      { return a.delayLevel }
func (a *AmbisonicInstance) SetReverbLevel(v float32) { a.reverbLevel = v }
func (a *AmbisonicInstance) SetDelayLevel(v float32)  { a.delayLevel = v }

func (a *AmbisonicInstance) IsFinished() bool { return a.head.IsFinished() || a.env.IsFinished() }

func (a *AmbisonicInstance) GetNextBlock(startSample int, buffers [][]float32) [][]float32 {
	mono := a.scratch
	for i := range mono {
		mono[i] = 0
	}
	a.head.RenderBlock(mono, startSample)
	for i := startSample; i < len(mono); i++ {
		mono[i] *= a.env.Next()
	}
	w, x, y, z := ambisonic.EncodeO1(mono, a.azimuth, a.elevation)
	return ambisonic.DecodeToChannels(w, x, y, z, a.nchan)
}

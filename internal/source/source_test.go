package source

import (
	"math"
	"testing"
)

func TestSineOscillatorFrequencyMatchesPeriod(t *testing.T) {
	const sampleRate = 44100
	o := NewOscillator(Sine, 441, 1.0, sampleRate) // 100 samples per cycle
	out := make([]float32, 100)
	o.RenderBlock(out, 0)
	if math.Abs(float64(out[0])) > 1e-6 {
		t.Errorf("sample 0 = %f, want 0 (sin phase 0)", out[0])
	}
	// Sample 99 is one sample short of a full period, so it sits just below 0.
	if math.Abs(float64(out[99]-out[0])) > 0.1 {
		t.Errorf("sample 99 = %f, expected close to sample 0 (%f) after a full period", out[99], out[0])
	}
}

func TestSquareOscillatorAlternatesSign(t *testing.T) {
	o := NewOscillator(LFSquare, 100, 1.0, 44100)
	out := make([]float32, 4410)
	o.RenderBlock(out, 0)
	var sawPositive, sawNegative bool
	for _, v := range out {
		if v > 0 {
			sawPositive = true
		}
		if v < 0 {
			sawNegative = true
		}
	}
	if !sawPositive || !sawNegative {
		t.Error("square wave should take both positive and negative values")
	}
}

func TestOscillatorRenderBlockRespectsStartSample(t *testing.T) {
	o := NewOscillator(WhiteNoise, 440, 1.0, 44100)
	out := make([]float32, 10)
	out[0], out[1], out[2] = 7, 7, 7
	o.RenderBlock(out, 3)
	if out[0] != 7 || out[1] != 7 || out[2] != 7 {
		t.Error("RenderBlock must leave samples before startSample untouched")
	}
	for i := 3; i < len(out); i++ {
		if out[i] == 7 {
			t.Errorf("sample %d was not written", i)
		}
	}
}

func TestOscillatorFinishLifecycle(t *testing.T) {
	o := NewOscillator(Sine, 440, 1, 44100)
	if o.IsFinished() {
		t.Fatal("fresh oscillator should not report finished")
	}
	o.Finish()
	if !o.IsFinished() {
		t.Error("Finish should make IsFinished true")
	}
	o.Reset()
	if o.IsFinished() {
		t.Error("Reset should clear finished state")
	}
}

func TestBandlimitedSumStaysBounded(t *testing.T) {
	for _, phase := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.99} {
		v := bandlimitedSum(phase, allHarm, 1.0)
		if math.Abs(float64(v)) > 1.0 {
			t.Errorf("phase %f: bandlimitedSum = %f, want |v| <= 1.0", phase, v)
		}
	}
}

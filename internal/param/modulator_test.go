package param

import (
	"math"
	"testing"
)

func TestValOpCombine(t *testing.T) {
	cases := []struct {
		op        ValOp
		base, mod float32
		want      float32
	}{
		{Replace, 10, 3, 3},
		{Add, 10, 3, 13},
		{Subtract, 10, 3, 7},
		{Multiply, 10, 3, 30},
		{Divide, 10, 2, 5},
		{Divide, 10, 0, 10}, // divide by zero falls back to base
	}
	for _, c := range cases {
		got := c.op.Combine(c.base, c.mod)
		if got != c.want {
			t.Errorf("op %v Combine(%f, %f) = %f, want %f", c.op, c.base, c.mod, got, c.want)
		}
	}
}

func TestModulatorSineAddsAroundBase(t *testing.T) {
	v := Value{Kind: Lfo, Waveform: WaveSine, Freq: 441, Amplitude: 2.0, Op: Add}
	m := NewModulator(OscillatorFrequency, v, 44100)
	out := m.Process(100, 100)
	for i, s := range out {
		if math.Abs(float64(s-100)) > 2.0001 {
			t.Errorf("sample %d = %f, want within 2.0 of base 100", i, s)
		}
	}
}

func TestModulatorExponentialScalesAroundCutoff(t *testing.T) {
	v := Value{Kind: Lfo, Waveform: WaveSine, Freq: 10, Amplitude: 1.0}
	m := NewModulator(LowpassCutoffFrequency, v, 44100)
	out := m.Process(1000, 10)
	for i, s := range out {
		if s <= 0 {
			t.Errorf("sample %d = %f, exponential cutoff modulation should stay positive", i, s)
		}
	}
}

func TestResolveScalarHasNoModulator(t *testing.T) {
	r := Resolve(OscillatorAmplitude, ScalarValue(0.5), 44100)
	if r.HasModulator {
		t.Error("a plain scalar Value should not resolve to a modulator")
	}
	if r.Init != 0.5 {
		t.Errorf("Init = %f, want 0.5", r.Init)
	}
}

func TestResolveLfoProducesModulator(t *testing.T) {
	v := Value{Kind: Lfo, Waveform: WaveSine, Freq: 5, Amplitude: 0.1}
	r := Resolve(OscillatorAmplitude, v, 44100)
	if !r.HasModulator {
		t.Error("an Lfo-kind Value should resolve to a modulator")
	}
}

package voice

import (
	"math"
	"testing"

	"github.com/polyvoice/engine/internal/param"
	"github.com/polyvoice/engine/internal/source"
)

func TestNewOscillatorInstanceRendersNChannels(t *testing.T) {
	inst := NewOscillatorInstance(source.Sine, 440, 0.5, 4, 64, 44100)
	out := inst.GetNextBlock(0, nil)
	if len(out) != 4 {
		t.Fatalf("expected 4 channels, got %d", len(out))
	}
	for c, ch := range out {
		if len(ch) != 64 {
			t.Errorf("channel %d length = %d, want 64", c, len(ch))
		}
	}
}

func TestPreparedInstanceFinishesWhenEnvelopeEnds(t *testing.T) {
	inst := NewOscillatorInstance(source.Sine, 440, 0.5, 2, 32, 44100)
	if inst.IsFinished() {
		t.Fatal("fresh voice should not be finished")
	}
	inst.SetParameter(param.ReleaseTime, param.ScalarValue(0))
	inst.SetParameter(param.SustainTime, param.ScalarValue(0))
	inst.SetParameter(param.AttackTime, param.ScalarValue(0))
	for i := 0; i < 10 && !inst.IsFinished(); i++ {
		inst.GetNextBlock(0, nil)
	}
	if !inst.IsFinished() {
		t.Error("voice with a zero-length envelope should finish quickly")
	}
}

func TestPreparedInstanceRespectsStartSample(t *testing.T) {
	inst := NewOscillatorInstance(source.Sine, 440, 1.0, 1, 32, 44100)
	out := inst.GetNextBlock(16, nil)
	for i := 0; i < 16; i++ {
		if out[0][i] != 0 {
			t.Errorf("sample %d before startSample should be zero, got %f", i, out[0][i])
		}
	}
}

func TestTwoOscillatorInstancesRunIndependently(t *testing.T) {
	a := NewOscillatorInstance(source.Sine, 440, 1.0, 1, 32, 44100)
	b := NewOscillatorInstance(source.Sine, 220, 1.0, 1, 32, 44100)

	outA1 := a.GetNextBlock(0, nil)
	outB1 := b.GetNextBlock(0, nil)

	same := true
	for i := range outA1[0] {
		if math.Abs(float64(outA1[0][i]-outB1[0][i])) > 1e-6 {
			same = false
			break
		}
	}
	if same {
		t.Error("two independently frequencied voices should not render identical output")
	}
}

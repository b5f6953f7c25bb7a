package envelope

import (
	"math"
	"testing"

	"github.com/polyvoice/engine/internal/param"
)

func TestLinearASRReachesPeakAtAttackEnd(t *testing.T) {
	e := NewLinearASR(100)
	e.SetParameter(param.AttackTime, param.ScalarValue(0.1)) // 10 samples at 100Hz
	e.SetParameter(param.AttackPeakLevel, param.ScalarValue(1.0))
	e.SetParameter(param.SustainTime, param.ScalarValue(100))
	e.SetParameter(param.ReleaseTime, param.ScalarValue(0.1))

	var last float32
	for i := 0; i < 10; i++ {
		last = e.Next()
	}
	if math.Abs(float64(last-1.0)) > 0.15 {
		t.Errorf("level after attack = %f, want close to 1.0", last)
	}
}

func TestLinearASRFinishesAfterRelease(t *testing.T) {
	e := NewLinearASR(100)
	e.SetParameter(param.AttackTime, param.ScalarValue(0))
	e.SetParameter(param.SustainTime, param.ScalarValue(0.02))
	e.SetParameter(param.ReleaseTime, param.ScalarValue(0.02))

	for i := 0; i < 20 && !e.IsFinished(); i++ {
		e.Next()
	}
	if !e.IsFinished() {
		t.Fatal("envelope did not finish within expected samples")
	}
	if v := e.Next(); v != 0 {
		t.Errorf("level after finished = %f, want 0", v)
	}
}

func TestLinearASRNoteOffCutsToReleaseLinearly(t *testing.T) {
	e := NewLinearASR(1000)
	e.SetParameter(param.AttackTime, param.ScalarValue(0))
	e.SetParameter(param.SustainTime, param.ScalarValue(10)) // long sustain
	e.SetParameter(param.ReleaseTime, param.ScalarValue(0.01))

	e.Next() // enter sustain at peak level 1.0
	e.NoteOff()

	first := e.Next()
	second := e.Next()
	if !(first > second) {
		t.Errorf("release should be monotonically decreasing: %f then %f", first, second)
	}
	// Linear release over 10 samples (0.01s at 1000Hz): roughly even steps.
	stepA := 1.0 - first
	stepB := first - second
	if math.Abs(float64(stepA-stepB)) > 0.05 {
		t.Errorf("release steps not linear: %f vs %f", stepA, stepB)
	}
}

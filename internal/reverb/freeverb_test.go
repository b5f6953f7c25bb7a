package reverb

import (
	"math"
	"testing"

	"github.com/polyvoice/engine/internal/param"
)

func TestFreeverbImpulseDecays(t *testing.T) {
	fv := NewFreeverb(44100, 2)
	fv.SetRoomsize(0.8)

	impulse := [][]float32{make([]float32, 8820), make([]float32, 8820)}
	impulse[0][0] = 1.0
	impulse[1][0] = 1.0

	out := fv.Process(impulse)
	if len(out) != 2 {
		t.Fatalf("expected 2 output channels, got %d", len(out))
	}

	earlyEnergy, lateEnergy := 0.0, 0.0
	for _, ch := range out {
		for i, v := range ch {
			e := float64(v) * float64(v)
			if i >= 1000 && i < 2820 {
				earlyEnergy += e
			} else if i >= 7000 {
				lateEnergy += e
			}
		}
	}
	if lateEnergy >= earlyEnergy {
		t.Errorf("expected decaying reverb tail: early energy %f, late energy %f", earlyEnergy, lateEnergy)
	}
}

func TestFreeverbStereoChannelsDecorrelate(t *testing.T) {
	fv := NewFreeverb(44100, 2)
	impulse := [][]float32{make([]float32, 2000), make([]float32, 2000)}
	impulse[0][0] = 1.0
	out := fv.Process(impulse)
	same := true
	for i := range out[0] {
		if math.Abs(float64(out[0][i]-out[1][i])) > 1e-9 {
			same = false
			break
		}
	}
	if same {
		t.Error("per-channel stereoSpread offset should decorrelate channel outputs")
	}
}

func TestFreeverbSetParameterRoutesLabels(t *testing.T) {
	fv := NewFreeverb(44100, 2)
	fv.SetParameter(param.ReverbRoomsize, param.ScalarValue(0.9))
	if fv.roomsize != 0.9 {
		t.Errorf("roomsize = %f, want 0.9", fv.roomsize)
	}
	fv.SetParameter(param.ReverbDamping, param.ScalarValue(0.2))
	if fv.damp != 0.2 {
		t.Errorf("damp = %f, want 0.2", fv.damp)
	}
}

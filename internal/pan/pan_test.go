package pan

import (
	"math"
	"testing"

	"github.com/polyvoice/engine/internal/param"
)

func TestChanEqualPowerSumIsOne(t *testing.T) {
	c := NewChan(4)
	positions := []float32{0, 0.25, 0.5, 1.5, 2.9}
	for _, pos := range positions {
		c.SetParameter(param.ChannelPosition, param.ScalarValue(pos))
		sumSq := float32(0)
		for _, lvl := range c.levels {
			sumSq += lvl * lvl
		}
		if math.Abs(float64(sumSq)-1.0) > 1e-5 {
			t.Errorf("pos %f: power sum = %f, want 1.0", pos, sumSq)
		}
	}
}

func TestChanStartsOnChannelZero(t *testing.T) {
	c := NewChan(2)
	if c.levels[0] != 1.0 || c.levels[1] != 0.0 {
		t.Errorf("initial levels = %v, want [1,0]", c.levels)
	}
}

func TestChanProcessBlockDistributesEnergy(t *testing.T) {
	c := NewChan(2)
	c.SetParameter(param.ChannelPosition, param.ScalarValue(0.5))
	in := []float32{1, 1, 1, 1}
	out := [][]float32{make([]float32, 4), make([]float32, 4)}
	c.ProcessBlock(in, out, 0)
	for i := range in {
		sumSq := out[0][i]*out[0][i] + out[1][i]*out[1][i]
		if math.Abs(float64(sumSq)-1.0) > 1e-4 {
			t.Errorf("sample %d: power = %f, want 1.0", i, sumSq)
		}
	}
}

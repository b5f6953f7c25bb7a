package sampler

import (
	"math"
	"testing"

	"github.com/polyvoice/engine/internal/param"
)

// guardPad matches internal/decode.GuardPad's layout without importing it
// (sampler stays dependency-free of decode).
func guardPad(samples []float32) []float32 {
	n := len(samples)
	padded := make([]float32, n+3)
	copy(padded[2:], samples)
	if n > 0 {
		padded[n+2] = samples[0]
	}
	return padded
}

func TestMonoPlainPlaybackRoundTrips(t *testing.T) {
	src := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	buf := guardPad(src)
	m := NewMono(buf, len(src), false)

	out := make([]float32, len(src))
	m.RenderBlock(out, 0)

	for i, want := range src {
		if math.Abs(float64(out[i]-want)) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, out[i], want)
		}
	}
	if !m.IsFinished() {
		t.Error("non-repeating sampler should finish after playing the whole buffer once")
	}
}

func TestMonoRepeatLoopsWithoutFinishing(t *testing.T) {
	src := []float32{1, 2, 3}
	buf := guardPad(src)
	m := NewMono(buf, len(src), true)

	out := make([]float32, 10)
	m.RenderBlock(out, 0)
	if m.IsFinished() {
		t.Error("repeating sampler should never finish")
	}
	// Values should cycle 1,2,3,1,2,3,...
	for i, v := range out {
		want := src[i%len(src)]
		if v != want {
			t.Errorf("sample %d = %f, want %f (cycle position %d)", i, v, want, i%len(src))
		}
	}
}

func TestMonoPlaybackStartOffsetsIntoBuffer(t *testing.T) {
	src := []float32{10, 20, 30, 40}
	buf := guardPad(src)
	m := NewMono(buf, len(src), false)

	m.SetParameter(param.PlaybackStart, param.ScalarValue(0.5))
	out := make([]float32, 1)
	m.RenderBlock(out, 0)
	if out[0] != 30 {
		t.Errorf("start=0.5 on a 4-sample buffer should begin at index 2 (30), got %f", out[0])
	}
}

func TestMonoInterpolatedPlaybackStaysInRange(t *testing.T) {
	src := make([]float32, 64)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) * 0.2))
	}
	buf := guardPad(src)
	m := NewMono(buf, len(src), true)
	m.SetParameter(param.PlaybackRate, param.ScalarValue(1.37))

	out := make([]float32, 200)
	m.RenderBlock(out, 0)
	for i, v := range out {
		if math.IsNaN(float64(v)) || math.Abs(float64(v)) > 1.5 {
			t.Fatalf("sample %d = %f out of expected range", i, v)
		}
	}
}

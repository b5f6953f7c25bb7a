package polyvoice

import (
	"testing"
)

func TestTriggerOscillatorProducesAudibleOutput(t *testing.T) {
	ctl, ph := Init(WithChannels(2), WithSampleRate(44100), WithBlockSize(256))
	inst := TriggerOscillator(ctl, 0, SynthSine, 440, 0.5)
	inst.SetReverbLevel(0)
	inst.SetDelayLevel(0)

	out := RenderOffline(ph, 44100, 256, 2, 0.05)
	energy := 0.0
	for _, ch := range out {
		for _, v := range ch {
			energy += float64(v) * float64(v)
		}
	}
	if energy == 0 {
		t.Fatal("triggering an oscillator should produce non-silent output")
	}
}

func TestInterleaveMatchesChannelOrder(t *testing.T) {
	channels := [][]float32{{1, 2, 3}, {10, 20, 30}}
	got := Interleave(channels)
	want := []float32{1, 10, 2, 20, 3, 30}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("index %d = %f, want %f", i, got[i], v)
		}
	}
}

func TestEncodeWAVFloat32LEHeaderFields(t *testing.T) {
	data := EncodeWAVFloat32LE([]float32{0, 0.5, -0.5}, 44100, 1)
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE header")
	}
	if len(data) != 44+3*4 {
		t.Errorf("total length = %d, want %d", len(data), 44+3*4)
	}
}

func TestVoiceFinishesAfterReleaseDuringOfflineRender(t *testing.T) {
	ctl, ph := Init(WithChannels(1), WithSampleRate(1000), WithBlockSize(32))
	inst := TriggerOscillator(ctl, 0, SynthSine, 100, 1.0)

	// Default envelope (10+100+100 samples at 1000Hz) should fully release
	// within a 0.2s (200-frame) render window, rounded up to whole blocks.
	_ = RenderOffline(ph, 1000, 32, 1, 0.2)
	if !inst.IsFinished() {
		t.Error("a voice with the default envelope should finish within a short render")
	}
}

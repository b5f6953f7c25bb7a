package filter

import (
	"math"
	"testing"
)

func TestLpf18StaysBounded(t *testing.T) {
	l := NewLpf18(1000, 0.3, 0.2, 44100)
	for i := 0; i < 2000; i++ {
		x := float32(math.Sin(float64(i) * 0.3))
		y := l.Process(x)
		if math.IsNaN(float64(y)) || math.Abs(float64(y)) > 10 {
			t.Fatalf("sample %d: output %f out of bounds", i, y)
		}
	}
}

func TestLpf18ResetClearsState(t *testing.T) {
	l := NewLpf18(500, 0.5, 0.1, 44100)
	for i := 0; i < 100; i++ {
		l.Process(1.0)
	}
	l.Reset()
	if l.ay1 != 0 || l.ay2 != 0 || l.aout != 0 || l.lastin != 0 {
		t.Error("Reset did not clear internal state")
	}
}

func TestLpf18AttenuatesHighFrequencies(t *testing.T) {
	low := NewLpf18(200, 0.1, 0, 44100)
	var lowEnergy float64
	for i := 0; i < 4410; i++ {
		x := float32(math.Sin(2 * math.Pi * 8000 * float64(i) / 44100))
		y := low.Process(x)
		lowEnergy += float64(y) * float64(y)
	}
	if lowEnergy > 4410*0.25 {
		t.Errorf("8kHz energy through a 200Hz lowpass = %f, expected strong attenuation", lowEnergy)
	}
}

package param

import (
	"math"
	"testing"
)

func TestRampLinearReachesEndpoints(t *testing.T) {
	seg := Segment{From: 0, To: 10, Time: 0.01, Shape: Lin} // 10 samples at 1000Hz
	r := NewRamp(seg, 1000)
	first := r.Next()
	if math.Abs(float64(first)) > 0.2 {
		t.Errorf("first sample = %f, want close to From (0)", first)
	}
	var last float32
	for !r.Done() {
		last = r.Next()
	}
	if math.Abs(float64(last-10)) > 1.5 {
		t.Errorf("final sample = %f, want close to To (10)", last)
	}
}

func TestRampConstantNeverMoves(t *testing.T) {
	seg := Segment{From: 5, To: 99, Time: 1, Shape: Constant}
	r := NewRamp(seg, 1000)
	for i := 0; i < 50; i++ {
		if v := r.Next(); v != 5 {
			t.Errorf("sample %d = %f, want constant 5", i, v)
		}
	}
}

func TestRampZeroTimeIsImmediatelyDone(t *testing.T) {
	seg := Segment{From: 0, To: 1, Time: 0, Shape: Lin}
	r := NewRamp(seg, 1000)
	if !r.Done() {
		t.Fatal("a zero-time ramp should be immediately done")
	}
	if v := r.Next(); v != 1 {
		t.Errorf("Next() on a done ramp = %f, want To (1)", v)
	}
}

func TestMultiPointAdvancesThroughSegmentsAndFinishes(t *testing.T) {
	v := Value{
		Segments: []Segment{
			{From: 0, To: 1, Time: 0.01, Shape: Lin},
			{From: 1, To: 0, Time: 0.01, Shape: Lin},
		},
	}
	mp := NewMultiPoint(v, 1000)
	for i := 0; i < 30 && !mp.Finished(); i++ {
		mp.Next()
	}
	if !mp.Finished() {
		t.Fatal("a non-looping multi-point envelope should finish after its last segment")
	}
}

func TestMultiPointLoopsIndefinitely(t *testing.T) {
	v := Value{
		Segments: []Segment{{From: 0, To: 1, Time: 0.005, Shape: Lin}},
		Loop:     true,
	}
	mp := NewMultiPoint(v, 1000)
	for i := 0; i < 100; i++ {
		mp.Next()
	}
	if mp.Finished() {
		t.Error("a looping multi-point envelope should never finish")
	}
}

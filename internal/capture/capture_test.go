package capture

import (
	"math"
	"testing"
)

func TestNewTableAllocatesGuardPaddedLiveAndFreezeSlots(t *testing.T) {
	tbl := NewTable(4, 1, 0.01, 1000, 64) // 10 live samples
	if len(tbl.Buffers[0]) != tbl.BufferLengths[0]+3 {
		t.Errorf("live buffer len = %d, want BufferLengths[0]+3 = %d", len(tbl.Buffers[0]), tbl.BufferLengths[0]+3)
	}
	if len(tbl.Buffers[1]) != len(tbl.Buffers[0]) {
		t.Errorf("freeze slot 1 should match live buffer size")
	}
	if len(tbl.Buffers[2]) != 1 {
		t.Errorf("unallocated user slot should start as a length-1 placeholder, got len %d", len(tbl.Buffers[2]))
	}
}

func TestWriteSampleToLiveBufferStaysBounded(t *testing.T) {
	tbl := NewTable(4, 1, 0.02, 1000, 32) // 20 live samples, block 32
	for i := 0; i < 500; i++ {
		v := float32(math.Sin(float64(i) * 0.3))
		tbl.WriteSampleToLiveBuffer(v)
	}
	for i, v := range tbl.Buffers[0] {
		if math.IsNaN(float64(v)) {
			t.Fatalf("buffer[0][%d] is NaN", i)
		}
	}
}

func TestFreezeBufferSnapshotsLiveRing(t *testing.T) {
	tbl := NewTable(4, 1, 0.01, 1000, 32)
	tbl.WriteSamplesToLiveBuffer([]float32{1, 2, 3, 4, 5})
	tbl.FreezeBuffer(1)
	for i := 1; i < tbl.BufferLengths[0]+1 && i < len(tbl.Buffers[1]); i++ {
		if tbl.Buffers[1][i] != tbl.Buffers[0][i] {
			t.Errorf("freeze slot[%d] = %f, want live[%d] = %f", i, tbl.Buffers[1][i], i, tbl.Buffers[0][i])
		}
	}
	if tbl.BufferLengths[1] != tbl.BufferLengths[0] {
		t.Errorf("freeze should copy the live length too")
	}
}

func TestLoadSampleInstallsContentAtID(t *testing.T) {
	tbl := NewTable(4, 1, 0.01, 1000, 32)
	content := []float32{0, 1, 2, 3, 0}
	tbl.LoadSample(3, 3, content)
	if tbl.BufferLengths[3] != 3 {
		t.Errorf("BufferLengths[3] = %d, want 3", tbl.BufferLengths[3])
	}
	if &tbl.Buffers[3][0] != &content[0] {
		t.Error("LoadSample should install the given slice directly, not copy it")
	}
}

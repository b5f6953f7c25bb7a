package engine

import (
	"testing"

	"github.com/polyvoice/engine/internal/capture"
	"github.com/polyvoice/engine/internal/delay"
	"github.com/polyvoice/engine/internal/diag"
	"github.com/polyvoice/engine/internal/filter"
	"github.com/polyvoice/engine/internal/param"
	"github.com/polyvoice/engine/internal/reverb"
)

// fakeSynth records the startSample of its most recent GetNextBlock call,
// so tests can assert sub-block onset placement.
type fakeSynth struct {
	startSample int
	called      bool
	finished    bool
	nchan       int
	blockSize   int
}

func (f *fakeSynth) GetNextBlock(startSample int, buffers [][]float32) [][]float32 {
	f.startSample = startSample
	f.called = true
	out := make([][]float32, f.nchan)
	for c := range out {
		out[c] = make([]float32, f.blockSize)
		for i := startSample; i < f.blockSize; i++ {
			out[c][i] = 1.0
		}
	}
	return out
}
func (f *fakeSynth) IsFinished() bool                                              { return f.finished }
func (f *fakeSynth) ReverbLevel() float32                                          { return 0 }
func (f *fakeSynth) DelayLevel() float32                                           { return 0 }
func (f *fakeSynth) SetParameter(par param.Label, val param.Value)                 {}
func (f *fakeSynth) SetModulator(par param.Label, init float32, m param.Modulator) {}

func newTestPlayhead(nchan, blockSize int, sampleRate float64) (*Playhead, chan<- ControlMessage) {
	ch := make(chan ControlMessage, 64)
	now := NewClock()
	buffers := capture.NewTable(4, 1, 1.0, int(sampleRate), blockSize)
	fv := reverb.NewFreeverb(float32(sampleRate), nchan)
	lines := make([]*delay.Mono, nchan)
	for c := range lines {
		lines[c] = delay.NewMono(float32(sampleRate), filter.NewLpf18(3000, 0.4, 0.3, sampleRate))
	}
	mdelay := delay.NewMultichannel(lines)
	diagnostics := diag.NewSink(16)
	ph := NewPlayhead(nchan, blockSize, buffers, ch, now, sampleRate, fv, mdelay, diagnostics)
	return ph, ch
}

func TestPlayheadSubBlockOnsetIsSampleAccurate(t *testing.T) {
	const blockSize = 512
	const sampleRate = 44100.0
	ph, ch := newTestPlayhead(2, blockSize, sampleRate)

	synth := &fakeSynth{nchan: 2, blockSize: blockSize}
	// schedule 100 samples into the first block.
	timestamp := 100.0 / sampleRate
	ch <- ControlMessage{Kind: MsgScheduleEvent, Event: ScheduledEvent{Timestamp: timestamp, Source: synth}}

	ph.Process(0, true)

	if !synth.called {
		t.Fatal("scheduled synth was never rendered")
	}
	if synth.startSample != 100 {
		t.Errorf("startSample = %d, want 100", synth.startSample)
	}
}

func TestPlayheadImmediateEventsStartAtZero(t *testing.T) {
	const blockSize = 256
	ph, ch := newTestPlayhead(2, blockSize, 44100)

	synth := &fakeSynth{nchan: 2, blockSize: blockSize}
	ch <- ControlMessage{Kind: MsgScheduleEvent, Event: ScheduledEvent{Timestamp: 0, Source: synth}}

	ph.Process(0, true)
	if !synth.called || synth.startSample != 0 {
		t.Errorf("immediate event should start at sample 0, got called=%v startSample=%d", synth.called, synth.startSample)
	}
}

func TestPlayheadFinishedVoicesAreRetired(t *testing.T) {
	const blockSize = 128
	ph, ch := newTestPlayhead(1, blockSize, 44100)

	synth := &fakeSynth{nchan: 1, blockSize: blockSize, finished: true}
	ch <- ControlMessage{Kind: MsgScheduleEvent, Event: ScheduledEvent{Timestamp: 0, Source: synth}}

	ph.Process(0, true)
	ph.Process(0, true)

	if len(ph.runningInstances) != 0 {
		t.Errorf("finished voice should be retired, got %d still running", len(ph.runningInstances))
	}
}

func TestPlayheadAdvancesClockInternally(t *testing.T) {
	const blockSize = 512
	const sampleRate = 44100.0
	ph, _ := newTestPlayhead(1, blockSize, sampleRate)

	ph.Process(0, true)
	got := loadF64(ph.now)
	want := float64(blockSize) / sampleRate
	if got != want {
		t.Errorf("clock after one block = %f, want %f", got, want)
	}
}

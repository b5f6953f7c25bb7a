package engine

import (
	"sort"
	"sync/atomic"

	"github.com/polyvoice/engine/internal/capture"
	"github.com/polyvoice/engine/internal/delay"
	"github.com/polyvoice/engine/internal/diag"
	"github.com/polyvoice/engine/internal/reverb"
)

// Playhead is the audio-thread render loop: it reuses its own output and
// send blocks across calls (the voices' GetNextBlock and the master
// reverb/delay Process calls still return freshly allocated blocks every
// call), never locks, and communicates with Controls
// only by draining a channel and storing/loading an atomic clock. This is
// the direct Go counterpart of ruffbox_playhead.rs's RuffboxPlayhead.
type Playhead struct {
	nchan     int
	blockSize int

	runningInstances []Synth
	pendingEvents    []ScheduledEvent

	buffers *capture.Table

	controlQueue <-chan ControlMessage

	blockDuration float64
	secPerSample  float64
	now           *atomic.Uint64 // bit-cast float64, shared with Controls

	masterReverb reverb.Multichannel
	masterDelay  *delay.Multichannel

	diagnostics *diag.Sink

	// Pre-allocated per-block scratch, reused across Process calls so these
	// top-level blocks are not reallocated per block.
	outBuf   [][]float32
	reverbIn [][]float32
	delayIn  [][]float32
}

// NewPlayhead wires a render loop over a shared buffer table, control
// channel and atomic clock; Controls owns construction of all three and
// hands them here so both sides agree on identity.
func NewPlayhead(nchan, blockSize int, buffers *capture.Table, rx <-chan ControlMessage,
	now *atomic.Uint64, sampleRate float64, masterReverb reverb.Multichannel, masterDelay *delay.Multichannel,
	diagnostics *diag.Sink) *Playhead {
	return &Playhead{
		nchan:            nchan,
		blockSize:        blockSize,
		runningInstances: make([]Synth, 0, 600),
		pendingEvents:    make([]ScheduledEvent, 0, 600),
		buffers:          buffers,
		controlQueue:     rx,
		blockDuration:    float64(blockSize) / sampleRate,
		secPerSample:     1.0 / sampleRate,
		now:              now,
		masterReverb:     masterReverb,
		masterDelay:      masterDelay,
		diagnostics:      diagnostics,
		outBuf:           make2D(nchan, blockSize),
		reverbIn:         make2D(nchan, blockSize),
		delayIn:          make2D(nchan, blockSize),
	}
}

func make2D(nchan, blockSize int) [][]float32 {
	buf := make([][]float32, nchan)
	for c := range buf {
		buf[c] = make([]float32, blockSize)
	}
	return buf
}

func zero2D(buf [][]float32) {
	for c := range buf {
		for s := range buf[c] {
			buf[c][s] = 0
		}
	}
}

// Process renders one block. When trackTimeInternally is false, the host's
// stream_time is authoritative and gets stored into the shared clock (the
// host audio driver callback owns time, e.g. via ebiten's sample counter);
// when true, the Playhead advances its own clock by block_duration each
// call, the offline / internally-clocked mode.
func (p *Playhead) Process(streamTime float64, trackTimeInternally bool) [][]float32 {
	outBuf, reverbIn, delayIn := p.outBuf, p.reverbIn, p.delayIn
	zero2D(outBuf)
	zero2D(reverbIn)
	zero2D(delayIn)

	var now float64
	if !trackTimeInternally {
		storeF64(p.now, streamTime)
		now = streamTime
	} else {
		now = loadF64(p.now)
	}

	p.runningInstances = retainUnfinished(p.runningInstances)

	p.drainControlQueue(now)

	for _, inst := range p.runningInstances {
		block := inst.GetNextBlock(0, p.buffers.Buffers2D())
		accumulate(outBuf, reverbIn, delayIn, block, inst.ReverbLevel(), inst.DelayLevel())
	}

	sort.Slice(p.pendingEvents, func(i, j int) bool {
		return p.pendingEvents[i].Timestamp > p.pendingEvents[j].Timestamp
	})
	blockEnd := now + p.blockDuration

	for len(p.pendingEvents) > 0 && p.pendingEvents[len(p.pendingEvents)-1].Timestamp < blockEnd {
		last := len(p.pendingEvents) - 1
		ev := p.pendingEvents[last]
		p.pendingEvents = p.pendingEvents[:last]

		sampleOffset := int(roundHalfAwayFromZero((ev.Timestamp - now) / p.secPerSample))
		if sampleOffset < 0 {
			sampleOffset = 0
		}
		if sampleOffset > p.blockSize {
			sampleOffset = p.blockSize
		}
		block := ev.Source.GetNextBlock(sampleOffset, p.buffers.Buffers2D())
		accumulate(outBuf, reverbIn, delayIn, block, ev.Source.ReverbLevel(), ev.Source.DelayLevel())

		if !ev.Source.IsFinished() {
			p.runningInstances = append(p.runningInstances, ev.Source)
		}
	}

	reverbOut := p.masterReverb.Process(reverbIn)
	delayOut := p.masterDelay.Process(delayIn)
	for c := 0; c < p.nchan; c++ {
		for s := 0; s < p.blockSize; s++ {
			outBuf[c][s] += reverbOut[c][s] + delayOut[c][s]
		}
	}

	if trackTimeInternally {
		storeF64(p.now, now+p.blockDuration)
	}

	return outBuf
}

func (p *Playhead) drainControlQueue(now float64) {
	for {
		select {
		case cm, ok := <-p.controlQueue:
			if !ok {
				return
			}
			p.handleControlMessage(cm, now)
		default:
			return
		}
	}
}

func (p *Playhead) handleControlMessage(cm ControlMessage, now float64) {
	switch cm.Kind {
	case MsgSetGlobalParam:
		p.masterReverb.SetParameter(cm.Param, cm.Value)
		p.masterDelay.SetParameter(cm.Param, cm.Value)
	case MsgScheduleEvent:
		switch {
		case cm.Event.Timestamp == 0 || cm.Event.Timestamp == now:
			p.runningInstances = append(p.runningInstances, cm.Event.Source)
		case cm.Event.Timestamp < now:
			p.runningInstances = append(p.runningInstances, cm.Event.Source)
			p.diagnostics.Late(cm.Event.Timestamp, now)
		default:
			p.pendingEvents = append(p.pendingEvents, cm.Event)
		}
	case MsgLoadSample:
		p.buffers.LoadSample(cm.BufferID, cm.Length, cm.Content)
	case MsgFreezeBuffer:
		p.buffers.FreezeBuffer(cm.BufferID)
	}
}

func retainUnfinished(instances []Synth) []Synth {
	out := instances[:0]
	for _, inst := range instances {
		if !inst.IsFinished() {
			out = append(out, inst)
		}
	}
	return out
}

func accumulate(outBuf, reverbIn, delayIn [][]float32, block [][]float32, reverbLevel, delayLevel float32) {
	for c := range outBuf {
		if c >= len(block) {
			continue
		}
		for s := range outBuf[c] {
			v := block[c][s]
			outBuf[c][s] += v
			reverbIn[c][s] += v * reverbLevel
			delayIn[c][s] += v * delayLevel
		}
	}
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

package engine

import (
	"sync/atomic"

	"github.com/polyvoice/engine/internal/capture"
	"github.com/polyvoice/engine/internal/delay"
	"github.com/polyvoice/engine/internal/diag"
	"github.com/polyvoice/engine/internal/filter"
	"github.com/polyvoice/engine/internal/param"
	"github.com/polyvoice/engine/internal/reverb"
)

// ReverbMode selects the master reverb backend Init builds, matching the
// original's ReverbMode (FreeVerb vs Convolution).
type ReverbMode int

const (
	ReverbModeFreeverb ReverbMode = iota
	ReverbModeConvolution
)

// InitOption configures Init the way player.go's PlayerOption configures
// NewPlayer: small, composable functional options rather than a config
// struct with many optional fields.
type InitOption func(*initConfig)

type initConfig struct {
	nchan             int
	sampleRate        float64
	blockSize         int
	liveBufferSeconds float64
	maxBuffers        int
	freezeBuffers     int
	channelCapacity   int
	reverbMode        ReverbMode
	convolutionIR     []float32
	diagCapacity      int
}

func defaultInitConfig() initConfig {
	return initConfig{
		nchan:             2,
		sampleRate:        44100,
		blockSize:         512,
		liveBufferSeconds: 3,
		maxBuffers:        20,
		freezeBuffers:     2,
		channelCapacity:   600, // original's Vec::with_capacity(600)
		reverbMode:        ReverbModeFreeverb,
		diagCapacity:      64,
	}
}

func WithChannels(n int) InitOption        { return func(c *initConfig) { c.nchan = n } }
func WithSampleRate(sr float64) InitOption { return func(c *initConfig) { c.sampleRate = sr } }
func WithBlockSize(n int) InitOption       { return func(c *initConfig) { c.blockSize = n } }
func WithLiveBuffer(seconds float64) InitOption {
	return func(c *initConfig) { c.liveBufferSeconds = seconds }
}
func WithMaxBuffers(n int) InitOption    { return func(c *initConfig) { c.maxBuffers = n } }
func WithFreezeBuffers(n int) InitOption { return func(c *initConfig) { c.freezeBuffers = n } }
func WithChannelCapacity(n int) InitOption {
	return func(c *initConfig) { c.channelCapacity = n }
}
func WithConvolutionReverb(ir []float32) InitOption {
	return func(c *initConfig) { c.reverbMode = ReverbModeConvolution; c.convolutionIR = ir }
}
func WithDiagnosticsCapacity(n int) InitOption {
	return func(c *initConfig) { c.diagCapacity = n }
}

// Controls is the allocate-freely side of the engine: any thread may call
// its methods. It never touches the audio thread's state directly, only
// through the control queue and the shared atomic clock.
type Controls struct {
	nchan      int
	sampleRate float64
	blockSize  int
	now        *atomic.Uint64
	tx         chan<- ControlMessage
	nextBuffer atomic.Int64
	diag       *diag.Sink
	buffers    *capture.Table
}

// Init builds the paired Controls/Playhead the way the original's top-level
// Ruffbox::new constructs a RuffboxControls and RuffboxPlayhead sharing one
// atomic clock and one channel.
func Init(opts ...InitOption) (*Controls, *Playhead) {
	cfg := defaultInitConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	now := NewClock()
	ch := make(chan ControlMessage, cfg.channelCapacity)
	buffers := capture.NewTable(cfg.maxBuffers, cfg.freezeBuffers, cfg.liveBufferSeconds, int(cfg.sampleRate), cfg.blockSize)

	var mrev reverb.Multichannel
	if cfg.reverbMode == ReverbModeConvolution && len(cfg.convolutionIR) > 0 {
		mrev = reverb.NewConvolution(cfg.convolutionIR, cfg.blockSize)
	} else {
		fv := reverb.NewFreeverb(float32(cfg.sampleRate), cfg.nchan)
		fv.SetRoomsize(0.65)
		fv.SetDamp(0.43)
		fv.SetWet(1.0)
		mrev = fv
	}

	lines := make([]*delay.Mono, cfg.nchan)
	for c := range lines {
		damp := filter.NewLpf18(3000, 0.4, 0.3, cfg.sampleRate)
		lines[c] = delay.NewMono(float32(cfg.sampleRate), damp)
	}
	mdelay := delay.NewMultichannel(lines)

	diagnostics := diag.NewSink(cfg.diagCapacity)

	ph := NewPlayhead(cfg.nchan, cfg.blockSize, buffers, ch, now, cfg.sampleRate, mrev, mdelay, diagnostics)

	ctl := &Controls{
		nchan:      cfg.nchan,
		sampleRate: cfg.sampleRate,
		blockSize:  cfg.blockSize,
		now:        now,
		tx:         ch,
		diag:       diagnostics,
		buffers:    buffers,
	}
	ctl.nextBuffer.Store(int64(cfg.freezeBuffers + 1))
	return ctl, ph
}

// Now returns the shared clock's current value.
func (c *Controls) Now() float64 { return loadF64(c.now) }

// send attempts a non-blocking send, recording an overflow diagnostic
// rather than ever letting a Controls call block the caller.
func (c *Controls) send(msg ControlMessage) {
	select {
	case c.tx <- msg:
	default:
		c.diag.Overflow()
	}
}

// ScheduleEvent queues synth to start at timestamp (absolute clock
// seconds); a timestamp of 0 means "as soon as possible."
func (c *Controls) ScheduleEvent(timestamp float64, synth Synth) {
	c.send(ControlMessage{Kind: MsgScheduleEvent, Event: ScheduledEvent{Timestamp: timestamp, Source: synth}})
}

// SetGlobalParam routes a parameter change to every master-bus effect that
// claims the label, silently ignored by effects that don't own it.
func (c *Controls) SetGlobalParam(par param.Label, val param.Value) {
	c.send(ControlMessage{Kind: MsgSetGlobalParam, Param: par, Value: val})
}

// LoadSample allocates a fresh buffer id and transfers guard-padded PCM
// content into it.
func (c *Controls) LoadSample(content []float32, length int) int {
	id := int(c.nextBuffer.Add(1)) - 1
	c.send(ControlMessage{Kind: MsgLoadSample, BufferID: id, Length: length, Content: content})
	return id
}

// FreezeBuffer snapshots the live capture ring into freeze slot id.
func (c *Controls) FreezeBuffer(id int) {
	c.send(ControlMessage{Kind: MsgFreezeBuffer, BufferID: id})
}

// Diagnostics drains the non-blocking diagnostics ring.
func (c *Controls) Diagnostics() []diag.Event { return c.diag.Drain() }

// BufferView returns the guard-padded PCM and playable length currently
// installed at buffer id, for building a sampler voice before scheduling
// it. The returned slice aliases live engine memory — callers must not
// retain it past the triggered voice's lifetime for anything but read-only
// playback, the same aliasing contract internal/sampler.Mono relies on.
func (c *Controls) BufferView(id int) ([]float32, int) {
	if c.buffers == nil || id < 0 || id >= len(c.buffers.Buffers) {
		return nil, 0
	}
	return c.buffers.Buffers[id], c.buffers.BufferLengths[id]
}

func (c *Controls) SampleRate() float64 { return c.sampleRate }
func (c *Controls) Channels() int       { return c.nchan }
func (c *Controls) BlockSize() int      { return c.blockSize }

// Package engine implements the Controls/Playhead split described in
// spec.md §2 and §4.10: Controls is the allocate-freely, send-only side a
// host calls from any thread; Playhead is the audio-thread render loop,
// ported closely from ruffbox_playhead.rs's process().
package engine

import "github.com/polyvoice/engine/internal/param"

// Synth is a single scheduled voice instance: a source, its filter/envelope/
// panner chain, and a level contribution to each master-bus send. It is the
// audio-thread-facing contract every prefabricated voice (internal/voice)
// implements.
type Synth interface {
	GetNextBlock(startSample int, buffers [][]float32) [][]float32
	IsFinished() bool
	ReverbLevel() float32
	DelayLevel() float32
	SetParameter(par param.Label, val param.Value)
	SetModulator(par param.Label, init float32, mod param.Modulator)
}

// ScheduledEvent pairs a not-yet-started Synth with the absolute clock time
// (seconds) it should begin playing.
type ScheduledEvent struct {
	Timestamp float64
	Source    Synth
}

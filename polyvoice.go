// Package polyvoice is a real-time, block-based polyphonic audio
// synthesis and sample-playback engine embeddable in a host sequencer.
//
// A host calls Init once to get a Controls handle (safe to call from any
// thread) and a Playhead (call Process only from the audio thread). The
// two communicate over a lock-free channel and a shared atomic clock; see
// internal/engine for the implementation.
package polyvoice

import (
	"fmt"

	"github.com/polyvoice/engine/internal/decode"
	"github.com/polyvoice/engine/internal/engine"
	"github.com/polyvoice/engine/internal/param"
	"github.com/polyvoice/engine/internal/resample"
	"github.com/polyvoice/engine/internal/source"
	"github.com/polyvoice/engine/internal/voice"
)

// Re-exported types so callers don't need to import internal packages.
type (
	Controls   = engine.Controls
	Playhead   = engine.Playhead
	Synth      = engine.Synth
	InitOption = engine.InitOption
	Label      = param.Label
	Value      = param.Value
	SynthType  = voice.SynthType
)

// Re-exported constructors and options.
var (
	Init                    = engine.Init
	WithChannels            = engine.WithChannels
	WithSampleRate          = engine.WithSampleRate
	WithBlockSize           = engine.WithBlockSize
	WithLiveBuffer          = engine.WithLiveBuffer
	WithMaxBuffers          = engine.WithMaxBuffers
	WithFreezeBuffers       = engine.WithFreezeBuffers
	WithChannelCapacity     = engine.WithChannelCapacity
	WithConvolutionReverb   = engine.WithConvolutionReverb
	WithDiagnosticsCapacity = engine.WithDiagnosticsCapacity
	ScalarValue             = param.ScalarValue
)

const (
	SynthSine          = voice.SynthSine
	SynthLFTri         = voice.SynthLFTri
	SynthLFSquare      = voice.SynthLFSquare
	SynthLFSaw         = voice.SynthLFSaw
	SynthLFRsaw        = voice.SynthLFRsaw
	SynthWavetable     = voice.SynthWavetable
	SynthSampler       = voice.SynthSampler
	SynthKarplusStrong = voice.SynthKarplusStrong
	SynthRissetBell    = voice.SynthRissetBell
	SynthAmbisonicO1   = voice.SynthAmbisonicO1
)

// LoadSampleFile decodes an on-disk audio file, resampling it to the
// engine's sample rate if needed, guard-pads it, and registers it with
// Controls, returning the buffer id a Sampler-type trigger can reference.
// This is the one place the engine's CORE touches a file-decode library
// (see SPEC_FULL.md §4): decode happens entirely on the Controls side,
// before anything crosses the lock-free channel into the audio thread.
func LoadSampleFile(c *Controls, path string) (int, error) {
	res, err := decode.File(path)
	if err != nil {
		return 0, fmt.Errorf("polyvoice: %w", err)
	}
	channels := res.Samples
	if res.SampleRate != int(c.SampleRate()) {
		channels = resample.Channels(channels, res.SampleRate, int(c.SampleRate()))
	}
	mono := channels[0]
	if len(channels) > 1 {
		mono = make([]float32, len(channels[0]))
		for _, ch := range channels {
			for i, s := range ch {
				mono[i] += s / float32(len(channels))
			}
		}
	}
	padded, length := decode.GuardPad(mono)
	return c.LoadSample(padded, length), nil
}

// TriggerSampler schedules playback of a previously loaded buffer at
// timestamp (absolute clock seconds; 0 means "as soon as possible"),
// returning the PreparedInstance so the caller can call SetParameter before
// the voice's first block renders.
func TriggerSampler(c *Controls, timestamp float64, bufferID int, repeat bool) *voice.PreparedInstance {
	buf, buflen := c.BufferView(bufferID)
	inst := voice.NewSamplerInstance(buf, buflen, repeat, c.Channels(), c.BlockSize(), float32(c.SampleRate()))
	c.ScheduleEvent(timestamp, inst)
	return inst
}

// TriggerOscillator schedules a standard-chain oscillator voice.
func TriggerOscillator(c *Controls, timestamp float64, synthType SynthType, freq, amp float32) *voice.PreparedInstance {
	wave := oscWaveform(synthType)
	inst := voice.NewOscillatorInstance(wave, freq, amp, c.Channels(), c.BlockSize(), float32(c.SampleRate()))
	c.ScheduleEvent(timestamp, inst)
	return inst
}

// TriggerWavetable schedules a standard-chain voice reading a caller-supplied
// single-cycle waveform, resampled internally to the engine's 2048-sample
// wavetable resolution.
func TriggerWavetable(c *Controls, timestamp float64, table []float32, freq, amp float32) *voice.PreparedInstance {
	inst := voice.NewWavetableInstance(table, freq, amp, c.Channels(), c.BlockSize(), float32(c.SampleRate()))
	c.ScheduleEvent(timestamp, inst)
	return inst
}

// TriggerKarplusStrong schedules a plucked-string voice.
func TriggerKarplusStrong(c *Controls, timestamp float64, freq, damping float32) *voice.PreparedInstance {
	inst := voice.NewKarplusStrongInstance(freq, damping, c.Channels(), c.BlockSize(), float32(c.SampleRate()))
	c.ScheduleEvent(timestamp, inst)
	return inst
}

// TriggerRissetBell schedules an inharmonic-partial-bank bell voice.
func TriggerRissetBell(c *Controls, timestamp float64, freq float64) *voice.PreparedInstance {
	inst := voice.NewRissetBellInstance(freq, c.Channels(), c.BlockSize(), float32(c.SampleRate()))
	c.ScheduleEvent(timestamp, inst)
	return inst
}

// TriggerAmbisonic schedules a first-order-ambisonic-encoded oscillator
// voice, positioned with SetParameter(param.AmbisonicAzimuth/Elevation, ...)
// after scheduling.
func TriggerAmbisonic(c *Controls, timestamp float64, synthType SynthType, freq, amp float32) *voice.AmbisonicInstance {
	wave := oscWaveform(synthType)
	inst := voice.NewAmbisonicInstance(wave, freq, amp, c.Channels(), c.BlockSize(), float32(c.SampleRate()))
	c.ScheduleEvent(timestamp, inst)
	return inst
}

func oscWaveform(t SynthType) source.Waveform {
	switch t {
	case voice.SynthLFTri:
		return source.LFTri
	case voice.SynthLFSquare:
		return source.LFSquare
	case voice.SynthLFSaw:
		return source.LFSaw
	case voice.SynthLFRsaw:
		return source.LFRsaw
	default:
		return source.Sine
	}
}

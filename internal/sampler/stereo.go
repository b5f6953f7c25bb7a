package sampler

import "github.com/polyvoice/engine/internal/param"

// Stereo plays back two separate guard-padded channel buffers, the stereo
// counterpart of Mono (original's sampler/stereo.rs): one Mono per channel,
// each with its own phase, kept in step by receiving the same parameter
// changes.
type Stereo struct {
	left, right *Mono
}

// NewStereo builds a stereo sampler from two independently guard-padded
// channel buffers of equal buflen.
func NewStereo(l, r []float32, buflen int, repeat bool) *Stereo {
	return &Stereo{left: NewMono(l, buflen, repeat), right: NewMono(r, buflen, repeat)}
}

func (s *Stereo) Finish()          { s.left.Finish(); s.right.Finish() }
func (s *Stereo) IsFinished() bool { return s.left.IsFinished() }
func (s *Stereo) Reset()           { s.left.Reset(); s.right.Reset() }

func (s *Stereo) SetParameter(par param.Label, val param.Value) {
	s.left.SetParameter(par, val)
	s.right.SetParameter(par, val)
}

func (s *Stereo) SetModulator(par param.Label, init float32, mod param.Modulator) {
	s.left.SetModulator(par, init, mod)
	s.right.SetModulator(par, init, mod)
}

// RenderBlock fills outL/outR independently; the two Mono channels share no
// state so they can be rendered back to back with no risk of phase drift
// as long as both receive the same parameter changes (guaranteed by the
// dual-dispatch SetParameter/SetModulator above).
func (s *Stereo) RenderBlock(outL, outR []float32, startSample int) {
	s.left.RenderBlock(outL, startSample)
	s.right.RenderBlock(outR, startSample)
}

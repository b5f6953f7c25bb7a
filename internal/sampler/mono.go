// Package sampler implements sample-accurate PCM playback with guard-padded
// buffers so interpolation never needs a bounds check, ported closely from
// the original's building_blocks/sampler/mono.rs and stereo.rs.
package sampler

import "github.com/polyvoice/engine/internal/param"

// State mirrors source.State without importing that package, keeping
// sampler dependency-free of the oscillator family.
type State int

const (
	Fresh State = iota
	Finished
)

// hermite matches internal/source's interpolator; duplicated locally so
// sampler has no dependency on internal/source.
func hermite(frac, ym1, y0, y1, y2 float32) float32 {
	c0 := y0
	c1 := 0.5 * (y1 - ym1)
	c2 := ym1 - 2.5*y0 + 2*y1 - 0.5*y2
	c3 := 0.5*(y2-ym1) + 1.5*(y0-y1)
	return ((c3*frac+c2)*frac+c1)*frac + c0
}

// Mono plays back a single-channel, guard-padded PCM buffer of buflen+3
// samples at an arbitrary, optionally modulated rate. Playable samples
// occupy buf[2 .. buflen+1], with buf[0] and buf[1] before them and
// buf[buflen+2] after them; internal/decode.GuardPad produces this layout.
type Mono struct {
	buf    []float32
	buflen int

	rate float32
	amp  float32

	phase            int
	fracPhase        float64
	fracPhaseInc     float64
	buflenPlusOne    int
	buflenPlusOneF64 float64
	repeat           bool
	state            State

	rateMod *param.Modulator
	ampMod  *param.Modulator
}

// NewMono builds a sampler over buf (already guard-padded per the contract
// above), with buflen the number of playable samples (excluding guards).
func NewMono(buf []float32, buflen int, repeat bool) *Mono {
	return &Mono{
		buf:              buf,
		buflen:           buflen,
		rate:             1.0,
		amp:              1.0,
		phase:            2,
		fracPhase:        2.0,
		fracPhaseInc:     1.0,
		buflenPlusOne:    buflen + 1,
		buflenPlusOneF64: float64(buflen + 1),
		repeat:           repeat,
		state:            Fresh,
	}
}

func (m *Mono) Finish()          { m.state = Finished }
func (m *Mono) IsFinished() bool { return m.state == Finished }
func (m *Mono) Reset()           { m.phase = 2; m.fracPhase = 2.0; m.state = Fresh }

func (m *Mono) SetModulator(par param.Label, init float32, mod param.Modulator) {
	switch par {
	case param.PlaybackRate:
		m.rate = init
		m.rateMod = &mod
	case param.OscillatorAmplitude:
		m.amp = init
		m.ampMod = &mod
	}
}

// SetParameter implements the uniform set_parameter protocol, including the
// PlaybackStart mod-1 clamp the original performs so a start position is
// always interpreted as a fraction of the buffer, wrapping negative and
// >1.0 values back into [0,1).
func (m *Mono) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.PlaybackStart:
		v := val.Scalar
		clamped := v
		switch {
		case v == 1.0:
			clamped = 0
		case v > 1.0:
			clamped = v - float32(int(v))
		case v < 0.0:
			abs := -v
			clamped = 1.0 - (abs - float32(int(abs)))
			if clamped >= 1.0 {
				clamped = 0
			}
		}
		offset := int(float32(m.buflen) * clamped)
		m.phase = offset + 2
		m.fracPhase = float64(m.phase)
	case param.PlaybackRate:
		m.rate = val.Scalar
		m.fracPhaseInc = float64(val.Scalar)
	case param.OscillatorAmplitude:
		m.amp = val.Scalar
	}
}

func (m *Mono) RenderBlock(out []float32, startSample int) {
	switch {
	case m.rateMod != nil || m.ampMod != nil:
		m.renderModulated(out, startSample)
	case m.rate == 1.0:
		m.renderPlain(out, startSample)
	case m.rate == -1.0:
		m.renderPlainReverse(out, startSample)
	case m.rate < 0:
		m.renderInterpolatedReverse(out, startSample)
	default:
		m.renderInterpolated(out, startSample)
	}
}

func (m *Mono) renderPlain(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		out[i] = m.buf[m.phase] * m.amp
		if m.phase < m.buflenPlusOne {
			m.phase++
		} else if m.repeat {
			m.fracPhase = 2.0
			m.phase = 2
		} else {
			m.Finish()
		}
	}
}

func (m *Mono) renderPlainReverse(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		out[i] = m.buf[m.phase] * m.amp
		if m.phase > 2 {
			m.phase--
		} else if m.repeat {
			m.fracPhase = m.buflenPlusOneF64
			m.phase = m.buflenPlusOne
		} else {
			m.Finish()
		}
	}
}

func (m *Mono) renderInterpolated(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		idx := int(m.fracPhase)
		frac := float32(m.fracPhase - float64(idx))
		out[i] = hermite(frac, m.buf[idx-1], m.buf[idx], m.buf[idx+1], m.buf[idx+2]) * m.amp
		m.fracPhase += m.fracPhaseInc
		if m.repeat && m.fracPhase > m.buflenPlusOneF64 {
			m.fracPhase = 2.0
			m.phase = 2
		} else if int(m.fracPhase) > m.buflenPlusOne && !m.repeat {
			m.Finish()
		}
	}
}

func (m *Mono) renderInterpolatedReverse(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		idxF := ceilF64(m.fracPhase)
		frac := float32(idxF - m.fracPhase)
		idx := int(idxF)
		out[i] = hermite(frac, m.buf[idx+1], m.buf[idx], m.buf[idx-1], m.buf[idx-2]) * m.amp
		m.fracPhase += m.fracPhaseInc
		if m.repeat && ceilF64(m.fracPhase) < 2.0 {
			m.fracPhase = m.buflenPlusOneF64
			m.phase = m.buflenPlusOne
		} else if ceilF64(m.fracPhase) < 2.0 && !m.repeat {
			m.Finish()
		}
	}
}

func (m *Mono) renderModulated(out []float32, startSample int) {
	n := len(out) - startSample
	var rateBuf, ampBuf []float32
	if m.rateMod != nil {
		rateBuf = m.rateMod.Process(m.rate, n)
	}
	if m.ampMod != nil {
		ampBuf = m.ampMod.Process(m.amp, n)
	}
	for i := startSample; i < len(out); i++ {
		j := i - startSample
		rate := m.rate
		if rateBuf != nil {
			rate = rateBuf[j]
		}
		amp := m.amp
		if ampBuf != nil {
			amp = ampBuf[j]
		}
		m.fracPhaseInc = float64(rate)

		if m.fracPhaseInc >= 0 {
			idx := int(m.fracPhase)
			frac := float32(m.fracPhase - float64(idx))
			out[i] = hermite(frac, m.buf[idx-1], m.buf[idx], m.buf[idx+1], m.buf[idx+2]) * amp
		} else {
			idxF := ceilF64(m.fracPhase)
			frac := float32(idxF - m.fracPhase)
			idx := int(idxF)
			out[i] = hermite(frac, m.buf[idx+1], m.buf[idx], m.buf[idx-1], m.buf[idx-2]) * amp
		}
		m.fracPhase += m.fracPhaseInc

		switch {
		case m.repeat && m.fracPhase > m.buflenPlusOneF64:
			m.fracPhase = 2.0
			m.phase = 2
		case m.repeat && ceilF64(m.fracPhase) < 2.0:
			m.fracPhase = m.buflenPlusOneF64
			m.phase = m.buflenPlusOne
		case !m.repeat && (m.fracPhase > m.buflenPlusOneF64 || ceilF64(m.fracPhase) < 2.0):
			m.Finish()
		}
	}
}

func ceilF64(v float64) float64 {
	i := float64(int(v))
	if v > i {
		return i + 1
	}
	return i
}

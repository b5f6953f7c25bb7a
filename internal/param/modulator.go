package param

import "math"

// lfoGen is a minimal phase-accumulating oscillator used internally by
// Modulator to realize Lfo-kind Values. It intentionally duplicates none of
// internal/source's richer oscillator machinery — a modulator only ever
// needs a small, cheap, allocation-free signal generator, exactly as the
// original's Modulator::lfo wraps a plain SineOsc rather than the full
// source graph.
type lfoGen struct {
	waveform Waveform
	freq     float32
	phase    float32
	sr       float32
}

func (g *lfoGen) next() float32 {
	var out float32
	switch g.waveform {
	case WaveTri:
		out = 2*float32(math.Abs(float64(g.phase)*2-1)) - 1
	case WaveSquare:
		if g.phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
	case WaveSaw:
		out = g.phase*2 - 1
	case WaveRsaw:
		out = 1 - g.phase*2
	default: // WaveSine
		out = float32(math.Sin(2 * math.Pi * float64(g.phase)))
	}
	g.phase += g.freq / g.sr
	if g.phase >= 1 {
		g.phase -= float32(int(g.phase))
	}
	return out
}

// Modulator folds a cheap internal oscillator onto a base value sample by
// sample, combining via an Op the way the original's Modulator::process
// maps ValOp over a source's rendered block.
type Modulator struct {
	gen         lfoGen
	op          ValOp
	amplitude   float32
	exponential bool // true for cutoff-frequency-type targets (log-scaled rate)
}

// NewModulator builds a Modulator from a declarative Lfo-kind Value. target
// decides whether the modulator is exponentially scaled, matching the
// original's resolve_parameter_value special-casing of LowpassCutoffFrequency,
// HighpassCutoffFrequency and the Peak*Frequency labels.
func NewModulator(target Label, v Value, sampleRate float32) Modulator {
	exp := target == LowpassCutoffFrequency || target == HighpassCutoffFrequency ||
		target == PeakFrequency || target == Peak1Frequency || target == Peak2Frequency
	return Modulator{
		gen: lfoGen{
			waveform: v.Waveform,
			freq:     v.Freq,
			phase:    v.Phase,
			sr:       sampleRate,
		},
		op:          v.Op,
		amplitude:   v.Amplitude,
		exponential: exp,
	}
}

// Process renders n modulator samples and combines each with base via op.
func (m *Modulator) Process(base float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		sample := m.gen.next() * m.amplitude
		if m.exponential {
			// exponential/logarithmic scaling: treat the LFO excursion as an
			// octave offset around base rather than a linear delta, so cutoff
			// sweeps feel even across the audible range.
			sample = base * float32(math.Pow(2, float64(sample)))
			out[i] = sample
			continue
		}
		out[i] = m.op.Combine(base, sample)
	}
	return out
}

// Resolve turns a declarative Value into either a concrete scalar (when it
// carries no modulator) or a Modulator plus its initial value, mirroring the
// original's resolve_parameter_value / ValueOrModulator split. Only
// Lfo-kind Values produce a Modulator; every other kind, including the ramp
// and multi-point kinds, resolves to its Scalar field.
type Resolved struct {
	HasModulator bool
	Init         float32
	Modulator    Modulator
}

func Resolve(target Label, v Value, sampleRate float32) Resolved {
	switch v.Kind {
	case Lfo:
		return Resolved{HasModulator: true, Init: v.Amplitude, Modulator: NewModulator(target, v, sampleRate)}
	case Scalar:
		return Resolved{Init: v.Scalar}
	default:
		return Resolved{Init: v.Scalar}
	}
}

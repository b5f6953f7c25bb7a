package filter

import "github.com/polyvoice/engine/internal/param"

// BiquadKind distinguishes the four fixed-slope Biquad filters.
type BiquadKind int

const (
	BiquadLP12 BiquadKind = iota
	BiquadHP12
	BiquadLP24
	BiquadHP24
)

// Biquad implements BiquadLpf12dB/BiquadHpf12dB/BiquadLpf24dB/BiquadHpf24dB
// by cascading one or two RBJ-cookbook second-order sections; the 24dB
// variants are two cascaded 12dB sections, the standard way to build a
// steeper slope out of the same SOS core.
type Biquad struct {
	kind       BiquadKind
	freq, q    float64
	samplerate float64
	stages     []sos
	freqMod    *param.Modulator
	qMod       *param.Modulator
}

func NewBiquad(kind BiquadKind, freq, q, samplerate float64) *Biquad {
	b := &Biquad{kind: kind, samplerate: samplerate}
	nStages := 1
	if kind == BiquadLP24 || kind == BiquadHP24 {
		nStages = 2
	}
	b.stages = make([]sos, nStages)
	b.setFreqQ(freq, q)
	return b
}

func (b *Biquad) setFreqQ(freq, q float64) {
	b.freq, b.q = freq, q
	var b0, b1, b2, a0, a1, a2 float64
	switch b.kind {
	case BiquadHP12, BiquadHP24:
		b0, b1, b2, a0, a1, a2 = highpassCoeffs(freq, q, b.samplerate)
	default:
		b0, b1, b2, a0, a1, a2 = lowpassCoeffs(freq, q, b.samplerate)
	}
	coeffs := newSOSFromCoeffs(b0, b1, b2, a0, a1, a2)
	for i := range b.stages {
		z1, z2 := b.stages[i].z1, b.stages[i].z2
		b.stages[i] = coeffs
		b.stages[i].z1, b.stages[i].z2 = z1, z2
	}
}

func (b *Biquad) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.LowpassCutoffFrequency, param.HighpassCutoffFrequency:
		b.setFreqQ(float64(val.Scalar), b.q)
	case param.LowpassQFactor, param.HighpassQFactor:
		b.setFreqQ(b.freq, float64(val.Scalar))
	}
}

func (b *Biquad) SetModulator(par param.Label, init float32, mod param.Modulator) {
	switch par {
	case param.LowpassCutoffFrequency, param.HighpassCutoffFrequency:
		b.freq = float64(init)
		b.freqMod = &mod
	case param.LowpassQFactor, param.HighpassQFactor:
		b.q = float64(init)
		b.qMod = &mod
	}
}

func (b *Biquad) Reset() {
	for i := range b.stages {
		b.stages[i].reset()
	}
}

func (b *Biquad) Process(in float32) float32 {
	v := float64(in)
	for i := range b.stages {
		v = b.stages[i].process(v)
	}
	return float32(v)
}

func (b *Biquad) ProcessBlock(out []float32, startSample int) {
	n := len(out) - startSample
	if b.freqMod == nil && b.qMod == nil {
		for i := startSample; i < len(out); i++ {
			out[i] = b.Process(out[i])
		}
		return
	}
	var fBuf, qBuf []float32
	if b.freqMod != nil {
		fBuf = b.freqMod.Process(float32(b.freq), n)
	}
	if b.qMod != nil {
		qBuf = b.qMod.Process(float32(b.q), n)
	}
	for i := startSample; i < len(out); i++ {
		j := i - startSample
		freq, q := b.freq, b.q
		if fBuf != nil {
			freq = float64(fBuf[j])
		}
		if qBuf != nil {
			q = float64(qBuf[j])
		}
		b.setFreqQ(freq, q)
		out[i] = b.Process(out[i])
	}
}

// Butterworth cascades N/2 Biquad 12dB sections with per-section Q values
// tuned to the Butterworth poles, giving a maximally-flat passband at
// orders {2,4,6,8,10} as named in the original's filter library.
type Butterworth struct {
	sections []*Biquad
}

var butterworthQs = map[int][]float64{
	2:  {0.7071},
	4:  {0.5412, 1.3066},
	6:  {0.5176, 0.7071, 1.9319},
	8:  {0.5098, 0.6013, 0.8999, 2.5629},
	10: {0.5062, 0.5612, 0.7071, 1.1013, 3.1962},
}

func NewButterworth(highpass bool, order int, freq, samplerate float64) *Butterworth {
	qs, ok := butterworthQs[order]
	if !ok {
		qs = butterworthQs[4]
	}
	kind := BiquadLP12
	if highpass {
		kind = BiquadHP12
	}
	bw := &Butterworth{}
	for _, q := range qs {
		bw.sections = append(bw.sections, NewBiquad(kind, freq, q, samplerate))
	}
	return bw
}

func (bw *Butterworth) SetParameter(par param.Label, val param.Value) {
	for _, s := range bw.sections {
		s.SetParameter(par, val)
	}
}

func (bw *Butterworth) SetModulator(par param.Label, init float32, mod param.Modulator) {
	for _, s := range bw.sections {
		s.SetModulator(par, init, mod)
	}
}

func (bw *Butterworth) Reset() {
	for _, s := range bw.sections {
		s.Reset()
	}
}

func (bw *Butterworth) Process(in float32) float32 {
	v := in
	for _, s := range bw.sections {
		v = s.Process(v)
	}
	return v
}

func (bw *Butterworth) ProcessBlock(out []float32, startSample int) {
	for _, s := range bw.sections {
		s.ProcessBlock(out, startSample)
	}
}

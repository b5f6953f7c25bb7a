package source

import "math"

const wavetableSize = 2048

// Wavetable is a single 2048-sample guard-padded lookup table played back
// with 4-point Hermite interpolation, scaled up from the teacher's 64-sample
// linearly-interpolated table (internal/wavetable/engine.go) to the
// resolution the original's wavetable oscillators use.
type Wavetable struct {
	table      []float32 // length wavetableSize+3: one guard sample at each end plus wraparound
	freq       float32
	amp        float32
	phase      float64
	sampleRate float32
	state      State
}

// NewWavetable builds a table from raw, installing guard samples so Hermite
// interpolation never needs a bounds check.
func NewWavetable(raw []float32, freq, amp, sampleRate float32) *Wavetable {
	t := make([]float32, wavetableSize+3)
	n := len(raw)
	for i := 0; i < wavetableSize; i++ {
		if n == 0 {
			t[i+1] = 0
		} else {
			pos := float64(i) * float64(n) / wavetableSize
			j := int(pos)
			frac := float32(pos - float64(j))
			t[i+1] = raw[j]*(1-frac) + raw[(j+1)%n]*frac
		}
	}
	t[0] = t[wavetableSize]
	t[wavetableSize+1] = t[1]
	t[wavetableSize+2] = t[2]
	return &Wavetable{table: t, freq: freq, amp: amp, sampleRate: sampleRate}
}

// DefaultSineTable returns a single-cycle sine ready to feed NewWavetable.
func DefaultSineTable() []float32 {
	raw := make([]float32, wavetableSize)
	for i := range raw {
		raw[i] = float32(math.Sin(2 * math.Pi * float64(i) / float64(wavetableSize)))
	}
	return raw
}

func (w *Wavetable) SetFrequency(hz float32) { w.freq = hz }
func (w *Wavetable) SetAmplitude(a float32)  { w.amp = a }
func (w *Wavetable) IsFinished() bool        { return w.state == Finished }
func (w *Wavetable) Finish()                 { w.state = Finished }
func (w *Wavetable) Reset()                  { w.phase = 0; w.state = Fresh }

func (w *Wavetable) RenderBlock(out []float32, startSample int) {
	inc := float64(w.freq) * float64(wavetableSize) / float64(w.sampleRate)
	for i := startSample; i < len(out); i++ {
		idx := math.Floor(w.phase)
		frac := w.phase - idx
		idxU := int(idx) + 1 // +1 for the head guard
		out[i] = hermite(float32(frac), w.table[idxU-1], w.table[idxU], w.table[idxU+1], w.table[idxU+2]) * w.amp
		w.phase += inc
		if w.phase >= wavetableSize {
			w.phase -= math.Trunc(w.phase/wavetableSize) * wavetableSize
		}
	}
}

// hermite is the standard 4-point, 3rd-order Hermite interpolator used
// throughout the sampler and wavetable paths.
func hermite(frac, ym1, y0, y1, y2 float32) float32 {
	c0 := y0
	c1 := 0.5 * (y1 - ym1)
	c2 := ym1 - 2.5*y0 + 2*y1 - 0.5*y2
	c3 := 0.5*(y2-ym1) + 1.5*(y0-y1)
	return ((c3*frac+c2)*frac+c1)*frac + c0
}

// Wavematrix cross-fades between two adjacent Wavetable rows selected by a
// continuous table-position parameter, the matrix extension of Wavetable.
type Wavematrix struct {
	rows     []*Wavetable
	position float32
}

func NewWavematrix(rows [][]float32, freq, amp, sampleRate float32) *Wavematrix {
	wm := &Wavematrix{}
	for _, r := range rows {
		wm.rows = append(wm.rows, NewWavetable(r, freq, amp, sampleRate))
	}
	return wm
}

func (w *Wavematrix) SetPosition(p float32) { w.position = p }

func (w *Wavematrix) SetFrequency(hz float32) {
	for _, r := range w.rows {
		r.SetFrequency(hz)
	}
}
func (w *Wavematrix) SetAmplitude(a float32) {
	for _, r := range w.rows {
		r.SetAmplitude(a)
	}
}
func (w *Wavematrix) IsFinished() bool { return len(w.rows) == 0 || w.rows[0].IsFinished() }
func (w *Wavematrix) Finish() {
	for _, r := range w.rows {
		r.Finish()
	}
}
func (w *Wavematrix) Reset() {
	for _, r := range w.rows {
		r.Reset()
	}
}

func (w *Wavematrix) RenderBlock(out []float32, startSample int) {
	if len(w.rows) == 0 {
		return
	}
	lower := int(w.position)
	if lower >= len(w.rows)-1 {
		lower = len(w.rows) - 2
	}
	if lower < 0 {
		lower = 0
	}
	upper := lower + 1
	if upper >= len(w.rows) {
		upper = lower
	}
	frac := w.position - float32(lower)

	a := make([]float32, len(out))
	b := make([]float32, len(out))
	w.rows[lower].RenderBlock(a, startSample)
	w.rows[upper].RenderBlock(b, startSample)
	for i := startSample; i < len(out); i++ {
		out[i] = a[i]*(1-frac) + b[i]*frac
	}
}

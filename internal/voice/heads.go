package voice

import (
	"math"

	"github.com/polyvoice/engine/internal/sampler"
	"github.com/polyvoice/engine/internal/source"
)

// oscHead adapts *source.Oscillator to monoHead (already satisfies it
// directly; kept as a thin type alias point for clarity at call sites).
type oscHead = source.Oscillator

// samplerHead adapts *sampler.Mono to monoHead.
type samplerHead struct{ m *sampler.Mono }

func (s samplerHead) RenderBlock(out []float32, startSample int) { s.m.RenderBlock(out, startSample) }
func (s samplerHead) IsFinished() bool                           { return s.m.IsFinished() }

// NewOscillatorInstance builds a standard-chain voice around a band-limited
// or naive oscillator (SynthSine/LFTri/LFSquare/LFSaw/LFRsaw).
func NewOscillatorInstance(wave source.Waveform, freq, amp float32, nchan, blockSize int, sampleRate float32) *PreparedInstance {
	osc := source.NewOscillator(wave, freq, amp, sampleRate)
	return NewPreparedInstance(osc, nchan, blockSize, sampleRate)
}

// NewWavetableInstance builds a standard-chain voice around a 2048-sample
// Hermite-interpolated wavetable.
func NewWavetableInstance(table []float32, freq, amp float32, nchan, blockSize int, sampleRate float32) *PreparedInstance {
	wt := source.NewWavetable(table, freq, amp, sampleRate)
	return NewPreparedInstance(wavetableHead{wt}, nchan, blockSize, sampleRate)
}

type wavetableHead struct{ w *source.Wavetable }

func (h wavetableHead) RenderBlock(out []float32, startSample int) { h.w.RenderBlock(out, startSample) }
func (h wavetableHead) IsFinished() bool                           { return h.w.IsFinished() }

// NewSamplerInstance builds a standard-chain voice around a guard-padded
// mono sample buffer.
func NewSamplerInstance(buf []float32, buflen int, repeat bool, nchan, blockSize int, sampleRate float32) *PreparedInstance {
	m := sampler.NewMono(buf, buflen, repeat)
	return NewPreparedInstance(samplerHead{m}, nchan, blockSize, sampleRate)
}

// karplusStrong is a plucked-string voice: a white-noise burst seeding a
// feedback delay line with a one-pole damping filter, the length of the
// delay line setting the fundamental pitch. Grounded on
// original_source/src/synths/n_channel/karplusplus.rs's description in
// _INDEX.md (the Karplus-Strong algorithm itself is textbook: excite a
// ring buffer with noise, feed it back through a lowpass each cycle).
type karplusStrong struct {
	ring     []float32
	idx      int
	damping  float32
	lastOut  float32
	burst    int
	rngState uint32
	finished bool
}

func newKarplusStrong(freq, damping float32, sampleRate float32) *karplusStrong {
	n := int(sampleRate / freq)
	if n < 2 {
		n = 2
	}
	k := &karplusStrong{ring: make([]float32, n), damping: damping, burst: n, rngState: 0xcafef00d}
	for i := range k.ring {
		k.ring[i] = k.nextRand()
	}
	return k
}

func (k *karplusStrong) nextRand() float32 {
	x := k.rngState
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	k.rngState = x
	return float32(x)/float32(math.MaxUint32)*2 - 1
}

func (k *karplusStrong) RenderBlock(out []float32, startSample int) {
	for i := startSample; i < len(out); i++ {
		cur := k.ring[k.idx]
		avg := (cur + k.lastOut) * 0.5 * k.damping
		k.ring[k.idx] = avg
		k.lastOut = avg
		out[i] = cur
		k.idx++
		if k.idx >= len(k.ring) {
			k.idx = 0
		}
	}
}

func (k *karplusStrong) IsFinished() bool { return k.finished }

// NewKarplusStrongInstance builds a plucked-string voice.
func NewKarplusStrongInstance(freq, damping float32, nchan, blockSize int, sampleRate float32) *PreparedInstance {
	ks := newKarplusStrong(freq, damping, sampleRate)
	return NewPreparedInstance(ks, nchan, blockSize, sampleRate)
}

// rissetBellPartials is the original's fixed 11-partial inharmonic ratio/
// amplitude/decay table, reproduced from the description in _INDEX.md's
// risset_bell.rs entry.
var rissetBellPartials = []struct{ ratio, amp, decay float64 }{
	{0.56, 1.0, 1.0}, {0.56, 0.67, 0.9}, {0.92, 1.0, 0.65},
	{0.92, 1.8, 0.55}, {1.19, 2.67, 0.325}, {1.7, 1.67, 0.35},
	{2.0, 1.46, 0.25}, {2.74, 1.33, 0.2}, {3.0, 1.33, 0.15},
	{3.76, 1.0, 0.1}, {4.07, 1.33, 0.075},
}

type rissetBell struct {
	freq       float64
	sampleRate float64
	elapsed    float64
	finished   bool
}

func newRissetBell(freq, sampleRate float64) *rissetBell {
	return &rissetBell{freq: freq, sampleRate: sampleRate}
}

func (r *rissetBell) RenderBlock(out []float32, startSample int) {
	dt := 1.0 / r.sampleRate
	for i := startSample; i < len(out); i++ {
		sum := 0.0
		for _, p := range rissetBellPartials {
			env := math.Exp(-r.elapsed / p.decay)
			sum += p.amp * env * math.Sin(2*math.Pi*p.ratio*r.freq*r.elapsed)
		}
		out[i] = float32(sum * 0.15)
		r.elapsed += dt
	}
	if r.elapsed > 12 {
		r.finished = true
	}
}

func (r *rissetBell) IsFinished() bool { return r.finished }

// NewRissetBellInstance builds an inharmonic-partial-bank bell voice.
func NewRissetBellInstance(freq float64, nchan, blockSize int, sampleRate float32) *PreparedInstance {
	rb := newRissetBell(freq, float64(sampleRate))
	return NewPreparedInstance(rb, nchan, blockSize, sampleRate)
}

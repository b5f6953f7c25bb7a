// Package source implements the monophonic signal-generator family that
// can sit at the head of a voice's chain: band-limited and naive
// oscillators, noise generators and wavetable/wavematrix lookup.
//
// Every Source is Fresh until IsFinished() reports true. Wavematrix
// allocates two row blocks on every RenderBlock call; the other sources do
// not allocate inside RenderBlock.
package source

import "math"

// State mirrors the two-state source-level lifecycle (original_source's
// SynthState): a source doesn't know about a voice's attack/sustain/release,
// it only knows whether it still has output left to give.
type State int

const (
	Fresh State = iota
	Finished
)

// Source is the contract every oscillator/noise generator/wavetable
// implements. RenderBlock fills out in place starting at startSample,
// leaving earlier samples untouched (the scheduler uses startSample to
// align a voice that starts mid-block).
type Source interface {
	RenderBlock(out []float32, startSample int)
	SetFrequency(hz float32)
	SetAmplitude(amp float32)
	IsFinished() bool
	Finish()
	Reset()
}

type Waveform int

const (
	Sine Waveform = iota
	LFTri
	LFSquare
	LFSaw
	LFRsaw
	LFCub
	FMSquare
	FMSaw
	FMTri
	NaiveBlit
	WhiteNoise
	BrownNoise
)

// Oscillator is a single phase-accumulating generator covering every
// Waveform above. Band-limited FM-formulation shapes (FMSquare/FMSaw/FMTri)
// approximate their naive counterparts via a small fixed harmonic partial
// sum, the cheapest alias-reduction the original reaches for before falling
// back to full BLIT synthesis.
type Oscillator struct {
	wave       Waveform
	freq       float32
	amp        float32
	phase      float64
	sampleRate float32
	state      State
	brownLast  float64
	rngState   uint32
}

func NewOscillator(wave Waveform, freq, amp, sampleRate float32) *Oscillator {
	return &Oscillator{wave: wave, freq: freq, amp: amp, sampleRate: sampleRate, rngState: 0x9e3779b9}
}

func (o *Oscillator) SetFrequency(hz float32) { o.freq = hz }
func (o *Oscillator) SetAmplitude(a float32)  { o.amp = a }
func (o *Oscillator) IsFinished() bool        { return o.state == Finished }
func (o *Oscillator) Finish()                 { o.state = Finished }
func (o *Oscillator) Reset()                  { o.phase = 0; o.state = Fresh }

func (o *Oscillator) nextRand() float32 {
	// xorshift32, cheap and allocation-free.
	x := o.rngState
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	o.rngState = x
	return float32(x)/float32(math.MaxUint32)*2 - 1
}

func (o *Oscillator) RenderBlock(out []float32, startSample int) {
	inc := float64(o.freq) / float64(o.sampleRate)
	for i := startSample; i < len(out); i++ {
		out[i] = o.sample() * o.amp
		o.phase += inc
		if o.phase >= 1 {
			o.phase -= math.Trunc(o.phase)
		}
	}
}

func (o *Oscillator) sample() float32 {
	p := o.phase
	switch o.wave {
	case LFTri:
		return float32(2*math.Abs(p*2-1) - 1)
	case LFSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case LFSaw:
		return float32(p*2 - 1)
	case LFRsaw:
		return float32(1 - p*2)
	case LFCub:
		s := math.Sin(2 * math.Pi * p)
		return float32(s * s * s)
	case FMSquare:
		return bandlimitedSum(p, oddOnly, 1.0)
	case FMSaw:
		return bandlimitedSum(p, allHarm, 1.0)
	case FMTri:
		return bandlimitedSum(p, oddOnly, 2.0)
	case NaiveBlit:
		return bandlimitedSum(p, allHarm, 0.0)
	case WhiteNoise:
		return o.nextRand()
	case BrownNoise:
		step := o.nextRand() * 0.02
		o.brownLast += float64(step)
		if o.brownLast > 1 {
			o.brownLast = 1
		} else if o.brownLast < -1 {
			o.brownLast = -1
		}
		return float32(o.brownLast)
	default: // Sine
		return float32(math.Sin(2 * math.Pi * p))
	}
}

const harmonics = 8

func oddOnly(n int) bool { return n%2 == 1 }
func allHarm(n int) bool { return true }

// bandlimitedSum approximates a band-limited square/saw/triangle/impulse by
// summing a small fixed number of partials, alternating sign for triSign to
// shape the triangle's falling amplitude (1/n^2) rather than saw's (1/n).
func bandlimitedSum(phase float64, include func(int) bool, triSign float64) float32 {
	sum := 0.0
	sign := 1.0
	for n := 1; n <= harmonics; n++ {
		if !include(n) {
			continue
		}
		if triSign == 0.0 {
			sum += math.Cos(2*math.Pi*float64(n)*phase) / harmonics
			continue
		}
		amp := 1.0 / float64(n)
		if triSign == 2.0 {
			amp = 1.0 / float64(n*n)
			sum += sign * amp * math.Sin(2*math.Pi*float64(n)*phase)
			sign = -sign
			continue
		}
		sum += amp * math.Sin(2*math.Pi*float64(n)*phase)
	}
	return float32(sum * 0.8)
}

package reverb

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/polyvoice/engine/internal/param"
)

// Convolution is a uniform-partitioned overlap-save (UPOLS) convolution
// reverb: the impulse response is split into fixed-size partitions, each
// FFT'd once up front; every incoming block is FFT'd once and multiplied
// against every IR partition's spectrum, with partition k contributing from
// k blocks in the past — the standard low-latency partitioned-convolution
// trick the original reaches for rustfft to implement (see DESIGN.md).
type Convolution struct {
	blockSize  int
	fftSize    int
	fft        *fourier.FFT
	partitions [][]complex128 // one spectrum per IR partition, per channel summed to mono IR
	history    [][]complex128 // ring of past input block spectra
	historyPos int
	wet        float32
	lastInput  []float64
}

// NewConvolution builds a UPOLS engine from a mono impulse response,
// partitioned into blocks of blockSize samples.
func NewConvolution(ir []float32, blockSize int) *Convolution {
	fftSize := blockSize * 2
	fft := fourier.NewFFT(fftSize)
	c := &Convolution{blockSize: blockSize, fftSize: fftSize, fft: fft, wet: 1.0}

	numPartitions := (len(ir) + blockSize - 1) / blockSize
	if numPartitions == 0 {
		numPartitions = 1
	}
	c.partitions = make([][]complex128, numPartitions)
	for p := 0; p < numPartitions; p++ {
		seg := make([]float64, fftSize)
		for i := 0; i < blockSize; i++ {
			idx := p*blockSize + i
			if idx < len(ir) {
				seg[i] = float64(ir[idx])
			}
		}
		c.partitions[p] = fft.Coefficients(nil, seg)
	}
	c.history = make([][]complex128, numPartitions)
	zero := make([]complex128, fftSize/2+1)
	for i := range c.history {
		h := make([]complex128, len(zero))
		copy(h, zero)
		c.history[i] = h
	}
	return c
}

func (c *Convolution) SetParameter(par param.Label, val param.Value) {
	if par == param.ReverbMix {
		c.wet = val.Scalar
	}
}

// processMono runs UPOLS on a single mono block of exactly blockSize
// samples, returning blockSize wet output samples.
func (c *Convolution) processMono(block []float32) []float32 {
	padded := make([]float64, c.fftSize)
	for i, s := range block {
		padded[i+c.blockSize] = float64(s) // overlap-save: new block in 2nd half
	}
	// carry the previous block's tail into the first half for overlap.
	if c.lastInput != nil {
		copy(padded[:c.blockSize], c.lastInput)
	}
	c.lastInput = make([]float64, c.blockSize)
	copy(c.lastInput, padded[c.blockSize:])

	spectrum := c.fft.Coefficients(nil, padded)
	c.history[c.historyPos] = spectrum

	accum := make([]complex128, len(spectrum))
	for p := range c.partitions {
		hp := (c.historyPos - p + len(c.history)) % len(c.history)
		hist := c.history[hp]
		part := c.partitions[p]
		for k := range accum {
			accum[k] += hist[k] * part[k]
		}
	}
	c.historyPos = (c.historyPos + 1) % len(c.history)

	timeDomain := c.fft.Sequence(nil, accum)
	out := make([]float32, c.blockSize)
	norm := 1.0 / float64(c.fftSize)
	for i := 0; i < c.blockSize; i++ {
		out[i] = float32(timeDomain[i+c.blockSize] * norm)
	}
	return out
}

func (c *Convolution) Process(in [][]float32) [][]float32 {
	n := 0
	if len(in) > 0 {
		n = len(in[0])
	}
	mono := make([]float32, n)
	for _, ch := range in {
		for i, s := range ch {
			mono[i] += s
		}
	}
	var wetMono []float32
	if n == c.blockSize {
		wetMono = c.processMono(mono)
	} else {
		wetMono = make([]float32, n) // non-standard block size: bypass rather than mis-size FFT
		copy(wetMono, mono)
	}
	out := make([][]float32, len(in))
	for ch := range out {
		out[ch] = make([]float32, n)
		for i := range out[ch] {
			out[ch][i] = wetMono[i] * c.wet
		}
	}
	return out
}

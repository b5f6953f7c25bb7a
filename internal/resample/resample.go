// Package resample implements the black-box sample-rate-conversion
// primitive spec.md treats as an implementation detail: a
// linear-interpolation resampler, called once per loaded sample rather
// than on the audio thread. The convolution reverb does not call it; its
// impulse response is used at the rate it is given in. Multi-channel
// resampling fans out per channel with
// golang.org/x/sync/errgroup, grounded on the teacher's ebiten-derived
// indirect dependency on that module, promoted here to direct use.
package resample

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Channels resamples each channel of pcm (assumed to share fromRate)
// independently and concurrently to toRate.
func Channels(pcm [][]float32, fromRate, toRate int) [][]float32 {
	if fromRate == toRate {
		return pcm
	}
	out := make([][]float32, len(pcm))
	g, _ := errgroup.WithContext(context.Background())
	for c := range pcm {
		c := c
		g.Go(func() error {
			out[c] = linear(pcm[c], fromRate, toRate)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// linear is a linear-interpolation resampler: cheap, allocation-bounded,
// and good enough for the one-shot, off-audio-thread call sites this
// package serves (loaded samples), in place
// of the original's rustfft-based FftFixedIn (no Go equivalent appears in
// the example pack; see DESIGN.md).
func linear(in []float32, fromRate, toRate int) []float32 {
	if len(in) == 0 || fromRate == toRate {
		return in
	}
	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(in)) / ratio)
	out := make([]float32, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := float32(srcPos - float64(idx))
		if idx+1 < len(in) {
			out[i] = in[idx]*(1-frac) + in[idx+1]*frac
		} else if idx < len(in) {
			out[i] = in[idx]
		}
	}
	return out
}

// Package ambisonic implements a first-order B-format encoder and a fixed
// decode matrix down to an arbitrary channel count, grounded on
// building_blocks/ambisonics/encoder_o1.rs and binauralizer_o1.rs (named in
// _INDEX.md; standard B-format encode/decode matrices used since the Rust
// internals were not read in full depth — see DESIGN.md).
package ambisonic

import "math"

// EncodeO1 produces first-order B-format (W, X, Y, Z) from a mono signal
// and a fixed azimuth/elevation (radians).
func EncodeO1(mono []float32, azimuth, elevation float64) (w, x, y, z []float32) {
	n := len(mono)
	w = make([]float32, n)
	x = make([]float32, n)
	y = make([]float32, n)
	z = make([]float32, n)

	cosEl := math.Cos(elevation)
	wGain := float32(1.0 / math.Sqrt2)
	xGain := float32(cosEl * math.Cos(azimuth))
	yGain := float32(cosEl * math.Sin(azimuth))
	zGain := float32(math.Sin(elevation))

	for i, s := range mono {
		w[i] = s * wGain
		x[i] = s * xGain
		y[i] = s * yGain
		z[i] = s * zGain
	}
	return
}

// DecodeToChannels projects B-format onto nchan loudspeakers arranged in a
// regular circle (elevation ignored for nchan<4; for nchan>=4, Z is added
// to channel 3),
// a simple fixed decode matrix standing in for the original's dedicated
// binauralizer/decoder.
func DecodeToChannels(w, x, y, z []float32, nchan int) [][]float32 {
	n := len(w)
	out := make([][]float32, nchan)
	for c := 0; c < nchan; c++ {
		out[c] = make([]float32, n)
		angle := 2 * math.Pi * float64(c) / float64(nchan)
		cg := float32(math.Cos(angle))
		sg := float32(math.Sin(angle))
		for i := 0; i < n; i++ {
			out[c][i] = w[i] + x[i]*cg + y[i]*sg
		}
	}
	if nchan >= 4 {
		for i := range out[3] {
			out[3][i] += z[i]
		}
	}
	return out
}

package polyvoice

import (
	"encoding/binary"
	"math"

	"github.com/polyvoice/engine/internal/engine"
)

// RenderOffline drives a Playhead for the given duration with internally
// tracked time, the non-realtime counterpart to feeding Process from a live
// audio callback; useful for tests and batch rendering.
func RenderOffline(ph *engine.Playhead, sampleRate, blockSize, nchan int, seconds float64) [][]float32 {
	frames := int(float64(sampleRate) * seconds)
	blocks := (frames + blockSize - 1) / blockSize

	out := make([][]float32, nchan)
	for c := range out {
		out[c] = make([]float32, 0, blocks*blockSize)
	}
	for b := 0; b < blocks; b++ {
		block := ph.Process(0, true)
		for c := range out {
			out[c] = append(out[c], block[c]...)
		}
	}
	return out
}

// Interleave folds per-channel float32 slices into a single interleaved
// slice, the layout EncodeWAVFloat32LE and most playback APIs expect.
func Interleave(channels [][]float32) []float32 {
	if len(channels) == 0 {
		return nil
	}
	n := len(channels[0])
	out := make([]float32, n*len(channels))
	for i := 0; i < n; i++ {
		for c := range channels {
			out[i*len(channels)+c] = channels[c][i]
		}
	}
	return out
}

// EncodeWAVFloat32LE writes a minimal 32-bit-float PCM WAV container.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}

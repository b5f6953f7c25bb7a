// Package capture implements the live-input capture ring and the shared
// buffer table (live slot 0, freeze slots, user-loaded slots), ported from
// ruffbox_playhead.rs's write_sample_to_live_buffer and buffer bookkeeping.
package capture

import "math"

// Table is the shared sample-buffer table: buffer 0 is the live capture
// ring, buffers 1..freezeCount are freeze targets, everything above that is
// user-loaded via LoadSample. The live and freeze buffers hold their
// samples at 1..length with one head guard and two tail guards; a
// user-loaded slot holds whatever LoadSample installs, and a slot nothing
// has been installed in is a one-sample placeholder.
type Table struct {
	Buffers       [][]float32
	BufferLengths []int
	MaxBuffers    int

	liveIdx          int
	liveCurrentBlock int
	stitchSize       int
	nonStitchSize    int
	fadeStitchIdx    int
	fadeCurve        []float32
	stitchBuffer     []float32
	blockSize        int
}

// NewTable allocates a buffer table with a live ring sized for
// liveBufferSeconds and freezeCount freeze slots of the same size, plus
// maxBuffers-freezeCount-1 empty user slots.
func NewTable(maxBuffers, freezeCount int, liveBufferSeconds float64, sampleRate, blockSize int) *Table {
	t := &Table{
		MaxBuffers: maxBuffers,
		blockSize:  blockSize,
	}
	t.Buffers = make([][]float32, maxBuffers)
	t.BufferLengths = make([]int, maxBuffers)
	for i := range t.Buffers {
		t.Buffers[i] = []float32{0}
	}

	liveLen := int(float64(sampleRate) * liveBufferSeconds)
	t.Buffers[0] = make([]float32, liveLen+3)
	t.BufferLengths[0] = liveLen
	for b := 1; b <= freezeCount && b < maxBuffers; b++ {
		t.Buffers[b] = make([]float32, liveLen+3)
		t.BufferLengths[b] = liveLen
	}

	t.stitchSize = blockSize / 4
	t.nonStitchSize = blockSize - t.stitchSize
	t.stitchBuffer = make([]float32, t.stitchSize)
	t.fadeCurve = make([]float32, t.stitchSize)
	piInc := math.Pi / float64(t.stitchSize)
	piIdx := 0.0
	for i := 0; i < t.stitchSize; i++ {
		t.fadeCurve[i] = float32((-math.Cos(piIdx) + 1) / 2)
		piIdx += piInc
	}
	t.liveIdx = 1
	return t
}

// WriteSampleToLiveBuffer feeds one live-input sample into the ring,
// cross-fading the trailing quarter-block "stitch region" each cycle so the
// wraparound point never clicks, exactly mirroring the original's
// write_sample_to_live_buffer.
func (t *Table) WriteSampleToLiveBuffer(sample float32) {
	liveLen := t.BufferLengths[0]
	buf := t.Buffers[0]

	if t.liveCurrentBlock == 0 {
		countBack := t.liveIdx - 1
		for s := len(t.stitchBuffer) - 1; s >= 0; s-- {
			if countBack < 1 {
				countBack = liveLen
			}
			buf[countBack] = t.stitchBuffer[s]
			countBack--
		}
	}

	if t.liveCurrentBlock < t.nonStitchSize {
		buf[t.liveIdx] = sample
	} else if t.liveCurrentBlock < t.blockSize {
		t.stitchBuffer[t.fadeStitchIdx] = sample
		buf[t.liveIdx] = buf[t.liveIdx]*t.fadeCurve[t.fadeStitchIdx] + sample*(1-t.fadeCurve[t.fadeStitchIdx])
		t.fadeStitchIdx++
	}

	t.liveIdx++
	t.liveCurrentBlock++

	if t.liveIdx > liveLen {
		t.liveIdx = 1
	}
	if t.liveCurrentBlock >= t.blockSize {
		t.liveCurrentBlock = 0
	}
	if t.fadeStitchIdx >= t.stitchSize {
		t.fadeStitchIdx = 0
	}
}

func (t *Table) WriteSamplesToLiveBuffer(samples []float32) {
	for _, s := range samples {
		t.WriteSampleToLiveBuffer(s)
	}
}

// Buffers2D exposes the raw buffer slices to a Synth's GetNextBlock without
// copying, the same read access the original grants samplers into
// buffers: &[SampleBuffer].
func (t *Table) Buffers2D() [][]float32 { return t.Buffers }

// LoadSample installs pre-decoded, guard-padded PCM into slot id.
func (t *Table) LoadSample(id int, length int, content []float32) {
	if id >= 0 && id < t.MaxBuffers {
		t.Buffers[id] = content
		t.BufferLengths[id] = length
	}
}

// FreezeBuffer snapshots the entire playable region of the live buffer into
// freeze slot id.
func (t *Table) FreezeBuffer(id int) {
	if id < 0 || id >= t.MaxBuffers {
		return
	}
	n := t.BufferLengths[0] + 1
	if n > len(t.Buffers[id]) {
		n = len(t.Buffers[id])
	}
	for i := 1; i < n; i++ {
		t.Buffers[id][i] = t.Buffers[0][i]
	}
	t.BufferLengths[id] = t.BufferLengths[0]
}

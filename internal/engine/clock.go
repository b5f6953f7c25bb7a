package engine

import (
	"math"
	"sync/atomic"
)

// storeF64/loadF64 implement the lock-free atomic clock shared between
// Controls and Playhead via bit-cast float64 storage, the same trick the
// teacher uses for its lock-free gain/parameter fields
// (internal/fm/engine.go's masterGain uint64).
func storeF64(a *atomic.Uint64, v float64) {
	a.Store(math.Float64bits(v))
}

func loadF64(a *atomic.Uint64) float64 {
	return math.Float64frombits(a.Load())
}

// NewClock builds a fresh atomic clock starting at zero.
func NewClock() *atomic.Uint64 {
	return new(atomic.Uint64)
}

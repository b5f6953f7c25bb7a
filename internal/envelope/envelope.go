// Package envelope implements the two amplitude-envelope shapes a voice can
// use: a classic linear attack/sustain/release, and an ordered multi-point
// envelope with per-segment curve shapes and optional looping.
package envelope

import "github.com/polyvoice/engine/internal/param"

// Stage names where a LinearASR envelope currently is.
type Stage int

const (
	StageAttack Stage = iota
	StageSustain
	StageRelease
	StageDone
)

// LinearASR is a linear attack -> peak -> sustain-hold -> release envelope,
// triggered once and optionally released early by NoteOff.
type LinearASR struct {
	attackTime, attackPeak    float32
	sustainTime, sustainLevel float32
	releaseTime               float32

	sampleRate float32
	stage      Stage
	elapsed    float32
	level      float32
	released   bool

	releaseStartLevel float32
}

func NewLinearASR(sampleRate float32) *LinearASR {
	return &LinearASR{
		attackTime: 0.01, attackPeak: 1.0,
		sustainTime: 0.1, sustainLevel: 1.0,
		releaseTime: 0.1,
		sampleRate:  sampleRate,
	}
}

func (e *LinearASR) SetParameter(par param.Label, val param.Value) {
	switch par {
	case param.AttackTime:
		e.attackTime = val.Scalar
	case param.AttackPeakLevel:
		e.attackPeak = val.Scalar
	case param.SustainTime:
		e.sustainTime = val.Scalar
	case param.SustainLevel:
		e.sustainLevel = val.Scalar
	case param.ReleaseTime:
		e.releaseTime = val.Scalar
	}
}

// NoteOff, if called before the sustain phase naturally elapses, cuts
// straight to release from the envelope's current level.
func (e *LinearASR) NoteOff() {
	if e.stage != StageDone && e.stage != StageRelease {
		e.stage = StageRelease
		e.elapsed = 0
		e.released = true
		e.releaseStartLevel = e.level
	}
}

func (e *LinearASR) IsFinished() bool { return e.stage == StageDone }

func (e *LinearASR) Next() float32 {
	dt := 1.0 / e.sampleRate
	switch e.stage {
	case StageAttack:
		if e.attackTime <= 0 {
			e.level = e.attackPeak
		} else {
			e.level = e.attackPeak * (e.elapsed / e.attackTime)
		}
		e.elapsed += dt
		if e.elapsed >= e.attackTime {
			e.stage = StageSustain
			e.elapsed = 0
			e.level = e.attackPeak
		}
	case StageSustain:
		t := float32(0)
		if e.sustainTime > 0 {
			t = e.elapsed / e.sustainTime
		}
		e.level = e.attackPeak + (e.sustainLevel-e.attackPeak)*min1(t)
		e.elapsed += dt
		if e.elapsed >= e.sustainTime && !e.released {
			e.stage = StageRelease
			e.elapsed = 0
			e.releaseStartLevel = e.level
		}
	case StageRelease:
		e.elapsed += dt
		if e.releaseTime <= 0 {
			e.level = 0
		} else {
			t := min1(e.elapsed / e.releaseTime)
			e.level = e.releaseStartLevel * (1 - t)
		}
		if e.elapsed >= e.releaseTime {
			e.stage = StageDone
			e.level = 0
		}
	}
	return e.level
}

func min1(v float32) float32 {
	if v > 1 {
		return 1
	}
	return v
}

// MultiPoint wraps param.MultiPoint as a voice-facing amplitude envelope.
type MultiPoint struct {
	mp *param.MultiPoint
}

func NewMultiPoint(v param.Value, sampleRate float32) *MultiPoint {
	return &MultiPoint{mp: param.NewMultiPoint(v, sampleRate)}
}

func (m *MultiPoint) Next() float32    { return m.mp.Next() }
func (m *MultiPoint) IsFinished() bool { return m.mp.Finished() }

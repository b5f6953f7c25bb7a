// Package pan implements equal-power panning, ported from
// building_blocks/routing/pan_chan.rs: a continuous position in [0, NCHAN)
// is split across its two neighboring channels with cos/sin weights so the
// total radiated power stays constant as a voice moves between speakers.
package pan

import (
	"math"

	"github.com/polyvoice/engine/internal/param"
)

// Chan pans a mono signal across an arbitrary number of channels.
type Chan struct {
	nchan  int
	levels []float32 // per-channel constant level, recomputed on SetParameter
	pos    float32
	posMod *param.Modulator
}

func NewChan(nchan int) *Chan {
	c := &Chan{nchan: nchan, levels: make([]float32, nchan)}
	c.levels[0] = 1.0 // starts fully on channel 0, matching PanChan::new
	return c
}

func (c *Chan) recalcLevels(pos float32) {
	for i := range c.levels {
		c.levels[i] = 0
	}
	lower := int(math.Floor(float64(pos)))
	angle := float64(pos-float32(lower)) * math.Pi * 0.5
	upper := lower + 1
	c.levels[mod(lower, c.nchan)] = float32(math.Cos(angle))
	c.levels[mod(upper, c.nchan)] = float32(math.Sin(angle))
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func (c *Chan) SetParameter(par param.Label, val param.Value) {
	if par == param.ChannelPosition {
		c.pos = val.Scalar
		c.recalcLevels(c.pos)
	}
}

func (c *Chan) SetModulator(par param.Label, init float32, mod param.Modulator) {
	if par == param.ChannelPosition {
		c.pos = init
		c.posMod = &mod
	}
}

// ProcessBlock fans a mono block out to nchan output channels. out must
// have c.nchan rows, each len(in) long.
func (c *Chan) ProcessBlock(in []float32, out [][]float32, startSample int) {
	if c.posMod == nil {
		for ch := 0; ch < c.nchan; ch++ {
			lvl := c.levels[ch]
			if lvl == 0 {
				continue
			}
			for i := startSample; i < len(in); i++ {
				out[ch][i] += in[i] * lvl
			}
		}
		return
	}
	posBuf := c.posMod.Process(c.pos, len(in)-startSample)
	for i := startSample; i < len(in); i++ {
		c.recalcLevels(posBuf[i-startSample])
		for ch := 0; ch < c.nchan; ch++ {
			out[ch][i] += in[i] * c.levels[ch]
		}
	}
}

// Bal is the two-channel (stereo) balance-only special case.
type Bal struct {
	bal    float32
	balMod *param.Modulator
}

func NewBal() *Bal { return &Bal{} }

func (b *Bal) SetParameter(par param.Label, val param.Value) {
	if par == param.ChannelPosition {
		b.bal = val.Scalar
	}
}

func (b *Bal) SetModulator(par param.Label, init float32, mod param.Modulator) {
	if par == param.ChannelPosition {
		b.bal = init
		b.balMod = &mod
	}
}

func balLevels(bal float32) (l, r float32) {
	angle := float64((bal + 1) * 0.25 * math.Pi)
	return float32(math.Cos(angle)), float32(math.Sin(angle))
}

func (b *Bal) ProcessBlock(in []float32, outL, outR []float32, startSample int) {
	if b.balMod == nil {
		l, r := balLevels(b.bal)
		for i := startSample; i < len(in); i++ {
			outL[i] += in[i] * l
			outR[i] += in[i] * r
		}
		return
	}
	buf := b.balMod.Process(b.bal, len(in)-startSample)
	for i := startSample; i < len(in); i++ {
		l, r := balLevels(buf[i-startSample])
		outL[i] += in[i] * l
		outR[i] += in[i] * r
	}
}

// Command polyvoicedemo is a minimal host: it initializes the engine,
// triggers a few voices through the top-level polyvoice facade, and plays
// the result through ebiten's audio output. It exists to exercise the
// ambient audio-driver stack end to end; the engine itself has no
// dependency on it.
package main

import (
	"fmt"
	"os"
	"time"

	polyvoice "github.com/polyvoice/engine"
	internalaudio "github.com/polyvoice/engine/internal/audio"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "polyvoicedemo:", err)
		os.Exit(1)
	}
}

func run() error {
	ctl, ph := polyvoice.Init(
		polyvoice.WithChannels(2),
		polyvoice.WithSampleRate(44100),
		polyvoice.WithBlockSize(512),
	)

	player, err := internalaudio.NewPlayer(44100, internalaudio.NewPlayheadSource(ph, 512))
	if err != nil {
		return fmt.Errorf("open audio player: %w", err)
	}
	player.Play()

	now := ctl.Now()
	freqs := []float32{220, 277.18, 329.63, 440}
	for i, f := range freqs {
		inst := polyvoice.TriggerOscillator(ctl, now+float64(i)*0.5, polyvoice.SynthSine, f, 0.2)
		inst.SetReverbLevel(0.3)
	}
	bell := polyvoice.TriggerRissetBell(ctl, now+2.5, 440)
	bell.SetReverbLevel(0.5)

	time.Sleep(6 * time.Second)
	return player.Stop()
}

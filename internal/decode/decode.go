// Package decode is the Controls-side convenience loader that turns an
// on-disk audio file into the guard-padded float32 PCM internal/capture
// expects, keeping the actual decode libraries out of the CORE render path
// entirely (spec.md §1 excludes sample decoding from CORE; this package is
// the ambient/domain-stack component that makes LoadSample usable from a
// file path rather than requiring the host to decode audio itself).
//
// Grounded on other_examples (ik5/audpbx's go.mod), the one pack file that
// wires real audio-file decoders.
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Result is decoded mono or stereo PCM ready for guard-padding and handing
// to Controls.LoadSample.
type Result struct {
	Channels   int
	SampleRate int
	Samples    [][]float32 // one slice per channel
}

// File decodes path based on its extension. Unsupported extensions return
// an error rather than guessing — this is a Controls-side, construction-
// time call, so a returned error is appropriate (see SPEC_FULL.md §3's
// error-handling split).
func File(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg":
		return decodeOGG(f)
	default:
		return nil, fmt.Errorf("decode: unsupported file extension for %s", path)
	}
}

func decodeWAV(f *os.File) (*Result, error) {
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("decode: not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode: read wav: %w", err)
	}
	nchan := buf.Format.NumChannels
	res := &Result{Channels: nchan, SampleRate: buf.Format.SampleRate, Samples: make([][]float32, nchan)}
	for c := 0; c < nchan; c++ {
		res.Samples[c] = make([]float32, 0, len(buf.Data)/nchan)
	}
	maxVal := float32(int(1) << uint(buf.SourceBitDepth-1))
	for i, s := range buf.Data {
		c := i % nchan
		res.Samples[c] = append(res.Samples[c], float32(s)/maxVal)
	}
	return res, nil
}

func decodeMP3(f *os.File) (*Result, error) {
	d, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decode: mp3: %w", err)
	}
	const nchan = 2
	res := &Result{Channels: nchan, SampleRate: d.SampleRate(), Samples: make([][]float32, nchan)}
	buf := make([]byte, 4096)
	for {
		n, err := d.Read(buf)
		for i := 0; i+3 < n; i += 4 {
			l := int16(buf[i]) | int16(buf[i+1])<<8
			r := int16(buf[i+2]) | int16(buf[i+3])<<8
			res.Samples[0] = append(res.Samples[0], float32(l)/32768.0)
			res.Samples[1] = append(res.Samples[1], float32(r)/32768.0)
		}
		if err != nil {
			break
		}
	}
	return res, nil
}

func decodeOGG(f *os.File) (*Result, error) {
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decode: ogg: %w", err)
	}
	nchan := r.Channels()
	res := &Result{Channels: nchan, SampleRate: r.SampleRate(), Samples: make([][]float32, nchan)}
	buf := make([]float32, 4096*nchan)
	for {
		n, err := r.Read(buf)
		for i := 0; i+nchan-1 < n; i += nchan {
			for c := 0; c < nchan; c++ {
				res.Samples[c] = append(res.Samples[c], buf[i+c])
			}
		}
		if err != nil {
			break
		}
	}
	return res, nil
}

// GuardPad wraps a single channel's n samples into an n+3 buffer: two zero
// slots at the head, the samples at indices 2..n+1, and one tail slot
// holding a copy of the first sample. This is the layout
// internal/sampler.Mono reads.
func GuardPad(samples []float32) (padded []float32, length int) {
	n := len(samples)
	padded = make([]float32, n+3)
	copy(padded[2:], samples)
	padded[1] = 0
	padded[0] = 0
	if n > 0 {
		padded[n+2] = samples[0]
	}
	return padded, n
}

package ui

import (
	"encoding/binary"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/emu"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/timing"
)

// apuStream implements io.Reader by pulling mono PCM samples from the audio
// engine and converting them to 16-bit little-endian stereo frames.
type apuStream struct {
	m     *emu.Machine
	muted *bool
}

func (s *apuStream) Read(p []byte) (int, error) {
	if len(p) == 0 || s == nil || s.m == nil {
		return 0, nil
	}
	// A stereo frame is 4 bytes; never return a partial one.
	if len(p) < 4 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	if s.muted != nil && *s.muted {
		s.m.ClearAudio()
		for i := range p {
			p[i] = 0
		}
		time.Sleep(5 * time.Millisecond)
		return len(p), nil
	}

	samples := s.m.Samples()
	if len(samples) == 0 {
		// Nothing buffered yet: emit a small silence chunk instead of stalling.
		n := 256 * 4
		if n > len(p) {
			n = len(p) / 4 * 4
		}
		for i := 0; i < n; i++ {
			p[i] = 0
		}
		return n, nil
	}

	want := len(p) / 4
	if want > len(samples) {
		want = len(samples)
	}
	for i := 0; i < want; i++ {
		v := uint16(samples[i])
		binary.LittleEndian.PutUint16(p[i*4:], v)
		binary.LittleEndian.PutUint16(p[i*4+2:], v)
	}
	s.m.ClearAudio()
	return want * 4, nil
}

func (a *App) startAudio() error {
	ctx := audio.NewContext(timing.DMG.SampleRate)
	player, err := ctx.NewPlayer(&apuStream{m: a.m, muted: &a.muted})
	if err != nil {
		return err
	}
	player.SetBufferSize(40 * time.Millisecond)
	player.Play()
	return nil
}

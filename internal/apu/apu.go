package apu

import (
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/timing"
)

// BufferSize is the capacity of the output sample ring.
const BufferSize = 1024

// frame sequencer rate for length/envelope clocking, in Hz
const frameSequencerHz = 512

// APU synthesizes four channels and downsamples them from the master clock
// to the output sample rate. Advance it exactly once per clock cycle with
// Tick; one mono int16 sample lands in the ring every
// ClockHz/SampleRate cycles.
type APU struct {
	cfg timing.Config

	enabled      bool
	masterVolume byte

	sampleCounter int // fractional downsampling accumulator

	fsCounter int // cycles until next frame sequencer step
	fsStep    int // 0..7

	buf [BufferSize]int16
	pos int

	ch1 Square
	ch2 Square
	ch3 Wave
	ch4 Noise
}

func New(cfg timing.Config) *APU {
	a := &APU{
		cfg:          cfg,
		enabled:      true,
		masterVolume: 0x77,
		fsCounter:    cfg.ClockHz / frameSequencerHz,
	}
	a.ch4.lfsr = 0x7FFF
	return a
}

// Tick advances the engine by one clock cycle.
func (a *APU) Tick() {
	if a.enabled {
		// frame sequencer @ 512 Hz: length on even steps, envelope on step 7
		a.fsCounter--
		if a.fsCounter <= 0 {
			a.fsCounter += a.cfg.ClockHz / frameSequencerHz
			a.fsStep = (a.fsStep + 1) & 7
			if a.fsStep%2 == 0 {
				a.clockLength()
			}
			if a.fsStep == 7 {
				a.clockEnvelope()
			}
		}
	}
	// Downsample: accumulate the output rate against the clock rate.
	a.sampleCounter += a.cfg.SampleRate
	if a.sampleCounter >= a.cfg.ClockHz {
		a.sampleCounter -= a.cfg.ClockHz
		a.generateSample()
	}
}

func (a *APU) generateSample() {
	if !a.enabled {
		a.push(0)
		return
	}
	var sample int32
	if a.ch1.enabled {
		sample += int32(a.ch1.sample())
	}
	if a.ch2.enabled {
		sample += int32(a.ch2.sample())
	}
	if a.ch3.enabled {
		sample += int32(a.ch3.sample())
	}
	if a.ch4.enabled {
		sample += int32(a.ch4.sample())
	}
	sample = sample * int32(a.masterVolume) / 4
	if sample > 32767 {
		sample = 32767
	} else if sample < -32768 {
		sample = -32768
	}
	a.push(int16(sample))
}

func (a *APU) push(s int16) {
	a.buf[a.pos] = s
	a.pos = (a.pos + 1) % BufferSize
}

// Samples returns the portion of the ring filled since the last clear. The
// position wraps at capacity; consumers are expected to drain at the frame
// boundary.
func (a *APU) Samples() []int16 { return a.buf[:a.pos] }

// ClearBuffer resets the buffer position. This is the only way the position
// returns to zero other than wrapping.
func (a *APU) ClearBuffer() { a.pos = 0 }

// SetEnabled switches global sound on or off. While off, emitted samples are
// silence and the frame sequencer does not run.
func (a *APU) SetEnabled(on bool) { a.enabled = on }

// Enabled reports whether sound is globally enabled.
func (a *APU) Enabled() bool { return a.enabled }

// SetMasterVolume sets the output scaling byte (sample sum * volume / 4).
func (a *APU) SetMasterVolume(v byte) { a.masterVolume = v }

// Channel accessors for configuration by the orchestrator.
func (a *APU) Channel1() *Square { return &a.ch1 }
func (a *APU) Channel2() *Square { return &a.ch2 }
func (a *APU) Channel3() *Wave   { return &a.ch3 }
func (a *APU) Channel4() *Noise  { return &a.ch4 }

func (a *APU) clockLength() {
	a.ch1.clockLength()
	a.ch2.clockLength()
	a.ch3.clockLength()
	a.ch4.clockLength()
}

func (a *APU) clockEnvelope() {
	a.ch1.env.clock()
	a.ch2.env.clock()
	a.ch4.env.clock()
}

// envelope is the shared volume envelope of the square and noise channels.
type envelope struct {
	vol    byte // initial volume 0..15
	up     bool
	period byte // 0 disables
	timer  byte
	curVol byte
}

func (e *envelope) set(vol byte, up bool, period byte) {
	e.vol = vol & 0x0F
	e.up = up
	e.period = period & 0x07
	e.curVol = e.vol
	e.timer = e.period
}

func (e *envelope) clock() {
	if e.period == 0 {
		return
	}
	if e.timer > 0 {
		e.timer--
	}
	if e.timer == 0 {
		e.timer = e.period
		if e.up && e.curVol < 15 {
			e.curVol++
		} else if !e.up && e.curVol > 0 {
			e.curVol--
		}
	}
}

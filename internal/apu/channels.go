package apu

// dutyPatterns are the four fixed 8-bit square wave patterns
// (12.5%, 25%, 50%, 75%).
var dutyPatterns = [4]byte{
	0b00000001,
	0b10000001,
	0b10000111,
	0b01111110,
}

// Square is a pulse channel with duty, envelope, and length counter. The
// phase accumulator steps by frequency*8 per emitted sample; the pattern bit
// is read at (phase>>16)&7.
type Square struct {
	enabled bool
	freq    uint16
	duty    byte // 0..3
	env     envelope
	length  int
	lenEn   bool

	phase uint32
}

func (c *Square) SetFrequency(f uint16) { c.freq = f & 0x7FF }
func (c *Square) SetDuty(d byte)        { c.duty = d & 0x03 }

// SetEnvelope configures initial volume, direction, and period. The current
// volume restarts at the initial volume.
func (c *Square) SetEnvelope(vol byte, up bool, period byte) { c.env.set(vol, up, period) }

// SetLength loads the length counter (64-n) and its enable.
func (c *Square) SetLength(n byte, enabled bool) {
	c.length = 64 - int(n&0x3F)
	c.lenEn = enabled
}

// Trigger starts the channel: phase reset, envelope restarted.
func (c *Square) Trigger() {
	c.enabled = true
	if c.length == 0 {
		c.length = 64
	}
	c.phase = 0
	c.env.curVol = c.env.vol
	c.env.timer = c.env.period
}

func (c *Square) Enabled() bool { return c.enabled }
func (c *Square) Disable()      { c.enabled = false }
func (c *Square) Volume() byte  { return c.env.curVol }

func (c *Square) clockLength() {
	if c.lenEn && c.length > 0 {
		c.length--
		if c.length <= 0 {
			c.enabled = false
		}
	}
}

func (c *Square) sample() int16 {
	if c.env.curVol == 0 {
		return 0
	}
	pattern := dutyPatterns[c.duty]
	bitIndex := (c.phase >> 16) & 7
	var amp int16 = -1
	if (pattern>>bitIndex)&1 != 0 {
		amp = 1
	}
	c.phase += uint32(c.freq) * 8
	return amp * int16(c.env.curVol) * 512
}

// Wave plays back a 32-entry sample table, advancing one entry per emitted
// sample and wrapping.
type Wave struct {
	enabled bool
	freq    uint16
	volume  byte
	length  int
	lenEn   bool
	table   [32]byte

	pos int
}

func (c *Wave) SetFrequency(f uint16) { c.freq = f & 0x7FF }
func (c *Wave) SetVolume(v byte)      { c.volume = v }

func (c *Wave) SetLength(n byte, enabled bool) {
	c.length = 256 - int(n)
	c.lenEn = enabled
}

// SetTable replaces the wavetable; extra input bytes are ignored.
func (c *Wave) SetTable(samples []byte) {
	copy(c.table[:], samples)
}

// SetSample sets one wavetable entry.
func (c *Wave) SetSample(i int, v byte) {
	c.table[i&31] = v
}

func (c *Wave) Trigger() {
	c.enabled = true
	if c.length == 0 {
		c.length = 256
	}
	c.pos = 0
}

func (c *Wave) Enabled() bool { return c.enabled }
func (c *Wave) Disable()      { c.enabled = false }

func (c *Wave) clockLength() {
	if c.lenEn && c.length > 0 {
		c.length--
		if c.length <= 0 {
			c.enabled = false
		}
	}
}

func (c *Wave) sample() int16 {
	if c.volume == 0 {
		return 0
	}
	s := int16(c.table[c.pos])
	c.pos = (c.pos + 1) % len(c.table)
	return s * 256
}

// Noise generates pseudo-random output from a 15-bit linear-feedback shift
// register seeded to 0x7FFF. Each emission XORs bits 0 and 1, shifts right,
// and inserts the new bit at position 14 (mirrored into bit 6 in short
// mode). The output sign follows the register's low bit.
type Noise struct {
	enabled bool
	env     envelope
	length  int
	lenEn   bool
	short   bool // 7-bit mode

	lfsr uint16
}

func (c *Noise) SetEnvelope(vol byte, up bool, period byte) { c.env.set(vol, up, period) }

func (c *Noise) SetLength(n byte, enabled bool) {
	c.length = 64 - int(n&0x3F)
	c.lenEn = enabled
}

// SetShortMode selects the 7-bit register width.
func (c *Noise) SetShortMode(short bool) { c.short = short }

func (c *Noise) Trigger() {
	c.enabled = true
	if c.length == 0 {
		c.length = 64
	}
	c.lfsr = 0x7FFF
	c.env.curVol = c.env.vol
	c.env.timer = c.env.period
}

func (c *Noise) Enabled() bool { return c.enabled }
func (c *Noise) Disable()      { c.enabled = false }

// LFSR returns the current shift register value.
func (c *Noise) LFSR() uint16 { return c.lfsr }

func (c *Noise) clockLength() {
	if c.lenEn && c.length > 0 {
		c.length--
		if c.length <= 0 {
			c.enabled = false
		}
	}
}

func (c *Noise) sample() int16 {
	if c.env.curVol == 0 {
		return 0
	}
	var amp int16 = -1
	if c.lfsr&1 == 0 {
		amp = 1
	}
	newBit := (c.lfsr ^ (c.lfsr >> 1)) & 1
	c.lfsr >>= 1
	c.lfsr |= newBit << 14
	if c.short {
		c.lfsr = (c.lfsr &^ (1 << 6)) | (newBit << 6)
	}
	return amp * int16(c.env.curVol) * 512
}

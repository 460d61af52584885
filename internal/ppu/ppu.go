package ppu

import (
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/timing"
)

// LCD dimensions.
const (
	Width  = 160
	Height = 144
)

// Mode is the video engine's current rendering phase. Values match the mode
// bits of the STAT register.
type Mode byte

const (
	ModeHBlank      Mode = 0
	ModeVBlank      Mode = 1
	ModeScanObjects Mode = 2
	ModeDraw        Mode = 3
)

// VideoMemory is the narrow scan-out interface the PPU renders from. The
// address space owns the backing stores; addresses are CPU addresses.
type VideoMemory interface {
	ReadVRAM(addr uint16) byte
	ReadOAM(addr uint16) byte
}

// PPU cycles through the four rendering modes at fixed cycle budgets and
// rasterizes one scanline into the frame buffer at each Draw->HBlank
// transition. Advance it exactly once per clock cycle with Tick.
type PPU struct {
	cfg timing.Config
	mem VideoMemory

	mode   Mode
	line   int // 0..TotalLines-1
	cycles int // within current mode (VBlank: within current line)

	frame     [Width * Height]byte // shade indices 0..3, 0 lightest
	frameDone bool
	winLine   int // window-internal line counter

	// registers
	lcdc byte // FF40
	stat byte // FF41 (mode bits 0-1, coincidence bit 2, enables bits 3-6)
	scy  byte // FF42
	scx  byte // FF43
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B
}

// New returns a PPU in the post-boot state: LCD and background enabled,
// default palettes, scanline 0, ScanObjects mode.
func New(cfg timing.Config, mem VideoMemory) *PPU {
	p := &PPU{
		cfg:  cfg,
		mem:  mem,
		lcdc: 0x91,
		bgp:  0xFC,
		obp0: 0xFF,
		obp1: 0xFF,
	}
	p.setMode(ModeScanObjects)
	return p
}

// Tick advances the engine by one clock cycle.
func (p *PPU) Tick() {
	p.cycles++
	switch p.mode {
	case ModeScanObjects:
		if p.cycles >= p.cfg.ScanObjectsCycles {
			p.cycles = 0
			p.setMode(ModeDraw)
		}
	case ModeDraw:
		if p.cycles >= p.cfg.DrawCycles {
			p.cycles = 0
			p.renderScanline()
			p.setMode(ModeHBlank)
		}
	case ModeHBlank:
		if p.cycles >= p.cfg.HBlankCycles {
			p.cycles = 0
			p.line++
			if p.line >= p.cfg.VisibleLines {
				p.setMode(ModeVBlank)
			} else {
				p.setMode(ModeScanObjects)
			}
			p.updateLYC()
		}
	case ModeVBlank:
		if p.cycles >= p.cfg.CyclesPerLine {
			p.cycles = 0
			p.line++
			if p.line >= p.cfg.TotalLines() {
				p.line = 0
				p.winLine = 0
				p.frameDone = true
				p.setMode(ModeScanObjects)
			}
			p.updateLYC()
		}
	}
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	p.stat = (p.stat &^ 0x03) | byte(mode&0x03)
}

func (p *PPU) updateLYC() {
	if byte(p.line) == p.lyc {
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}
}

// IsVBlank reports whether the engine is in the vertical blanking period.
func (p *PPU) IsVBlank() bool { return p.mode == ModeVBlank }

// Mode returns the current rendering mode.
func (p *PPU) Mode() Mode { return p.mode }

// Line returns the current scanline (0..153).
func (p *PPU) Line() int { return p.line }

// FrameComplete reports whether a full frame has finished since the last
// call, and clears the flag.
func (p *PPU) FrameComplete() bool {
	done := p.frameDone
	p.frameDone = false
	return done
}

// Framebuffer returns the 160x144 row-major shade indices (0..3, 0
// lightest). The buffer is only consistent between full scanlines.
func (p *PPU) Framebuffer() []byte { return p.frame[:] }

// ReadRegister returns a PPU register byte for FF40–FF4B; other addresses
// read 0xFF.
func (p *PPU) ReadRegister(addr uint16) byte {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		// Bit 7 reads as 1
		return 0x80 | (p.stat & 0x7F)
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return byte(p.line)
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// WriteRegister stores a PPU register byte for FF40–FF4B; other addresses
// are ignored. LY (FF44) is read-only; writing it resets the line counter.
func (p *PPU) WriteRegister(addr uint16, value byte) {
	switch addr {
	case 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if (p.lcdc&0x80) == 0 && (prev&0x80) != 0 {
			// Turning the LCD off resets line and mode
			p.line = 0
			p.cycles = 0
			p.winLine = 0
			p.setMode(ModeHBlank)
			p.updateLYC()
		} else if (p.lcdc&0x80) != 0 && (prev&0x80) == 0 {
			p.line = 0
			p.cycles = 0
			p.winLine = 0
			p.setMode(ModeScanObjects)
			p.updateLYC()
		}
	case 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		p.line = 0
		p.cycles = 0
		p.winLine = 0
		p.updateLYC()
	case 0xFF45:
		p.lyc = value
		p.updateLYC()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

package ppu

import (
	"testing"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/timing"
)

// mockMem is a sparse video memory keyed by CPU address.
type mockMem map[uint16]byte

func (m mockMem) ReadVRAM(addr uint16) byte { return m[addr] }
func (m mockMem) ReadOAM(addr uint16) byte  { return m[addr] }

func tick(p *PPU, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func TestModeSequenceOneLine(t *testing.T) {
	cfg := timing.DMG
	p := New(cfg, mockMem{})

	if p.Mode() != ModeScanObjects {
		t.Fatalf("initial mode got %d want ScanObjects", p.Mode())
	}
	tick(p, cfg.ScanObjectsCycles)
	if p.Mode() != ModeDraw {
		t.Fatalf("after scan, mode got %d want Draw", p.Mode())
	}
	tick(p, cfg.DrawCycles)
	if p.Mode() != ModeHBlank {
		t.Fatalf("after draw, mode got %d want HBlank", p.Mode())
	}
	tick(p, cfg.HBlankCycles)
	if p.Mode() != ModeScanObjects || p.Line() != 1 {
		t.Fatalf("after hblank: mode=%d line=%d, want ScanObjects line 1", p.Mode(), p.Line())
	}

	if sum := cfg.ScanObjectsCycles + cfg.DrawCycles + cfg.HBlankCycles; sum != cfg.CyclesPerLine {
		t.Fatalf("mode budgets sum to %d, want %d", sum, cfg.CyclesPerLine)
	}
}

func TestVBlankEntryAndFrameWrap(t *testing.T) {
	cfg := timing.DMG
	p := New(cfg, mockMem{})

	tick(p, cfg.VisibleLines*cfg.CyclesPerLine)
	if !p.IsVBlank() || p.Line() != cfg.VisibleLines {
		t.Fatalf("after visible lines: vblank=%v line=%d", p.IsVBlank(), p.Line())
	}

	tick(p, cfg.BlankLines*cfg.CyclesPerLine)
	if p.Line() != 0 || p.Mode() != ModeScanObjects {
		t.Fatalf("after frame: line=%d mode=%d, want 0/ScanObjects", p.Line(), p.Mode())
	}
	if !p.FrameComplete() {
		t.Fatalf("FrameComplete not signaled at frame wrap")
	}
	if p.FrameComplete() {
		t.Fatalf("FrameComplete must clear after being read")
	}
}

func TestFrameCycleCount(t *testing.T) {
	cfg := timing.DMG
	if got := cfg.FrameCycles(); got != 70224 {
		t.Fatalf("FrameCycles got %d want 70224", got)
	}
	p := New(cfg, mockMem{})
	tick(p, cfg.FrameCycles())
	if !p.FrameComplete() {
		t.Fatalf("one frame of cycles did not complete a frame")
	}
}

func TestLYRegisterTracksLine(t *testing.T) {
	cfg := timing.DMG
	p := New(cfg, mockMem{})
	tick(p, 3*cfg.CyclesPerLine)
	if got := p.ReadRegister(0xFF44); got != 3 {
		t.Fatalf("LY got %d want 3", got)
	}
	// Writing LY resets the line counter.
	p.WriteRegister(0xFF44, 0x57)
	if got := p.ReadRegister(0xFF44); got != 0 {
		t.Fatalf("LY after write got %d want 0", got)
	}
}

func TestLYCCoincidence(t *testing.T) {
	cfg := timing.DMG
	p := New(cfg, mockMem{})
	p.WriteRegister(0xFF45, 2)
	tick(p, cfg.CyclesPerLine)
	if p.ReadRegister(0xFF41)&(1<<2) != 0 {
		t.Fatalf("coincidence set at line 1 with LYC=2")
	}
	tick(p, cfg.CyclesPerLine)
	if p.ReadRegister(0xFF41)&(1<<2) == 0 {
		t.Fatalf("coincidence not set at line 2 with LYC=2")
	}
}

func TestSTATWriteMask(t *testing.T) {
	p := New(timing.DMG, mockMem{})
	p.WriteRegister(0xFF41, 0xFF)
	got := p.ReadRegister(0xFF41)
	if got&0x80 == 0 {
		t.Fatalf("STAT bit 7 must read 1: got %02x", got)
	}
	if got&0x78 != 0x78 {
		t.Fatalf("STAT enable bits not stored: got %02x", got)
	}
	if Mode(got&0x03) != p.Mode() {
		t.Fatalf("STAT mode bits diverged: reg=%02x mode=%d", got, p.Mode())
	}
}

func TestLCDOffResetsLineAndMode(t *testing.T) {
	cfg := timing.DMG
	p := New(cfg, mockMem{})
	tick(p, 10*cfg.CyclesPerLine)
	p.WriteRegister(0xFF40, 0x11) // LCD off
	if p.Line() != 0 || p.Mode() != ModeHBlank {
		t.Fatalf("after LCD off: line=%d mode=%d, want 0/HBlank", p.Line(), p.Mode())
	}
	p.WriteRegister(0xFF40, 0x91) // LCD back on
	if p.Line() != 0 || p.Mode() != ModeScanObjects {
		t.Fatalf("after LCD on: line=%d mode=%d, want 0/ScanObjects", p.Line(), p.Mode())
	}
}

func TestRegisterRoundTrip(t *testing.T) {
	p := New(timing.DMG, mockMem{})
	regs := []uint16{0xFF42, 0xFF43, 0xFF45, 0xFF47, 0xFF48, 0xFF49, 0xFF4A, 0xFF4B}
	for i, addr := range regs {
		v := byte(0x10 + i)
		p.WriteRegister(addr, v)
		if got := p.ReadRegister(addr); got != v {
			t.Fatalf("reg %04x got %02x want %02x", addr, got, v)
		}
	}
	if got := p.ReadRegister(0xFF4C); got != 0xFF {
		t.Fatalf("out-of-range register got %02x want FF", got)
	}
}

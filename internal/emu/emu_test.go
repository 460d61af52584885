package emu

import (
	"strings"
	"testing"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/cart"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/ppu"
)

func testROM(cartType byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], "EMUTEST")
	rom[0x0147] = cartType
	rom[0x0149] = 0x02 // 8KB RAM
	rom[0x014D] = cart.ComputeHeaderChecksum(rom)
	return rom
}

func TestLoadAndInfo(t *testing.T) {
	m := New(DefaultConfig())
	if _, err := m.Info(); err == nil {
		t.Fatalf("Info before load must fail")
	}
	if err := m.LoadCartridge(testROM(0x00)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	info, err := m.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if !strings.Contains(info, "EMUTEST") {
		t.Fatalf("Info missing title: %q", info)
	}
}

func TestStepFrameAdvancesBothEngines(t *testing.T) {
	m := New(DefaultConfig())
	if err := m.LoadCartridge(testROM(0x00)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	m.StepFrame()
	if !m.PPU().FrameComplete() {
		t.Fatalf("one frame of cycles did not complete a video frame")
	}
	cfg := DefaultConfig().Timing
	want := cfg.FrameCycles() * cfg.SampleRate / cfg.ClockHz
	if got := len(m.Samples()); got != want {
		t.Fatalf("audio samples per frame got %d want %d", got, want)
	}
	m.ClearAudio()
	if len(m.Samples()) != 0 {
		t.Fatalf("ClearAudio did not drain the buffer")
	}
}

func TestRegisterRouting(t *testing.T) {
	m := New(DefaultConfig())
	m.Write(0xFF42, 0x12) // SCY lands in the video engine
	if got := m.PPU().ReadRegister(0xFF42); got != 0x12 {
		t.Fatalf("SCY via machine write got %02x want 12", got)
	}
	if got := m.Read(0xFF42); got != 0x12 {
		t.Fatalf("SCY via machine read got %02x want 12", got)
	}
	// Non-PPU I/O still goes through the address space.
	m.Write(0xFF01, 0x34)
	if got := m.MMU().Read(0xFF01); got != 0x34 {
		t.Fatalf("serial data got %02x want 34", got)
	}
}

func TestFramebufferRGBA(t *testing.T) {
	m := New(DefaultConfig())
	if err := m.LoadCartridge(testROM(0x00)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	m.StepFrame()
	pix := m.FramebufferRGBA(nil)
	if len(pix) != ppu.Width*ppu.Height*4 {
		t.Fatalf("RGBA length got %d want %d", len(pix), ppu.Width*ppu.Height*4)
	}
	// Blank VRAM renders shade 0: white, opaque.
	if pix[0] != 0xFF || pix[3] != 0xFF {
		t.Fatalf("first pixel got r=%02x a=%02x want FF/FF", pix[0], pix[3])
	}
	// The destination is reused when it fits.
	again := m.FramebufferRGBA(pix)
	if &again[0] != &pix[0] {
		t.Fatalf("RGBA buffer not reused")
	}
}

func TestBatteryPassthrough(t *testing.T) {
	m := New(DefaultConfig())
	if err := m.LoadCartridge(testROM(0x03)); err != nil { // MBC1+RAM+BAT
		t.Fatalf("LoadCartridge: %v", err)
	}
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x5A)
	data, ok := m.SaveBattery()
	if !ok || data[0] != 0x5A {
		t.Fatalf("SaveBattery: ok=%v first=%02x", ok, data[0])
	}

	m2 := New(DefaultConfig())
	if err := m2.LoadCartridge(testROM(0x03)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	if !m2.LoadBattery(data) {
		t.Fatalf("LoadBattery rejected")
	}
	m2.Write(0x0000, 0x0A)
	if got := m2.Read(0xA000); got != 0x5A {
		t.Fatalf("restored RAM got %02x want 5A", got)
	}
}

func TestBatteryUnsupported(t *testing.T) {
	m := New(DefaultConfig())
	if err := m.LoadCartridge(testROM(0x00)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	if _, ok := m.SaveBattery(); ok {
		t.Fatalf("ROM-only cart reported battery RAM")
	}
}

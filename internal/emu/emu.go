package emu

import (
	"errors"
	"fmt"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/apu"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/cart"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/mmu"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/ppu"
)

// Machine wires the address space, video engine, and audio engine together
// and advances the two periodic peripherals in lockstep. The instruction
// engine is external: it drives Read/Write and decides when cycles elapse.
type Machine struct {
	cfg Config

	mmu *mmu.MMU
	ppu *ppu.PPU
	apu *apu.APU
}

func New(cfg Config) *Machine {
	if cfg.Timing.ClockHz == 0 {
		cfg = DefaultConfig()
	}
	m := &Machine{cfg: cfg}
	m.mmu = mmu.New()
	m.ppu = ppu.New(cfg.Timing, m.mmu)
	m.apu = apu.New(cfg.Timing)
	return m
}

// LoadCartridge parses and installs a ROM image.
func (m *Machine) LoadCartridge(rom []byte) error {
	return m.mmu.LoadImage(rom)
}

// Info returns a header summary of the loaded cartridge.
func (m *Machine) Info() (string, error) {
	c := m.mmu.Cart()
	if c == nil {
		return "", errors.New("no cartridge loaded")
	}
	return c.Header().Info(), nil
}

// Read routes a byte read through the address space. Reads in the PPU
// register window reflect live engine state.
func (m *Machine) Read(addr uint16) byte {
	if addr >= 0xFF40 && addr <= 0xFF4B {
		return m.ppu.ReadRegister(addr)
	}
	return m.mmu.Read(addr)
}

// Write routes a byte write through the address space, fanning PPU register
// writes out to the engine.
func (m *Machine) Write(addr uint16, value byte) {
	if addr >= 0xFF40 && addr <= 0xFF4B {
		m.ppu.WriteRegister(addr, value)
		return
	}
	m.mmu.Write(addr, value)
}

// Tick advances the video and audio engines by one clock cycle.
func (m *Machine) Tick() {
	m.ppu.Tick()
	m.apu.Tick()
}

// StepFrame advances both engines by exactly one frame of cycles.
func (m *Machine) StepFrame() {
	for i := 0; i < m.cfg.Timing.FrameCycles(); i++ {
		m.Tick()
	}
}

// Framebuffer returns the 160x144 shade indices (0..3).
func (m *Machine) Framebuffer() []byte { return m.ppu.Framebuffer() }

// FramebufferRGBA renders the shade indices to an RGBA grayscale buffer for
// display, reusing dst when it has the right size.
func (m *Machine) FramebufferRGBA(dst []byte) []byte {
	fb := m.ppu.Framebuffer()
	if len(dst) != len(fb)*4 {
		dst = make([]byte, len(fb)*4)
	}
	for i, s := range fb {
		g := shadeToGray[s&0x03]
		dst[i*4+0] = g
		dst[i*4+1] = g
		dst[i*4+2] = g
		dst[i*4+3] = 0xFF
	}
	return dst
}

var shadeToGray = [4]byte{0xFF, 0xC0, 0x60, 0x00}

// Samples returns the audio samples produced since the last drain.
func (m *Machine) Samples() []int16 { return m.apu.Samples() }

// ClearAudio drops buffered audio samples.
func (m *Machine) ClearAudio() { m.apu.ClearBuffer() }

// MMU exposes the address space (for an external instruction engine).
func (m *Machine) MMU() *mmu.MMU { return m.mmu }

// PPU exposes the video timing engine.
func (m *Machine) PPU() *ppu.PPU { return m.ppu }

// APU exposes the audio engine.
func (m *Machine) APU() *apu.APU { return m.apu }

// SaveBattery returns a copy of battery-backed cartridge RAM, if any.
func (m *Machine) SaveBattery() ([]byte, bool) {
	bb, ok := m.mmu.Cart().(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	data := bb.SaveRAM()
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

// LoadBattery loads external RAM bytes into the cartridge if supported.
func (m *Machine) LoadBattery(data []byte) bool {
	bb, ok := m.mmu.Cart().(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}

// String implements fmt.Stringer with a short cartridge summary.
func (m *Machine) String() string {
	c := m.mmu.Cart()
	if c == nil {
		return "machine: no cartridge"
	}
	h := c.Header()
	return fmt.Sprintf("machine: %q type=%s banks=%d", h.Title, h.CartTypeStr, h.ROMBanks)
}

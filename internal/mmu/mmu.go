package mmu

import (
	"fmt"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/cart"
)

// Memory map region boundaries.
const (
	romEnd      = 0x7FFF
	vramStart   = 0x8000
	vramEnd     = 0x9FFF
	extRAMStart = 0xA000
	extRAMEnd   = 0xBFFF
	wramStart   = 0xC000
	wramEnd     = 0xDFFF
	echoStart   = 0xE000
	echoEnd     = 0xFDFF
	oamStart    = 0xFE00
	oamEnd      = 0xFE9F
	unusedStart = 0xFEA0
	unusedEnd   = 0xFEFF
	ioStart     = 0xFF00
	ioEnd       = 0xFF7F
	hramStart   = 0xFF80
	hramEnd     = 0xFFFE
	ieRegister  = 0xFFFF
)

// MMU routes every 16-bit address to exactly one backing store or to the
// cartridge controller. Reads and writes are total: unmapped addresses read
// 0xFF and ignore writes, so no access can fail at runtime.
type MMU struct {
	cart cart.Cartridge

	vram [0x2000]byte // 0x8000–0x9FFF
	wram [0x2000]byte // 0xC000–0xDFFF (echoed at 0xE000–0xFDFF)
	oam  [0xA0]byte   // 0xFE00–0xFE9F
	io   [0x80]byte   // 0xFF00–0xFF7F
	hram [0x7F]byte   // 0xFF80–0xFFFE
	ie   byte         // 0xFFFF
}

func New() *MMU {
	return &MMU{}
}

// LoadImage constructs a cartridge controller from the ROM image and hands
// it ownership of the bytes. Fails if the image is shorter than the minimum
// cartridge size or names an unknown controller.
func (m *MMU) LoadImage(data []byte) error {
	c, err := cart.New(data)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	m.cart = c
	return nil
}

// Cart returns the loaded cartridge, or nil before LoadImage.
func (m *MMU) Cart() cart.Cartridge { return m.cart }

// Read returns the byte at addr. Total over the full 16-bit range.
func (m *MMU) Read(addr uint16) byte {
	switch {
	case addr <= romEnd:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.Read(addr)
	case addr <= vramEnd:
		return m.vram[addr-vramStart]
	case addr <= extRAMEnd:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.Read(addr)
	case addr <= wramEnd:
		return m.wram[addr-wramStart]
	case addr <= echoEnd:
		// Echo RAM aliases work RAM storage, not a copy.
		return m.wram[addr-echoStart]
	case addr <= oamEnd:
		return m.oam[addr-oamStart]
	case addr <= unusedEnd:
		return 0xFF
	case addr <= ioEnd:
		return m.io[addr-ioStart]
	case addr <= hramEnd:
		return m.hram[addr-hramStart]
	default: // ieRegister
		return m.ie
	}
}

// Write stores value at addr. ROM-window writes are forwarded to the
// cartridge controller to drive bank selection; unmapped writes are no-ops.
func (m *MMU) Write(addr uint16, value byte) {
	switch {
	case addr <= romEnd:
		if m.cart != nil {
			m.cart.Write(addr, value)
		}
	case addr <= vramEnd:
		m.vram[addr-vramStart] = value
	case addr <= extRAMEnd:
		if m.cart != nil {
			m.cart.Write(addr, value)
		}
	case addr <= wramEnd:
		m.wram[addr-wramStart] = value
	case addr <= echoEnd:
		m.wram[addr-echoStart] = value
	case addr <= oamEnd:
		m.oam[addr-oamStart] = value
	case addr <= unusedEnd:
		// unused hole
	case addr <= ioEnd:
		m.io[addr-ioStart] = value
	case addr <= hramEnd:
		m.hram[addr-hramStart] = value
	default: // ieRegister
		m.ie = value
	}
}

// ReadWord reads a little-endian 16-bit word as two byte reads.
func (m *MMU) ReadWord(addr uint16) uint16 {
	lo := uint16(m.Read(addr))
	hi := uint16(m.Read(addr + 1))
	return hi<<8 | lo
}

// WriteWord writes a little-endian 16-bit word as two byte writes.
func (m *MMU) WriteWord(addr uint16, value uint16) {
	m.Write(addr, byte(value&0xFF))
	m.Write(addr+1, byte(value>>8))
}

// ReadVRAM returns a VRAM byte for scan-out. addr is the CPU address
// (0x8000–0x9FFF); anything else reads 0xFF.
func (m *MMU) ReadVRAM(addr uint16) byte {
	if addr >= vramStart && addr <= vramEnd {
		return m.vram[addr-vramStart]
	}
	return 0xFF
}

// ReadOAM returns a sprite attribute byte for scan-out. addr is the CPU
// address (0xFE00–0xFE9F); anything else reads 0xFF.
func (m *MMU) ReadOAM(addr uint16) byte {
	if addr >= oamStart && addr <= oamEnd {
		return m.oam[addr-oamStart]
	}
	return 0xFF
}

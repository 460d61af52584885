package cart

import (
	"errors"
	"fmt"
)

// ErrInvalidImage is returned when a ROM image is too small to hold the
// header plus the two fixed banks.
var ErrInvalidImage = errors.New("invalid ROM image")

// UnsupportedControllerError is returned when the header names a memory bank
// controller family with no implemented variant.
type UnsupportedControllerError struct {
	Code byte
}

func (e *UnsupportedControllerError) Error() string {
	return fmt.Sprintf("unsupported cartridge controller type %#02x", e.Code)
}

// Cartridge is the interface the address space needs for ROM/RAM banking.
// Addresses are CPU addresses: ROM windows at 0x0000–0x7FFF, external RAM at
// 0xA000–0xBFFF. Reads never mutate banking state; writes into the ROM
// windows target the controller's bank-select registers, not the ROM bytes.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	Header() *Header
}

// BatteryBacked is an optional interface for cartridges whose external RAM
// is persisted. SaveRAM returns a copy of the RAM bytes (nil if none).
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New constructs the controller variant named by the header's type byte.
func New(rom []byte) (Cartridge, error) {
	if len(rom) < minImageSize {
		return nil, fmt.Errorf("cart: image is %d bytes, need at least %d: %w", len(rom), minImageSize, ErrInvalidImage)
	}
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom, h), nil
	case 0x01, 0x02, 0x03: // MBC1 variants (RAM, RAM+BAT are transparent here)
		return NewMBC1(rom, h), nil
	case 0x05, 0x06: // MBC2 variants (built-in 512x4-bit RAM)
		return NewMBC2(rom, h), nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13: // MBC3 variants (RTC registers accepted, not emulated)
		return NewMBC3(rom, h), nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E: // MBC5 variants
		return NewMBC5(rom, h), nil
	default:
		return nil, &UnsupportedControllerError{Code: h.CartType}
	}
}

// maskROMBank clamps a bank index to the banks physically present in the
// image, so a runaway bank select can never index past the ROM.
func maskROMBank(bank int, romLen int) int {
	n := romLen / romBankSize
	if n == 0 {
		return 0
	}
	return bank % n
}

// maskRAMBank clamps a RAM bank index to the allocated RAM.
func maskRAMBank(bank int, ramLen int) int {
	n := ramLen / ramBankSize
	if n == 0 {
		return 0
	}
	return bank % n
}

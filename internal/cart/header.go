package cart

import (
	"encoding/binary"
	"fmt"
	"log"
	"strings"
)

const (
	headerEnd = 0x014F

	romBankSize = 0x4000
	ramBankSize = 0x2000

	// minImageSize is one header plus the two fixed 16KB banks.
	minImageSize = 0x8000
)

type Header struct {
	Title          string // 0x0134–0x0143 (trimmed ASCII)
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Destination    byte   // 0x014A
	OldLicensee    byte   // 0x014B
	ROMVersion     byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F (big-endian)

	// Decoded helpers (for logs)
	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
}

// ParseHeader extracts the cartridge header from the fixed offsets of the
// image. A checksum mismatch is logged but never rejected: real cartridges
// with unusual checksums exist.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("parse header: %w", ErrInvalidImage)
	}

	// Title region is 0x0134–0x0143, NUL-terminated.
	rawTitle := rom[0x0134:0x0144]
	title := strings.TrimRight(string(rawTitle), "\x00")
	if i := strings.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	h := &Header{
		Title:          title,
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}

	h.ROMSizeBytes, h.ROMBanks = decodeROMSize(h.ROMSizeCode)
	h.RAMSizeBytes = decodeRAMSize(h.RAMSizeCode)
	h.CartTypeStr = cartTypeString(h.CartType)

	if got := ComputeHeaderChecksum(rom); got != h.HeaderChecksum {
		log.Printf("cart: header checksum mismatch: header says %#02x, computed %#02x", h.HeaderChecksum, got)
	}

	return h, nil
}

// ComputeHeaderChecksum recomputes the checksum over 0x0134–0x014C as
// wrapping sum = sum - b - 1 per byte.
func ComputeHeaderChecksum(rom []byte) byte {
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum
}

// HeaderChecksumOK reports whether the stored header checksum matches the
// recomputed one.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	return ComputeHeaderChecksum(rom) == rom[0x014D]
}

// Info returns a human-readable summary of the cartridge header.
func (h *Header) Info() string {
	return fmt.Sprintf("Title: %s\nType: %s\nROM Size: %dKB (%d banks)\nRAM Size: %dKB",
		h.Title, h.CartTypeStr, h.ROMSizeBytes/1024, h.ROMBanks, h.RAMSizeBytes/1024)
}

func decodeROMSize(code byte) (size, banks int) {
	switch code {
	case 0x00:
		return 32 * 1024, 2
	case 0x01:
		return 64 * 1024, 4
	case 0x02:
		return 128 * 1024, 8
	case 0x03:
		return 256 * 1024, 16
	case 0x04:
		return 512 * 1024, 32
	case 0x05:
		return 1 * 1024 * 1024, 64
	case 0x06:
		return 2 * 1024 * 1024, 128
	case 0x07:
		return 4 * 1024 * 1024, 256
	case 0x08:
		return 8 * 1024 * 1024, 512
	default:
		return 0, 0
	}
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x00:
		return 0
	case 0x01:
		return 2 * 1024
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

func cartTypeString(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01, 0x02, 0x03:
		return "MBC1 (variants)"
	case 0x05, 0x06:
		return "MBC2 (variants)"
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return "MBC3 (variants)"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}

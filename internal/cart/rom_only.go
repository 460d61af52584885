package cart

// ROMOnly implements a cartridge without a bank controller or external RAM.
type ROMOnly struct {
	rom []byte
	hdr *Header
}

func NewROMOnly(rom []byte, h *Header) *ROMOnly {
	return &ROMOnly{rom: rom, hdr: h}
}

func (c *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000: // ROM fixed area
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	default: // no external RAM
		return 0xFF
	}
}

func (c *ROMOnly) Write(addr uint16, value byte) {
	// No controller: writes to 0x0000–0x7FFF and 0xA000–0xBFFF are ignored.
}

func (c *ROMOnly) Header() *Header { return c.hdr }

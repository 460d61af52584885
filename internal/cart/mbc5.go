package cart

// MBC5 supports up to 8MB ROM and 128KB RAM. Unlike MBC1, bank 0 is directly
// addressable in the switchable window: there is no 0->1 coercion.
type MBC5 struct {
	rom []byte
	ram []byte
	hdr *Header

	romBank    uint16 // 9 bits (0..511)
	ramBank    byte   // 0..15
	ramEnabled bool
}

func NewMBC5(rom []byte, h *Header) *MBC5 {
	m := &MBC5{rom: rom, hdr: h}
	if h.RAMSizeBytes > 0 {
		m.ram = make([]byte, h.RAMSizeBytes)
	}
	m.romBank = 1 // default
	return m
}

func (m *MBC5) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		// fixed bank 0
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := maskROMBank(int(m.romBank), len(m.rom))
		off := bank*romBankSize + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		rb := maskRAMBank(int(m.ramBank&0x0F), len(m.ram))
		off := rb*ramBankSize + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x3000:
		// low 8 bits of ROM bank
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr < 0x4000:
		// bit 8 of ROM bank
		if value&0x01 != 0 {
			m.romBank |= 0x100
		} else {
			m.romBank &^= 0x100
		}
	case addr < 0x6000:
		// RAM bank number 0..15
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		rb := maskRAMBank(int(m.ramBank&0x0F), len(m.ram))
		off := rb*ramBankSize + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *MBC5) Header() *Header { return m.hdr }

// BatteryBacked implementation
func (m *MBC5) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC5) LoadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

package cart

// MBC1 implements basic MBC1 ROM/RAM banking.
// Supports ROM banking up to 2MB and RAM up to 32KB. Battery is transparent.
type MBC1 struct {
	rom []byte
	ram []byte
	hdr *Header

	romBankLow5       byte // lower 5 bits of ROM bank number (0->1 remapped)
	ramBankOrRomHigh2 byte // either RAM bank (mode 1) or ROM bank high bits (mode 0)
	ramEnabled        bool
	modeSelect        byte // 0: ROM banking (default), 1: RAM banking
}

func NewMBC1(rom []byte, h *Header) *MBC1 {
	m := &MBC1{rom: rom, hdr: h}
	if h.RAMSizeBytes > 0 {
		m.ram = make([]byte, h.RAMSizeBytes)
	}
	// default to bank 1 for the switchable area
	m.romBankLow5 = 1
	return m
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		// Fixed bank 0
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		// Switchable ROM bank
		bank := maskROMBank(m.effectiveROMBank(), len(m.rom))
		off := bank*romBankSize + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := m.ramBank()*ramBankSize + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		// RAM enable: low nibble must be 0x0A
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		// ROM bank low 5 bits (0 maps to 1)
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		// RAM bank or ROM high bits (2 bits), interpretation picked by mode
		m.ramBankOrRomHigh2 = value & 0x03
	case addr < 0x8000:
		// Mode select: 0 ROM banking, 1 RAM banking
		m.modeSelect = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		off := m.ramBank()*ramBankSize + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

// effectiveROMBank combines the high 2 bits with the low 5. The high bits
// only apply in ROM banking mode; in RAM banking mode they select the RAM
// bank instead.
func (m *MBC1) effectiveROMBank() int {
	bank := int(m.romBankLow5)
	if m.modeSelect == 0 {
		bank |= int(m.ramBankOrRomHigh2&0x03) << 5
	}
	return bank
}

func (m *MBC1) ramBank() int {
	if m.modeSelect != 1 {
		return 0
	}
	return maskRAMBank(int(m.ramBankOrRomHigh2&0x03), len(m.ram))
}

func (m *MBC1) Header() *Header { return m.hdr }

// BatteryBacked implementation
func (m *MBC1) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC1) LoadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

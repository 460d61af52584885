package cart

// MBC2 implements ROM banking with the controller's built-in 512x4-bit RAM.
// Banking behavior:
// - 0000-3FFF with address bit 8 clear: RAM enable (0x0A in low nibble)
// - 0000-3FFF with address bit 8 set: ROM bank low 4 bits (0 maps to 1)
// - A000-BFFF: built-in RAM; only the low 0x200 bytes exist, values are
//   stored as low nibbles
// ROM: bank 0 fixed at 0000-3FFF; switchable 4000-7FFF uses bank (1..15)

const mbc2RAMSize = 0x200

type MBC2 struct {
	rom []byte
	ram [mbc2RAMSize]byte
	hdr *Header

	ramEnabled bool
	romBank    byte // 4 bits (1..15)
}

func NewMBC2(rom []byte, h *Header) *MBC2 {
	m := &MBC2{rom: rom, hdr: h}
	m.romBank = 1
	return m
}

func (m *MBC2) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := maskROMBank(int(m.romBank&0x0F), len(m.rom))
		off := bank*romBankSize + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		off := int(addr - 0xA000)
		if off >= mbc2RAMSize {
			return 0xFF
		}
		return m.ram[off]
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value byte) {
	switch {
	case addr < 0x4000:
		// Address bit 8 picks the register: clear = RAM enable, set = ROM bank.
		if addr&0x0100 == 0 {
			m.ramEnabled = (value & 0x0F) == 0x0A
		} else {
			v := value & 0x0F
			if v == 0 {
				v = 1
			}
			m.romBank = v
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		off := int(addr - 0xA000)
		if off < mbc2RAMSize {
			m.ram[off] = value & 0x0F
		}
	}
}

func (m *MBC2) Header() *Header { return m.hdr }

// BatteryBacked implementation
func (m *MBC2) SaveRAM() []byte {
	out := make([]byte, mbc2RAMSize)
	copy(out, m.ram[:])
	return out
}

func (m *MBC2) LoadRAM(data []byte) {
	copy(m.ram[:], data)
}

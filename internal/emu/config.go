package emu

import "github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/timing"

// Config contains settings that affect emulation behavior.
type Config struct {
	Timing timing.Config
}

// DefaultConfig returns the stock DMG timing.
func DefaultConfig() Config {
	return Config{Timing: timing.DMG}
}

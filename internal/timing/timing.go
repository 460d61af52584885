package timing

// Config collects the cycle constants shared by the video and audio engines.
// Keeping them in one place makes the frame budget auditable: the mode
// durations of one visible line must sum to CyclesPerLine, and
// (VisibleLines+BlankLines)*CyclesPerLine must equal FrameCycles().
type Config struct {
	ClockHz int // master clock, cycles per second

	// Video mode budgets, in cycles.
	ScanObjectsCycles int
	DrawCycles        int
	HBlankCycles      int
	CyclesPerLine     int
	VisibleLines      int
	BlankLines        int

	// Audio output rate, samples per second.
	SampleRate int
}

// DMG is the timing of the original handheld: 4.194304 MHz master clock,
// 456-cycle scanlines, 154 lines per frame, 44.1 kHz audio output.
var DMG = Config{
	ClockHz:           4194304,
	ScanObjectsCycles: 80,
	DrawCycles:        172,
	HBlankCycles:      204,
	CyclesPerLine:     456,
	VisibleLines:      144,
	BlankLines:        10,
	SampleRate:        44100,
}

// TotalLines returns the number of scanlines per frame, blank lines included.
func (c Config) TotalLines() int { return c.VisibleLines + c.BlankLines }

// FrameCycles returns the number of clock cycles in one full frame.
func (c Config) FrameCycles() int { return c.TotalLines() * c.CyclesPerLine }

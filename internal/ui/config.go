package ui

// Config contains window and audio related settings.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
	Mute  bool   // start with audio muted
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbcore"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}

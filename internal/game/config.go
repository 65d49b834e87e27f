package game

// Config holds the tunables of a simulation.
type Config struct {
	// Cheat makes the player immune to rocket damage and keeps bots from firing.
	Cheat bool
	// BotSeed seeds the initial bot hesitation jitter.
	BotSeed int64
	// MouseSensitivity divides the horizontal mouse delta into radians.
	MouseSensitivity float64
	// WallImageCount is the number of plain wall images cycled by area.
	WallImageCount int
	// Verbose records per-frame entries in the party log.
	Verbose bool
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		BotSeed:          345641,
		MouseSensitivity: 1800,
		WallImageCount:   27,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BotSeed == 0 {
		c.BotSeed = d.BotSeed
	}
	if c.MouseSensitivity <= 0 {
		c.MouseSensitivity = d.MouseSensitivity
	}
	if c.WallImageCount <= 0 {
		c.WallImageCount = d.WallImageCount
	}
	return c
}

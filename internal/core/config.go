package core

// RuntimeConfig contains the settings a front end passes to a simulation
// session. Seed drives the per-session random source.
type RuntimeConfig struct {
	BoardW   int    // Board width in cells
	BoardH   int    // Board height in cells
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second
	Seed     uint64 // RNG seed for deterministic play
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		BoardW:   20,
		BoardH:   20,
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     0, // 0 means use current time in platform layer
	}
}

package core

// RuntimeConfig is passed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Platform steps per second
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the status a game reports to the platform after each step.
type GameState struct {
	Score     int
	Lines     int
	GameOver  bool
	Paused    bool
	AI        bool   // Autopilot was used during the session
	SessionID string // Stable per game session, used for score rows
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}

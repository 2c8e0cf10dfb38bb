package config

import (
	_ "embed"
)

//go:embed defaults/chroma.yaml
var defaultChromaYAML []byte

// DefaultChromaConfig returns the built-in configuration.
// It mirrors defaults/chroma.yaml.
func DefaultChromaConfig() ChromaConfig {
	return ChromaConfig{
		Timing: ChromaTiming{
			TickIntervalMs: 1000,
			AICooldownMs:   500,
			ClearDelayMs:   500,
		},
		Board: ChromaBoard{
			Width:   10,
			Height:  20,
			Palette: 3,
		},
		Scoring: ChromaScoring{
			RowPoints: 10,
			ComboBase: 100,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "lines",
				MaxAt: 60,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 3.0,
				MinIntervalMs:   150,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultChromaYAML
}

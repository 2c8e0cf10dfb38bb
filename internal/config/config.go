// Package config provides YAML-based configuration loading and
// difficulty management for the Chroma game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ChromaConfig contains all configuration for the Chroma game.
type ChromaConfig struct {
	Timing     ChromaTiming     `yaml:"timing"`
	Board      ChromaBoard      `yaml:"board"`
	Scoring    ChromaScoring    `yaml:"scoring"`
	AI         ChromaAI         `yaml:"ai"`
	Storage    ChromaStorage    `yaml:"storage"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// ChromaTiming defines the engine clock parameters in milliseconds.
type ChromaTiming struct {
	TickIntervalMs int `yaml:"tick_interval_ms"` // Gravity period
	AICooldownMs   int `yaml:"ai_cooldown_ms"`   // Minimum gap between AI moves
	ClearDelayMs   int `yaml:"clear_delay_ms"`   // Highlight time before rows vanish
}

// ChromaBoard defines the playfield.
type ChromaBoard struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Palette int `yaml:"palette"` // Number of colors, 1..5
}

// ChromaScoring defines clear rewards.
type ChromaScoring struct {
	RowPoints int `yaml:"row_points"` // Points per cleared cell
	ComboBase int `yaml:"combo_base"` // Multi-row bonus base
}

// ChromaAI defines autopilot defaults.
type ChromaAI struct {
	Enabled bool `yaml:"enabled"`
}

// ChromaStorage defines where high scores are kept.
type ChromaStorage struct {
	Path string `yaml:"path"` // Empty means ~/.arcade/chroma.db
}

// TickInterval returns the gravity period.
func (c ChromaConfig) TickInterval() time.Duration {
	return time.Duration(c.Timing.TickIntervalMs) * time.Millisecond
}

// AICooldown returns the minimum time between AI moves.
func (c ChromaConfig) AICooldown() time.Duration {
	return time.Duration(c.Timing.AICooldownMs) * time.Millisecond
}

// ClearDelay returns the highlight time before matched rows are removed.
func (c ChromaConfig) ClearDelay() time.Duration {
	return time.Duration(c.Timing.ClearDelayMs) * time.Millisecond
}

// Validate reports every out-of-range field.
func (c ChromaConfig) Validate() error {
	var errs []error
	if c.Timing.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("config: tick_interval_ms must be positive, got %d", c.Timing.TickIntervalMs))
	}
	if c.Timing.AICooldownMs < 0 {
		errs = append(errs, fmt.Errorf("config: ai_cooldown_ms must not be negative, got %d", c.Timing.AICooldownMs))
	}
	if c.Timing.ClearDelayMs < 0 {
		errs = append(errs, fmt.Errorf("config: clear_delay_ms must not be negative, got %d", c.Timing.ClearDelayMs))
	}
	if c.Board.Width < 4 || c.Board.Width > 40 {
		errs = append(errs, fmt.Errorf("config: board width must be in [4, 40], got %d", c.Board.Width))
	}
	if c.Board.Height < 4 || c.Board.Height > 60 {
		errs = append(errs, fmt.Errorf("config: board height must be in [4, 60], got %d", c.Board.Height))
	}
	if c.Board.Palette < 1 || c.Board.Palette > 5 {
		errs = append(errs, fmt.Errorf("config: palette must be in [1, 5], got %d", c.Board.Palette))
	}
	if c.Scoring.RowPoints < 0 || c.Scoring.ComboBase < 0 {
		errs = append(errs, errors.New("config: scoring values must not be negative"))
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "lines", "time":
	default:
		errs = append(errs, fmt.Errorf("config: unknown progression type %q", c.Difficulty.Progression.Type))
	}
	return errors.Join(errs...)
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "lines", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/lines/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Gravity speed added at max difficulty
	MinIntervalMs   int     `yaml:"min_interval_ms"`  // Fastest allowed gravity period
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value to a preset. Empty input yields "".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyChromaPreset modifies the config based on a difficulty preset.
func ApplyChromaPreset(cfg *ChromaConfig, preset DifficultyPreset) {
	switch preset {
	case "":
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

package config

import (
	"math"
	"time"
)

// Progress is the session state difficulty is measured against.
type Progress struct {
	Score int
	Lines int
	Ticks int
}

// DifficultyManager calculates dynamic game parameters from session progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
// With progression disabled the level stays at zero.
func (d *DifficultyManager) Level(p Progress) float64 {
	if !d.cfg.Enabled {
		return 0
	}
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(p.Score) / maxAt
	case "lines":
		progress = float64(p.Lines) / maxAt
	case "time":
		progress = float64(p.Ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the speed factor for the current level.
func (d *DifficultyManager) Speed(p Progress) float64 {
	return 1.0 + d.Level(p)*d.cfg.Scaling.SpeedMultiplier
}

// Interval shortens the base gravity period by the current speed factor,
// never going below the configured minimum.
func (d *DifficultyManager) Interval(base time.Duration, p Progress) time.Duration {
	if !d.cfg.Enabled {
		return base
	}
	interval := time.Duration(float64(base) / d.Speed(p))
	floor := time.Duration(d.cfg.Scaling.MinIntervalMs) * time.Millisecond
	return min(base, max(interval, floor, time.Millisecond))
}

func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

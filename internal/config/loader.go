package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvTickMs       = "CHROMA_TICK_MS"
	EnvAICooldownMs = "CHROMA_AI_COOLDOWN_MS"
	EnvPalette      = "CHROMA_PALETTE"
	EnvDB           = "CHROMA_DB"
)

// LoadChroma loads the Chroma configuration.
// Search order: customPath -> ~/.arcade/configs/chroma.yaml -> ./configs/chroma.yaml -> embedded default.
// Files are layered over the built-in defaults, then environment overrides
// (optionally read from ./.env) are applied and the result is validated.
func LoadChroma(customPath string) (ChromaConfig, error) {
	cfg, err := loadChromaFile(customPath)
	if err != nil {
		return cfg, err
	}

	// A missing .env file is normal
	_ = godotenv.Load()
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadChromaFile(customPath string) (ChromaConfig, error) {
	cfg := DefaultChromaConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("chroma.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := DefaultChromaConfig()
			if err := yaml.Unmarshal(data, &candidate); err == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "chroma.yaml")); err == nil {
		candidate := DefaultChromaConfig()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultChromaYAML, &cfg); err != nil {
		return DefaultChromaConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func ApplyEnv(cfg *ChromaConfig, lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvTickMs, &cfg.Timing.TickIntervalMs},
		{EnvAICooldownMs, &cfg.Timing.AICooldownMs},
		{EnvPalette, &cfg.Board.Palette},
	}
	for _, v := range ints {
		raw, ok := lookup(v.key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s=%q: %w", v.key, raw, err)
		}
		*v.dst = n
	}
	if raw, ok := lookup(EnvDB); ok && raw != "" {
		cfg.Storage.Path = raw
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied when the config file and environment are silent.
const (
	DefaultFuzzyThreshold = 0.75
	DefaultCacheSize      = 256
	DefaultTimeoutSecs    = 60
)

// Config is the application configuration for the nlc CLI.
type Config struct {
	FuzzyEnabled       bool     `json:"fuzzy_enabled"`
	FuzzyThreshold     float64  `json:"fuzzy_threshold"`
	CacheSize          int      `json:"cache_size"`
	DefaultTimeoutSecs int      `json:"default_timeout_seconds"`
	ManifestDir        string   `json:"manifest_dir"`
	HistoryPath        string   `json:"history_path"`
	Debug              bool     `json:"debug"`
	ExtraDenylist      []string `json:"extra_denylist"`
	ProtectedPaths     []string `json:"protected_paths"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		FuzzyEnabled:       true,
		FuzzyThreshold:     DefaultFuzzyThreshold,
		CacheSize:          DefaultCacheSize,
		DefaultTimeoutSecs: DefaultTimeoutSecs,
		ManifestDir:        defaultManifestDir(),
		HistoryPath:        defaultHistoryPath(),
	}
}

// ConfigPath returns the expected location of the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.json")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "nlc")
}

func defaultManifestDir() string {
	return filepath.Join(configDir(), "plugins")
}

func defaultHistoryPath() string {
	return filepath.Join(configDir(), "history.db")
}

// Load reads the config file if present and applies environment
// overrides. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", ConfigPath(), err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers NLC_* environment variables over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NLC_FUZZY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FuzzyThreshold = f
		}
	}
	if v := os.Getenv("NLC_FUZZY_DISABLED"); v == "1" || v == "true" {
		cfg.FuzzyEnabled = false
	}
	if v := os.Getenv("NLC_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultTimeoutSecs = n
		}
	}
	if v := os.Getenv("NLC_MANIFEST_DIR"); v != "" {
		cfg.ManifestDir = v
	}
	if v := os.Getenv("NLC_HISTORY_PATH"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("NLC_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

// ValidateConfig clamps out-of-range values to their defaults.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.DefaultTimeoutSecs <= 0 {
		cfg.DefaultTimeoutSecs = DefaultTimeoutSecs
	}
	return nil
}

// DefaultTimeout converts the configured seconds to a duration.
func (c *Config) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutSecs) * time.Second
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/canopy-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete canopy configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Owner is the user identifier every persistence call is scoped by.
	Owner string `toml:"owner" json:"owner"`

	// Canvas configuration
	Canvas CanvasConfig `toml:"canvas" json:"canvas"`

	// Muse (generation service) configuration
	Muse MuseConfig `toml:"muse" json:"muse"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// CanvasConfig tunes the spatial engine.
type CanvasConfig struct {
	// GridStep is the background grid cell size in world units.
	GridStep float64 `toml:"grid_step" json:"grid_step"`
	// MinSeparation is the minimum distance between placed items.
	MinSeparation float64 `toml:"min_separation" json:"min_separation"`
}

// MuseConfig selects and configures the generation backend.
type MuseConfig struct {
	// Backend is one of "service", "ollama", "openai", "off".
	Backend string `toml:"backend" json:"backend"`
	// BaseURL overrides the backend endpoint.
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model for the ollama/openai backends.
	Model string `toml:"model" json:"model"`
	// APIKey for the service/openai backends.
	APIKey string `toml:"api_key" json:"api_key"`
}

// StorageConfig locates the canvas database.
type StorageConfig struct {
	// Path to the SQLite database (empty = ~/.canopy/canopy.db).
	Path string `toml:"path" json:"path"`
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	// ShowGrid paints the background grid on startup.
	ShowGrid bool `toml:"show_grid" json:"show_grid"`
	// AutoGenerate enables the automatic generation triggers on startup.
	AutoGenerate bool `toml:"auto_generate" json:"auto_generate"`
	// Theme is "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level"`
	// Path to the log file (empty = ~/.canopy/canopy.log).
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Owner:   defaultOwner(),
		Canvas: CanvasConfig{
			GridStep:      50,
			MinSeparation: 130,
		},
		Muse: MuseConfig{
			Backend: "service",
		},
		UI: UIConfig{
			ShowGrid:     true,
			AutoGenerate: true,
			Theme:        "dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "local"
}

// Dir returns the canopy config directory, ~/.canopy.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".canopy"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// ErrNotFound indicates no config file exists; callers fall back to Default.
var ErrNotFound = errors.New("config file not found")

// Load reads the configuration from the default location, applying defaults
// for missing fields, environment overrides, and validation.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFrom(dir)
	if errors.Is(err, ErrNotFound) {
		cfg = Default()
		err = nil
	}
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	cfg.Validate()
	return cfg, nil
}

// LoadFrom reads config.toml (or config.json) from dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	tomlPath := filepath.Join(dir, "config.toml")
	if data, err := os.ReadFile(tomlPath); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
		return cfg, nil
	}

	jsonPath := filepath.Join(dir, "config.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		return cfg, nil
	}

	return nil, ErrNotFound
}

// applyEnv overlays CANOPY_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CANOPY_OWNER"); v != "" {
		cfg.Owner = v
	}
	if v := os.Getenv("CANOPY_MUSE_BACKEND"); v != "" {
		cfg.Muse.Backend = v
	}
	if v := os.Getenv("CANOPY_MUSE_URL"); v != "" {
		cfg.Muse.BaseURL = v
	}
	if v := os.Getenv("CANOPY_MUSE_MODEL"); v != "" {
		cfg.Muse.Model = v
	}
	if v := os.Getenv("CANOPY_MUSE_API_KEY"); v != "" {
		cfg.Muse.APIKey = v
	}
	if v := os.Getenv("CANOPY_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("CANOPY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CANOPY_AUTO_GENERATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UI.AutoGenerate = b
		}
	}
}

// Validate clamps out-of-range values back to defaults rather than erroring;
// a hand-edited config should degrade, not crash the canvas.
func (c *Config) Validate() {
	if c.Owner == "" {
		c.Owner = defaultOwner()
	}
	if c.Canvas.GridStep < 10 || c.Canvas.GridStep > 1000 {
		c.Canvas.GridStep = 50
	}
	if c.Canvas.MinSeparation < 40 || c.Canvas.MinSeparation > 1000 {
		c.Canvas.MinSeparation = 130
	}
	switch c.Muse.Backend {
	case "service", "ollama", "openai", "off":
	default:
		c.Muse.Backend = "service"
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		c.UI.Theme = "dark"
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "info"
	}
}

// Save writes the configuration to ~/.canopy/config.toml atomically.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return c.SaveTo(dir)
}

// SaveTo writes config.toml into dir atomically.
func (c *Config) SaveTo(dir string) error {
	w := &writerBuf{}
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(filepath.Join(dir, "config.toml"), w.data, 0644)
}

type writerBuf struct{ data []byte }

func (w *writerBuf) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	cfg := globalCfg
	globalMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	loaded, err := Load()
	if err != nil {
		loaded = Default()
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		globalCfg = loaded
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ReloadGlobal re-reads the configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the global config. Test use only.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}

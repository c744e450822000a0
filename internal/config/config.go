// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// API server configuration
	API APIConfig `toml:"api"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Card data provider configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Draft autosave configuration
	Autosave AutosaveConfig `toml:"autosave"`
}

// APIConfig contains REST API server settings.
type APIConfig struct {
	Port        int    `toml:"port"`         // Listen port
	OpenBrowser bool   `toml:"open_browser"` // Open the frontend on startup
	FrontendURL string `toml:"frontend_url"` // URL to open in the browser
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Database file (empty = ~/.deckforge/data.db)
}

// ScryfallConfig contains card data provider settings.
type ScryfallConfig struct {
	BaseURL   string `toml:"base_url"`   // API endpoint override (empty = production)
	Timeout   string `toml:"timeout"`    // Per-request timeout (e.g. "30s")
	RateLimit string `toml:"rate_limit"` // Minimum delay between requests (e.g. "100ms")
}

// AutosaveConfig contains draft autosave settings.
type AutosaveConfig struct {
	Debounce string `toml:"debounce"` // Delay between change and write (e.g. "2s")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Port:        8080,
			OpenBrowser: false,
			FrontendURL: "",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Scryfall: ScryfallConfig{
			BaseURL:   "",
			Timeout:   "30s",
			RateLimit: "100ms",
		},
		Autosave: AutosaveConfig{
			Debounce: "2s",
		},
	}
}

// Path returns the path to the configuration file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deckforge")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns the default config
// if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}

	if _, err := time.ParseDuration(c.Scryfall.RateLimit); err != nil {
		return fmt.Errorf("invalid scryfall rate limit %q: %w", c.Scryfall.RateLimit, err)
	}

	if _, err := time.ParseDuration(c.Autosave.Debounce); err != nil {
		return fmt.Errorf("invalid autosave debounce %q: %w", c.Autosave.Debounce, err)
	}

	return nil
}

// DatabasePath resolves the configured database path, defaulting to
// ~/.deckforge/data.db.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deckforge", "data.db"), nil
}

// GetScryfallTimeout returns the scryfall timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}

// GetScryfallRateLimit returns the scryfall request delay as a duration.
func (c *Config) GetScryfallRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RateLimit)
}

// GetAutosaveDebounce returns the autosave debounce as a duration.
func (c *Config) GetAutosaveDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Autosave.Debounce)
}

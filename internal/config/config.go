// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for dschat.
//
// Configuration is stored as TOML with sensible defaults and environment
// variable overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.dschat/config.toml
//   - Built-in defaults
//
// The DEEPSEEK_API_KEY environment variable always overrides the api_key
// field from the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/dschat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config represents the complete dschat configuration.
type Config struct {
	// APIKey is the bearer credential for the completion API.
	// Overridden by the DEEPSEEK_API_KEY environment variable.
	APIKey string `toml:"api_key"`

	// BaseURL is the completion API base URL.
	BaseURL string `toml:"base_url"`

	// Model is the model identifier sent with every request
	// (e.g. "deepseek-chat" or "deepseek-reasoner").
	Model string `toml:"model"`

	// SystemMessage seeds the conversation on every run.
	SystemMessage string `toml:"system_message"`

	// HistoryDir is the directory for session transcript files.
	// Empty means the default ~/.dschat/history.
	HistoryDir string `toml:"history_dir"`

	// CostReport prints token usage and cost after each reply when true.
	// The --cost flag enables this for a single run.
	CostReport bool `toml:"cost_report"`
}

// EnvAPIKey is the environment variable consulted for the API credential.
const EnvAPIKey = "DEEPSEEK_API_KEY"

// ErrMissingAPIKey indicates no credential was found in the config file or
// environment. Fatal at startup for interactive mode.
var ErrMissingAPIKey = errors.New("API key not configured: set " + EnvAPIKey + " or api_key in config.toml")

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://api.deepseek.com",
		Model:         "deepseek-chat",
		SystemMessage: "You are a helpful assistant.",
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the dschat configuration directory (~/.dschat).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".dschat"), nil
}

// EnsureConfigDir creates the configuration directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ConfigPath returns the path of the TOML configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolveHistoryDir returns the transcript directory, applying the default
// when the config field is empty.
func (c *Config) ResolveHistoryDir() (string, error) {
	if c.HistoryDir != "" {
		return c.HistoryDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, fills defaults for missing fields, and
// applies environment overrides. A missing file is not an error; defaults
// are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	fillDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// fillDefaults backfills zero values with the built-in defaults.
func fillDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.SystemMessage == "" {
		cfg.SystemMessage = def.SystemMessage
	}
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		cfg.APIKey = key
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for interactive use.
// Search mode does not require a credential and skips this check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid base_url %q: must be an http(s) URL", c.BaseURL)
	}
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path atomically.
// The file is written 0600 since it may contain the API credential.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

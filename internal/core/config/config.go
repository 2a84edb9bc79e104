// Package config handles configuration loading and validation for nest.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/nest/internal/core/history"
	"github.com/colonyops/nest/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Checklist ChecklistConfig `yaml:"checklist"`
	TUI       TUIConfig       `yaml:"tui"`
	Database  DatabaseConfig  `yaml:"database"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// ChecklistConfig holds editing behavior shared by the CLI and the TUI.
type ChecklistConfig struct {
	// AutoSort moves completed root items below open ones after each
	// completion change.
	AutoSort bool `yaml:"auto_sort"`
	// HistoryLimit caps the number of undo steps kept per session.
	HistoryLimit int `yaml:"history_limit"`
	// IDLength is the length of generated item IDs.
	IDLength int `yaml:"id_length"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Checklist: ChecklistConfig{
			HistoryLimit: history.DefaultLimit,
			IDLength:     8,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation. It is used by the validate command so
// that problems can be reported instead of failing startup.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Checklist.HistoryLimit == 0 {
		c.Checklist.HistoryLimit = defaults.Checklist.HistoryLimit
	}
	if c.Checklist.IDLength == 0 {
		c.Checklist.IDLength = defaults.Checklist.IDLength
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// LogFile returns the default log file inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "nest.log")
}

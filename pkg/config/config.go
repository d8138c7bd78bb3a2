package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string       `json:"log_level"`
	LogFile   string       `json:"log_file"`
	LogFormat string       `json:"log_format"`
	Source    SourceConfig `json:"source"`
	Output    OutputConfig `json:"output"`
}

// SourceConfig holds defaults for the source command
type SourceConfig struct {
	Lower      int  `json:"lower"`       // Lines shown before the current line
	Upper      int  `json:"upper"`       // Lines shown from the current line on
	SearchRepo bool `json:"search_repo"` // Look up missing files in the enclosing git repository
}

// OutputConfig holds console rendering options
type OutputConfig struct {
	Color    string `json:"color"`     // "auto", "always" or "never"
	MaxWidth int    `json:"max_width"` // 0 disables truncation
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFile:   "",
		LogFormat: "json",
		Source: SourceConfig{
			Lower:      10,
			Upper:      10,
			SearchRepo: false,
		},
		Output: OutputConfig{
			Color:    "auto",
			MaxWidth: 0,
		},
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Environment variables override file values.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := Save(configPath, cfg); err != nil {
			return Config{}, fmt.Errorf("failed to create default config: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		// Fields missing from the file keep their defaults
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return applyEnvironmentOverrides(cfg), nil
}

// applyEnvironmentOverrides applies SDB_* environment variables to the config.
// Values that don't parse are ignored.
func applyEnvironmentOverrides(cfg Config) Config {
	if logLevel := os.Getenv("SDB_LOG_LEVEL"); logLevel != "" {
		switch strings.ToLower(logLevel) {
		case "debug", "info", "warn", "error", "off":
			cfg.LogLevel = strings.ToLower(logLevel)
		}
	}

	if logFormat := os.Getenv("SDB_LOG_FORMAT"); logFormat != "" {
		cfg.LogFormat = logFormat
	}

	if logFile := os.Getenv("SDB_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}

	if color := os.Getenv("SDB_COLOR"); color != "" {
		cfg.Output.Color = strings.ToLower(color)
	}

	if lowerStr := os.Getenv("SDB_SOURCE_LOWER"); lowerStr != "" {
		if lower, err := strconv.Atoi(lowerStr); err == nil && lower >= 0 {
			cfg.Source.Lower = lower
		}
	}

	if upperStr := os.Getenv("SDB_SOURCE_UPPER"); upperStr != "" {
		if upper, err := strconv.Atoi(upperStr); err == nil && upper >= 0 {
			cfg.Source.Upper = upper
		}
	}

	return cfg
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Source.Lower < 0 {
		return fmt.Errorf("source.lower must not be negative, got: %d", c.Source.Lower)
	}

	if c.Source.Upper < 0 {
		return fmt.Errorf("source.upper must not be negative, got: %d", c.Source.Upper)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unsupported output.color: %s", c.Output.Color)
	}

	if c.Output.MaxWidth < 0 {
		return fmt.Errorf("output.max_width must not be negative, got: %d", c.Output.MaxWidth)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sdb_cli/config.json"
	}
	return filepath.Join(homeDir, ".sdb_cli", "config.json")
}

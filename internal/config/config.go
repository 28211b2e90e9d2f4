// Package config holds the termdate configuration, loaded from an optional
// YAML file with defaults applied for anything unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all termdate configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Executor ExecutorConfig `yaml:"executor"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ExecutorConfig configures the challenge executor.
type ExecutorConfig struct {
	// Wall-clock bound on one combined execution.
	Timeout string `yaml:"timeout"`

	// User-facing countdown ticks before execution starts.
	CountdownTicks int `yaml:"countdown_ticks"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	Theme          string `yaml:"theme"` // light, dark
	MessageHistory int    `yaml:"message_history"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DatabasePath: "data/termdate.db",
		},
		Executor: ExecutorConfig{
			Timeout:        "5s",
			CountdownTicks: 3,
		},
		UI: UIConfig{
			Theme:          "dark",
			MessageHistory: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "data/termdate.log",
		},
	}
}

// Load reads the YAML config at path over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ExecutorTimeout parses the executor timeout, falling back to 5s.
func (c *Config) ExecutorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Executor.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fenilsonani/dupescan/internal/security"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Workers         int        `yaml:"workers"`       // 0 picks a value from the CPU count
	ChunkSizeKB     int        `yaml:"chunk_size_kb"` // read size while hashing
	FollowSymlinks  bool       `yaml:"follow_symlinks"`
	SizeLimits      SizeLimits `yaml:"size_limits"`
	ExcludePatterns []string   `yaml:"exclude_patterns"` // directory base names, glob syntax
	Output          string     `yaml:"output"`
	LogLevel        string     `yaml:"log_level"`
	LogFile         string     `yaml:"log_file"`
}

// SizeLimits defines size limits for files to consider
type SizeLimits struct {
	MinFileSize string `yaml:"min_file_size"` // e.g., "1KB"; empty means no lower bound
	MaxFileSize string `yaml:"max_file_size"` // e.g., "10GB"; empty means no upper bound
}

// Bounds parses both limits. A zero max means unbounded.
func (s SizeLimits) Bounds() (minSize, maxSize int64, err error) {
	if s.MinFileSize != "" {
		if minSize, err = utils.ParseSize(s.MinFileSize); err != nil {
			return 0, 0, fmt.Errorf("min_file_size: %w", err)
		}
	}
	if s.MaxFileSize != "" {
		if maxSize, err = utils.ParseSize(s.MaxFileSize); err != nil {
			return 0, 0, fmt.Errorf("max_file_size: %w", err)
		}
	}
	return minSize, maxSize, nil
}

var validOutputs = map[string]bool{"summary": true, "table": true, "json": true, "yaml": true}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unset keys keep their defaults
	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Write renders the configuration as YAML
func Write(w io.Writer, config *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if c.ChunkSizeKB <= 0 {
		return fmt.Errorf("chunk_size_kb must be > 0")
	}

	minSize, maxSize, err := c.SizeLimits.Bounds()
	if err != nil {
		return err
	}
	if maxSize > 0 && minSize > maxSize {
		return fmt.Errorf("min_file_size (%s) exceeds max_file_size (%s)",
			c.SizeLimits.MinFileSize, c.SizeLimits.MaxFileSize)
	}

	// Validate exclude patterns (glob syntax)
	for _, pattern := range c.ExcludePatterns {
		if err := security.ValidateNamePattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	if !validOutputs[c.Output] {
		return fmt.Errorf("unsupported output format: %s", c.Output)
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}

	return nil
}

// ChunkSize returns the hashing read size in bytes
func (c *Config) ChunkSize() int {
	return c.ChunkSizeKB * utils.KB
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "dupescan")
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := GetDefault()
		if err := Save(defaultConfig, configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g. DUPESCAN_WORKERS
const EnvPrefix = "dupescan"

// envOverrides mirrors the subset of Config that may be set from the environment.
// Nil fields were not present in the environment.
type envOverrides struct {
	Workers        *int    `envconfig:"WORKERS"`
	ChunkSizeKB    *int    `envconfig:"CHUNK_SIZE_KB"`
	FollowSymlinks *bool   `envconfig:"FOLLOW_SYMLINKS"`
	Output         *string `envconfig:"OUTPUT"`
	LogLevel       *string `envconfig:"LOG_LEVEL"`
	LogFile        *string `envconfig:"LOG_FILE"`
}

// ApplyEnv overlays DUPESCAN_* environment variables onto c and re-validates it
func ApplyEnv(c *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if env.Workers != nil {
		c.Workers = *env.Workers
	}
	if env.ChunkSizeKB != nil {
		c.ChunkSizeKB = *env.ChunkSizeKB
	}
	if env.FollowSymlinks != nil {
		c.FollowSymlinks = *env.FollowSymlinks
	}
	if env.Output != nil {
		c.Output = *env.Output
	}
	if env.LogLevel != nil {
		c.LogLevel = *env.LogLevel
	}
	if env.LogFile != nil {
		c.LogFile = *env.LogFile
	}

	return c.Validate()
}

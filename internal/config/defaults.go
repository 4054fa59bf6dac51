package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Workers:        0,  // derived from runtime.NumCPU()
		ChunkSizeKB:    64, // 64KB read buffer per hashing worker
		FollowSymlinks: true,
		SizeLimits: SizeLimits{
			// Empty files are legitimate duplicates, so no lower bound by default
			MinFileSize: "",
			MaxFileSize: "",
		},
		ExcludePatterns: []string{},
		Output:          "summary",
		LogLevel:        "warn",
		LogFile:         "",
	}
}

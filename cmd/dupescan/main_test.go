package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath, verbose, logFile = "", false, ""
		workers, chunkSizeKB, noFollowLinks = 0, 0, false
		minSize, maxSize, excludes, outputFmt = "", "", nil, ""
		for _, cmd := range []string{"workers", "chunk-size", "no-follow-symlinks", "min-size", "max-size", "exclude", "output"} {
			if f := scanCmd.Flags().Lookup(cmd); f != nil {
				f.Changed = false
			}
		}
	})
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Setenv("DUPESCAN_WORKERS", "7")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "summary", cfg.Output)
}

func TestApplyScanFlags(t *testing.T) {
	resetFlags(t)
	flags := scanCmd.Flags()
	require.NoError(t, flags.Set("workers", "3"))
	require.NoError(t, flags.Set("no-follow-symlinks", "true"))
	require.NoError(t, flags.Set("min-size", "1KB"))
	require.NoError(t, flags.Set("exclude", ".git,node_modules"))
	require.NoError(t, flags.Set("output", "json"))

	cfg := config.GetDefault()
	require.NoError(t, applyScanFlags(scanCmd, cfg))

	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.FollowSymlinks)
	assert.Equal(t, "1KB", cfg.SizeLimits.MinFileSize)
	assert.Equal(t, []string{".git", "node_modules"}, cfg.ExcludePatterns)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 64, cfg.ChunkSizeKB, "unset flags keep config values")
}

func TestApplyScanFlagsRejectsInvalid(t *testing.T) {
	resetFlags(t)
	require.NoError(t, scanCmd.Flags().Set("min-size", "2GB"))
	require.NoError(t, scanCmd.Flags().Set("max-size", "1GB"))

	err := applyScanFlags(scanCmd, config.GetDefault())
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestScanCommandWritesReport(t *testing.T) {
	resetFlags(t)
	f := testutil.NewFixture(t)
	f.CreateCopies([]byte("duplicate"), "a.txt", "b.txt")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	rootCmd.SetArgs([]string{"scan", f.RootDir,
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--file", reportPath, "-o", "json"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		outputFile, rootDir = "", "."
	})

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sha256"`)
	assert.Contains(t, string(data), "a.txt")
}

func TestScanCommandMissingRoot(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"scan", filepath.Join(t.TempDir(), "nope"), "--config", filepath.Join(t.TempDir(), "none.yaml")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "root directory does not exist")
}

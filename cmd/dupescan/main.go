package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/fenilsonani/dupescan/internal/logging"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/reporter"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath     string
	verbose        bool
	logFile        string
	rootDir        string
	filterPattern  string
	outputFmt      string
	outputFile     string
	workers        int
	chunkSizeKB    int
	noFollowLinks  bool
	minSize        string
	maxSize        string
	excludes       []string
	showLive       bool
	showProgress   bool
	showTree       bool
	initConfigFile bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "Find files with identical content",
	Long: `dupescan walks a directory tree and reports groups of files whose content is
byte-for-byte identical. Files are first bucketed by size, and only files that
share a size with another file are hashed (SHA-256).`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [DIR]",
	Short: "Scan a directory tree for duplicate files",
	Long: `Scans DIR (or --root) and reports every group of two or more files with
identical content. The filter is either an exact file name ("notes.txt") or a
"*.ext" suffix pattern; an empty filter matches every file.

Use --live (-l) to see real-time scanning progress.
Use --progress (-p) for a progress bar while hashing.
Use --tree (-t) to print each group as a directory tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := applyScanFlags(cmd, cfg); err != nil {
			return err
		}

		root := rootDir
		if len(args) == 1 {
			root = args[0]
		}
		if err := filter.Validate(filterPattern); err != nil {
			return err
		}
		pattern := filter.Parse(filterPattern)

		format, err := reporter.ParseFormat(cfg.Output)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintln(os.Stderr, reporter.Banner(root, pattern.Describe()))

		scnr := scanner.New(cfg, logger)
		stopWatch := watchProgress(scnr.GetProgressReporter())
		result, err := scnr.Scan(ctx, root, pattern)
		stopWatch()

		if err != nil {
			var scanErr *scanner.ScanError
			if errors.As(err, &scanErr) {
				return err
			}
			return fmt.Errorf("scan failed: %w", err)
		}

		// Show tree view if requested
		if showTree {
			if !result.HasDuplicates() {
				fmt.Println("✅ No duplicate files found.")
			}
			ui.PrintGroupTree(os.Stdout, result.Groups)
			fmt.Print(scanner.FormatWarningSummary(result.Warnings))
			return nil
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(result, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Report saved to: %s\n", outputFile)
			return nil
		}

		rptr := reporter.New(os.Stdout, format)
		if err := rptr.Report(result); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}

		return nil
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive [DIR]",
	Short: "Browse duplicate groups in an interactive terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := applyScanFlags(cmd, cfg); err != nil {
			return err
		}

		root := rootDir
		if len(args) == 1 {
			root = args[0]
		}
		if err := filter.Validate(filterPattern); err != nil {
			return err
		}

		// The terminal belongs to the UI, so logs only go to a file
		logger, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		scnr := scanner.New(cfg, logger)
		result, err := ui.RunInteractive(ctx, scnr, root, filter.Parse(filterPattern))
		if err != nil {
			return err
		}
		if result != nil {
			fmt.Printf("%d duplicate groups, %d files scanned\n", len(result.Groups), result.Stats.FilesSeen)
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long: `Shows the config file in use and the effective configuration after
DUPESCAN_* environment overrides. Use --init to write the defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := configPath
		if initConfigFile {
			if cfgPath == "" {
				created, err := config.EnsureConfigExists()
				if err != nil {
					return err
				}
				cfgPath = created
			} else if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := config.Save(config.GetDefault(), cfgPath); err != nil {
					return err
				}
			}
			fmt.Printf("Config file written: %s\n", cfgPath)
		}

		if cfgPath == "" {
			var err error
			if cfgPath, err = config.GetConfigPath(); err != nil {
				return err
			}
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("\nTo create a config file:")
			fmt.Println("  dupescan config --init")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println()
		return config.Write(os.Stdout, cfg)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	// Flags shared by scan and interactive
	for _, cmd := range []*cobra.Command{scanCmd, interactiveCmd} {
		cmd.Flags().StringVarP(&rootDir, "root", "r", ".", "directory to scan")
		cmd.Flags().StringVarP(&filterPattern, "filter", "f", "", `exact file name or "*.ext" pattern`)
		cmd.Flags().IntVar(&workers, "workers", 0, "number of hashing workers (0 = based on CPU count)")
		cmd.Flags().IntVar(&chunkSizeKB, "chunk-size", 0, "read size in KB while hashing")
		cmd.Flags().BoolVar(&noFollowLinks, "no-follow-symlinks", false, "do not follow symbolic links")
		cmd.Flags().StringVar(&minSize, "min-size", "", "ignore files smaller than this (e.g. 1KB)")
		cmd.Flags().StringVar(&maxSize, "max-size", "", "ignore files larger than this (e.g. 1GB)")
		cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "skip directories whose name matches (glob, repeatable)")
	}

	// Scan command flags
	scanCmd.Flags().StringVarP(&outputFmt, "output", "o", "", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
	scanCmd.Flags().BoolVarP(&showLive, "live", "l", false, "show live scanning progress")
	scanCmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "show a progress bar while hashing")
	scanCmd.Flags().BoolVarP(&showTree, "tree", "t", false, "print duplicate groups as a directory tree")
	scanCmd.MarkFlagsMutuallyExclusive("live", "progress")
	scanCmd.MarkFlagsMutuallyExclusive("tree", "file")

	// Config command flags
	configCmd.Flags().BoolVar(&initConfigFile, "init", false, "write a default config file if none exists")

	// Add commands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		if cfgPath, err = config.GetConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyScanFlags overrides cfg with the flags the user set explicitly
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSizeKB = chunkSizeKB
	}
	if flags.Changed("no-follow-symlinks") {
		cfg.FollowSymlinks = !noFollowLinks
	}
	if flags.Changed("min-size") {
		cfg.SizeLimits.MinFileSize = minSize
	}
	if flags.Changed("max-size") {
		cfg.SizeLimits.MaxFileSize = maxSize
	}
	if flags.Changed("exclude") {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, excludes...)
	}
	if flags.Changed("output") {
		cfg.Output = outputFmt
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// newLogger builds the zap logger. With fileOnly set and no log file
// configured, logging is discarded.
func newLogger(cfg *config.Config, fileOnly bool) (*zap.Logger, error) {
	if fileOnly && cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}

// watchProgress attaches the requested progress display to pr. The returned
// function detaches it and finishes the display.
func watchProgress(pr *progress.ProgressReporter) func() {
	switch {
	case showLive:
		live := ui.NewLiveProgress(os.Stderr)
		// Cursor movement only makes sense on a terminal
		live.SetEnabled(term.IsTerminal(int(os.Stderr.Fd())))
		live.Start()
		stop := ui.Watch(pr, live.Update)
		return func() {
			stop()
			live.Finish()
		}
	case showProgress:
		bar := ui.NewHashBar(os.Stderr)
		stop := ui.Watch(pr, bar.Update)
		return func() {
			stop()
			bar.Finish()
		}
	default:
		return func() {}
	}
}

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/fenilsonani/dupescan/internal/logging"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/security"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// walkReportEvery throttles progress updates while walking
const walkReportEvery = 100

// Scanner runs the walk, size grouping and content hashing stages
type Scanner struct {
	config           *config.Config
	fs               afero.Fs
	logger           *zap.Logger
	progressReporter *progress.ProgressReporter

	lastHashCount int
}

// New creates a new Scanner over the OS filesystem
func New(cfg *config.Config, logger *zap.Logger) *Scanner {
	if cfg == nil {
		cfg = config.GetDefault()
	}
	return &Scanner{
		config:           cfg,
		fs:               afero.NewOsFs(),
		logger:           logging.OrNop(logger),
		progressReporter: progress.NewProgressReporter(),
	}
}

// SetFs replaces the filesystem the scanner reads from
func (s *Scanner) SetFs(fsys afero.Fs) {
	s.fs = fsys
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(pr *progress.ProgressReporter) {
	s.progressReporter = pr
}

// GetProgressReporter returns the scanner's progress reporter
func (s *Scanner) GetProgressReporter() *progress.ProgressReporter {
	return s.progressReporter
}

// HashCount is the number of files hashed by the most recent Scan
func (s *Scanner) HashCount() int {
	return s.lastHashCount
}

// Scan finds groups of identical files under root. Only a missing or
// non-directory root is fatal (*ScanError); everything else is reported in
// Result.Warnings. A cancelled ctx returns ctx.Err().
func (s *Scanner) Scan(ctx context.Context, root string, pattern filter.Pattern) (*Result, error) {
	start := time.Now()

	root, err := s.validateRoot(root)
	if err != nil {
		s.reportProgress(&progress.ScanProgress{Phase: progress.PhaseError, Root: root, Error: err, StartTime: start})
		return nil, err
	}

	minSize, maxSize, err := s.config.SizeLimits.Bounds()
	if err != nil {
		return nil, fmt.Errorf("invalid size limits: %w", err)
	}

	result := &Result{
		ID:        uuid.New(),
		Root:      root,
		Filter:    pattern.String(),
		StartedAt: start,
	}

	s.logger.Info("scan started",
		zap.String("id", result.ID.String()),
		zap.String("root", root),
		zap.String("filter", pattern.Describe()))

	// Phase 1: walk
	walker := NewWalker(s.fs, WalkOptions{
		Filter:          pattern,
		FollowSymlinks:  s.config.FollowSymlinks,
		MinSize:         minSize,
		MaxSize:         maxSize,
		ExcludePatterns: s.config.ExcludePatterns,
	}, s.logger)

	var entries []FileEntry
	var bytesSeen int64
	err = walker.Walk(ctx, root, func(entry FileEntry) {
		entries = append(entries, entry)
		bytesSeen += entry.Size
		if len(entries)%walkReportEvery == 0 {
			s.reportProgress(&progress.ScanProgress{
				Phase:       progress.PhaseWalking,
				Root:        root,
				CurrentPath: entry.Path,
				FilesFound:  len(entries),
				BytesFound:  bytesSeen,
				Warnings:    len(walker.Warnings()),
				StartTime:   start,
			})
		}
	})
	result.Warnings = append(result.Warnings, walker.Warnings()...)
	if err != nil {
		return nil, err
	}

	// Phase 2: size buckets
	buckets, singletons := GroupBySize(entries)
	candidates := CandidateCount(buckets)

	s.logger.Debug("walk complete",
		zap.Int("files", len(entries)),
		zap.Int("buckets", len(buckets)),
		zap.Int("singletons", singletons))

	// Phase 3: hash and resolve
	hasher := NewHasher(s.fs, s.config.ChunkSize())
	resolver := NewResolver(hasher, s.config.Workers, s.logger)
	resolver.OnHashed(func(done int, entry FileEntry) {
		s.reportProgress(&progress.ScanProgress{
			Phase:       progress.PhaseHashing,
			Root:        root,
			CurrentPath: entry.Path,
			FilesFound:  len(entries),
			BytesFound:  bytesSeen,
			Candidates:  candidates,
			FilesHashed: done,
			BytesHashed: hasher.BytesRead(),
			Warnings:    len(result.Warnings),
			StartTime:   start,
		})
	})

	groups, warnings := resolver.Resolve(ctx, buckets)
	s.lastHashCount = hasher.Count()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Groups = groups
	result.Warnings = append(result.Warnings, warnings...)
	result.Stats = Stats{
		FilesSeen:   len(entries),
		BytesSeen:   bytesSeen,
		Candidates:  candidates,
		SizeBuckets: len(buckets),
		FilesHashed: hasher.Count(),
		BytesHashed: hasher.BytesRead(),
	}
	for _, g := range groups {
		result.Stats.DuplicateFiles += len(g.Paths)
		result.Stats.WastedBytes += g.WastedBytes()
	}
	result.Duration = time.Since(start)

	s.reportProgress(&progress.ScanProgress{
		Phase:       progress.PhaseComplete,
		Root:        root,
		FilesFound:  len(entries),
		BytesFound:  bytesSeen,
		Candidates:  candidates,
		FilesHashed: result.Stats.FilesHashed,
		BytesHashed: result.Stats.BytesHashed,
		Groups:      len(groups),
		Warnings:    len(result.Warnings),
		StartTime:   start,
	})

	s.logger.Info("scan finished",
		zap.String("id", result.ID.String()),
		zap.Int("groups", len(groups)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// validateRoot resolves root to an absolute path and checks that it is a directory
func (s *Scanner) validateRoot(root string) (string, error) {
	resolved, err := security.ResolveRoot(root)
	if err != nil {
		return root, &ScanError{Root: root, Err: err}
	}

	info, err := s.fs.Stat(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return resolved, &ScanError{Root: resolved, Err: ErrRootNotFound}
	case err != nil:
		return resolved, &ScanError{Root: resolved, Err: err}
	case !info.IsDir():
		return resolved, &ScanError{Root: resolved, Err: ErrRootNotDirectory}
	}

	return resolved, nil
}

// reportProgress reports scan progress to listeners
func (s *Scanner) reportProgress(p *progress.ScanProgress) {
	if s.progressReporter == nil {
		return
	}
	s.progressReporter.UpdateScanProgress(p)
}

// FindDuplicates scans root with the default configuration and returns the
// ordered duplicate groups. filterPattern may be empty, an exact file name or
// "*.ext".
func FindDuplicates(root, filterPattern string) ([]DuplicateGroup, []*Warning, error) {
	result, err := New(config.GetDefault(), nil).Scan(context.Background(), root, filter.Parse(filterPattern))
	if err != nil {
		return nil, nil, err
	}
	return result.Groups, result.Warnings, nil
}

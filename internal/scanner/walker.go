package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// WalkOptions configures a Walker
type WalkOptions struct {
	Filter          filter.Pattern
	FollowSymlinks  bool
	MinSize         int64
	MaxSize         int64    // 0 means unbounded
	ExcludePatterns []string // matched against directory base names
}

// Walker enumerates the regular files below a root in a deterministic order
type Walker struct {
	fs     afero.Fs
	opts   WalkOptions
	logger *zap.Logger

	visited  map[dirKey]struct{}
	links    []pendingLink
	warnings []*Warning
	next     int
}

// pendingLink is a symlinked directory waiting for the real tree to be walked.
// stack holds the directories being descended when the link was found.
type pendingLink struct {
	path  string
	info  os.FileInfo
	stack []dirKey
}

// NewWalker creates a walker over fsys
func NewWalker(fsys afero.Fs, opts WalkOptions, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		fs:     fsys,
		opts:   opts,
		logger: logger,
	}
}

// Warnings returns the problems recorded by the last Walk
func (w *Walker) Warnings() []*Warning {
	return w.warnings
}

// Walk visits every entry under root, descending directories in lexical order,
// and calls emit for each regular file that passes the filter and size limits.
// Symlinked directories are followed only once the real tree has been walked,
// so a link never claims a directory ahead of its real path. Unreadable
// directories and bad links are recorded as warnings. The only error returned
// is the context's.
func (w *Walker) Walk(ctx context.Context, root string, emit func(FileEntry)) error {
	w.visited = make(map[dirKey]struct{})
	w.links = nil
	w.warnings = nil
	w.next = 0

	info, err := w.fs.Stat(root)
	if err != nil {
		w.warn(WarnTraversal, root, err)
		return nil
	}
	key := dirIdentity(root, info)
	w.visited[key] = struct{}{}

	if err := w.walkDir(ctx, root, []dirKey{key}, emit); err != nil {
		return err
	}

	// Links found while following links are appended and handled in turn
	for i := 0; i < len(w.links); i++ {
		if err := w.followLink(ctx, w.links[i], emit); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) walkDir(ctx context.Context, dir string, stack []dirKey, emit func(FileEntry)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// afero.ReadDir returns entries sorted by name, without following links
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		w.warn(WarnTraversal, dir, err)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		info, ok := w.resolve(path, entry)
		if !ok {
			continue
		}

		switch {
		case info.IsDir():
			if w.excluded(entry.Name()) {
				w.logger.Debug("skipping excluded directory", zap.String("path", path))
				continue
			}
			if entry.Mode()&os.ModeSymlink != 0 {
				w.links = append(w.links, pendingLink{path: path, info: info, stack: slices.Clone(stack)})
				continue
			}
			if err := w.descend(ctx, path, info, stack, emit); err != nil {
				return err
			}

		case info.Mode().IsRegular():
			if !w.opts.Filter.Match(entry.Name()) || !w.sizeAllowed(info.Size()) {
				continue
			}
			emit(FileEntry{Path: path, Size: info.Size(), Index: w.next})
			w.next++
		}
		// Sockets, devices and pipes fall through
	}

	return nil
}

func (w *Walker) followLink(ctx context.Context, link pendingLink, emit func(FileEntry)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.descend(ctx, link.path, link.info, link.stack, emit)
}

// descend walks dir unless it is one of its own ancestors (a loop) or has
// already been walked through another path.
func (w *Walker) descend(ctx context.Context, dir string, info os.FileInfo, stack []dirKey, emit func(FileEntry)) error {
	key := dirIdentity(dir, info)
	if slices.Contains(stack, key) {
		w.warn(WarnSymlinkCycle, dir, nil)
		return nil
	}
	if _, seen := w.visited[key]; seen {
		w.warn(WarnAlreadyScanned, dir, nil)
		return nil
	}
	w.visited[key] = struct{}{}
	return w.walkDir(ctx, dir, append(stack, key), emit)
}

// resolve follows a symlink entry to its target. ok is false when the entry
// must be skipped.
func (w *Walker) resolve(path string, entry os.FileInfo) (os.FileInfo, bool) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry, true
	}
	if !w.opts.FollowSymlinks {
		return nil, false
	}

	target, err := w.fs.Stat(path)
	switch {
	case err == nil:
		return target, true
	case errors.Is(err, fs.ErrNotExist):
		w.warn(WarnBrokenSymlink, path, err)
	case isLinkLoop(err):
		w.warn(WarnSymlinkCycle, path, err)
	default:
		w.warn(WarnTraversal, path, err)
	}
	return nil, false
}

func (w *Walker) excluded(name string) bool {
	for _, pattern := range w.opts.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func (w *Walker) sizeAllowed(size int64) bool {
	if size < w.opts.MinSize {
		return false
	}
	return w.opts.MaxSize <= 0 || size <= w.opts.MaxSize
}

func (w *Walker) warn(kind WarningKind, path string, err error) {
	warning := newWarning(kind, path, err)
	w.warnings = append(w.warnings, warning)
	w.logger.Warn("walk warning",
		zap.String("kind", kind.String()),
		zap.String("path", path),
		zap.String("reason", warning.Reason.String()),
		zap.Error(err))
}

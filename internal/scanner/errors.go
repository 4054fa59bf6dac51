package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

var (
	// ErrRootNotFound is returned when the scan root does not exist
	ErrRootNotFound = errors.New("root directory does not exist")
	// ErrRootNotDirectory is returned when the scan root is not a directory
	ErrRootNotDirectory = errors.New("root is not a directory")
)

// ScanError aborts a whole scan. It is only produced for problems with the root.
type ScanError struct {
	Root string
	Err  error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ReadError is returned by the hasher when a file cannot be opened or read to the end
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WarningKind says which stage produced a warning
type WarningKind int

const (
	WarnTraversal WarningKind = iota
	WarnFileRead
	WarnSymlinkCycle
	WarnBrokenSymlink
	WarnAlreadyScanned
)

// String returns a human-readable kind
func (k WarningKind) String() string {
	switch k {
	case WarnTraversal:
		return "traversal"
	case WarnFileRead:
		return "file read"
	case WarnSymlinkCycle:
		return "symlink cycle"
	case WarnBrokenSymlink:
		return "broken symlink"
	case WarnAlreadyScanned:
		return "already scanned"
	default:
		return "unknown"
	}
}

// ErrorReason categorizes the OS error behind a warning
type ErrorReason int

const (
	ReasonPermissionDenied ErrorReason = iota
	ReasonNotFound
	ReasonIOError
	ReasonUnknown
)

// String returns a human-readable error reason
func (r ErrorReason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "Permission denied"
	case ReasonNotFound:
		return "Not found"
	case ReasonIOError:
		return "I/O error"
	default:
		return "Unknown error"
	}
}

// Warning is a non-fatal problem. The affected file or subtree is left out
// of the result and the scan carries on.
type Warning struct {
	Kind   WarningKind
	Path   string
	Reason ErrorReason
	Err    error
}

// Error implements the error interface
func (w *Warning) Error() string {
	if w.Err == nil {
		return fmt.Sprintf("%s: %s", w.Kind, w.Path)
	}
	return fmt.Sprintf("%s: %s (%v)", w.Kind, w.Path, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// UserMessage returns a user-friendly warning message
func (w *Warning) UserMessage() string {
	switch w.Kind {
	case WarnSymlinkCycle:
		return fmt.Sprintf("↻  Skipped symlink loop: %s", w.Path)
	case WarnBrokenSymlink:
		return fmt.Sprintf("ℹ️  Broken symlink: %s", w.Path)
	case WarnAlreadyScanned:
		return fmt.Sprintf("↷  Skipped link to a directory already scanned: %s", w.Path)
	case WarnTraversal:
		if w.Reason == ReasonPermissionDenied {
			return fmt.Sprintf("⚠️  Cannot read directory (permission denied): %s", w.Path)
		}
		return fmt.Sprintf("⚠️  Cannot read directory: %s (%v)", w.Path, w.Err)
	case WarnFileRead:
		switch w.Reason {
		case ReasonPermissionDenied:
			return fmt.Sprintf("⚠️  Cannot read file (permission denied): %s", w.Path)
		case ReasonNotFound:
			return fmt.Sprintf("ℹ️  File vanished during scan: %s", w.Path)
		}
		return fmt.Sprintf("❌ Error reading %s: %v", w.Path, w.Err)
	default:
		return fmt.Sprintf("❌ %s: %v", w.Path, w.Err)
	}
}

// CategorizeError maps an OS error to a reason
func CategorizeError(err error) ErrorReason {
	if err == nil {
		return ReasonUnknown
	}

	if errors.Is(err, fs.ErrNotExist) {
		return ReasonNotFound
	}
	if errors.Is(err, fs.ErrPermission) {
		return ReasonPermissionDenied
	}

	// Check syscall errors
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			return ReasonPermissionDenied
		case syscall.ENOENT:
			return ReasonNotFound
		default:
			return ReasonIOError
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ReasonIOError
	}

	return ReasonUnknown
}

func newWarning(kind WarningKind, path string, err error) *Warning {
	return &Warning{
		Kind:   kind,
		Path:   path,
		Reason: CategorizeError(err),
		Err:    err,
	}
}

// GroupWarnings groups warnings by kind
func GroupWarnings(warnings []*Warning) map[WarningKind][]*Warning {
	grouped := make(map[WarningKind][]*Warning)
	for _, w := range warnings {
		grouped[w.Kind] = append(grouped[w.Kind], w)
	}
	return grouped
}

// FormatWarningSummary creates a user-friendly summary of warnings
func FormatWarningSummary(warnings []*Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	grouped := GroupWarnings(warnings)
	var lines []string

	if dirs, ok := grouped[WarnTraversal]; ok {
		lines = append(lines, fmt.Sprintf("Unreadable directories: %d", len(dirs)))
		if countReason(dirs, ReasonPermissionDenied) > 0 {
			lines = append(lines, "│  └─ Tip: Check directory permissions or run as a user who can read them")
		}
	}

	if files, ok := grouped[WarnFileRead]; ok {
		lines = append(lines, fmt.Sprintf("Unreadable files: %d", len(files)))
		if n := countReason(files, ReasonNotFound); n > 0 {
			lines = append(lines, fmt.Sprintf("│  └─ %d vanished between listing and hashing", n))
		}
	}

	if loops, ok := grouped[WarnSymlinkCycle]; ok {
		lines = append(lines, fmt.Sprintf("Symlink loops skipped: %d", len(loops)))
	}

	if repeats, ok := grouped[WarnAlreadyScanned]; ok {
		lines = append(lines, fmt.Sprintf("Links to scanned directories: %d", len(repeats)))
	}

	if broken, ok := grouped[WarnBrokenSymlink]; ok {
		lines = append(lines, fmt.Sprintf("Broken symlinks: %d", len(broken)))
	}

	var b strings.Builder
	b.WriteString("\n⚠️  Issues encountered:\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "│"):
			b.WriteString("   " + line + "\n")
		case i == len(lines)-1:
			b.WriteString("   └─ " + line + "\n")
		default:
			b.WriteString("   ├─ " + line + "\n")
		}
	}
	return b.String()
}

func countReason(warnings []*Warning, reason ErrorReason) int {
	n := 0
	for _, w := range warnings {
		if w.Reason == reason {
			n++
		}
	}
	return n
}

// Package filter decides which discovered files take part in duplicate detection.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the shape of a filter pattern
type Kind int

const (
	MatchAll Kind = iota
	ExactName
	ExtensionWildcard
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case MatchAll:
		return "all"
	case ExactName:
		return "exact"
	case ExtensionWildcard:
		return "extension"
	default:
		return "unknown"
	}
}

// Pattern is a parsed file name filter. The zero value matches every file.
type Pattern struct {
	kind  Kind
	value string // full name for ExactName, literal suffix (".log") for ExtensionWildcard
	raw   string
}

// All returns a pattern that accepts every file
func All() Pattern {
	return Pattern{kind: MatchAll}
}

// Name returns a pattern accepting only files called name
func Name(name string) Pattern {
	return Pattern{kind: ExactName, value: name, raw: name}
}

// Extension returns a pattern accepting files whose name ends with suffix
func Extension(suffix string) Pattern {
	return Pattern{kind: ExtensionWildcard, value: suffix, raw: "*" + suffix}
}

// Parse turns a user supplied pattern into a Pattern.
//
//	""          matches everything
//	"*.ext"     matches names ending in ".ext" (case-sensitive)
//	anything else is compared against the whole file name
func Parse(raw string) Pattern {
	if raw == "" {
		return All()
	}
	if rest, ok := strings.CutPrefix(raw, "*"); ok && strings.HasPrefix(rest, ".") && !strings.Contains(rest, "*") {
		return Extension(rest)
	}
	return Name(raw)
}

// Validate rejects patterns that name a path rather than a file
func Validate(raw string) error {
	if strings.ContainsRune(raw, '/') || strings.ContainsRune(raw, filepath.Separator) {
		return fmt.Errorf("filter must be a file name or *.ext, not a path: %s", raw)
	}
	if raw == "." || raw == ".." {
		return fmt.Errorf("filter is not a file name: %s", raw)
	}
	return nil
}

// Kind returns the pattern shape
func (p Pattern) Kind() Kind {
	return p.kind
}

// Match reports whether a file with the given base name passes the filter
func (p Pattern) Match(name string) bool {
	switch p.kind {
	case ExactName:
		return name == p.value
	case ExtensionWildcard:
		return strings.HasSuffix(name, p.value)
	default:
		return true
	}
}

// MatchPath applies the filter to the base name of path
func (p Pattern) MatchPath(path string) bool {
	return p.Match(filepath.Base(path))
}

// String returns the pattern as the user wrote it
func (p Pattern) String() string {
	return p.raw
}

// Describe returns a short human description used in scan banners
func (p Pattern) Describe() string {
	switch p.kind {
	case ExactName:
		return fmt.Sprintf("files named '%s'", p.value)
	case ExtensionWildcard:
		return fmt.Sprintf("files ending in '%s'", p.value)
	default:
		return "all files"
	}
}

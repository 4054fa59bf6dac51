package scanner

import (
	"crypto/sha256"
	"time"

	"github.com/fenilsonani/dupescan/pkg/utils"
	"github.com/google/uuid"
)

// FileEntry is a regular file found by the walker
type FileEntry struct {
	Path  string // absolute
	Size  int64  // from metadata, never from reading content
	Index int    // position in discovery order
}

// SizeBucket holds every candidate of one exact size, in discovery order
type SizeBucket struct {
	Size  int64
	Files []FileEntry
}

// Digest is the SHA-256 of a file's full content
type Digest [sha256.Size]byte

// String returns the digest as lowercase hex
func (d Digest) String() string {
	return utils.HexDigest(d[:])
}

// Short returns the first 12 hex characters, for display
func (d Digest) Short() string {
	return d.String()[:12]
}

// DuplicateGroup is a set of two or more files with identical content.
// Paths are in discovery order.
type DuplicateGroup struct {
	Size   int64
	Digest Digest
	Paths  []string

	first int // discovery index of Paths[0]
}

// WastedBytes is the space held by every copy but one
func (g DuplicateGroup) WastedBytes() int64 {
	if len(g.Paths) < 2 {
		return 0
	}
	return g.Size * int64(len(g.Paths)-1)
}

// Stats summarises the work done by one scan
type Stats struct {
	FilesSeen      int   // files emitted by the walker
	BytesSeen      int64 // their total size
	Candidates     int   // files sharing a size with at least one other
	SizeBuckets    int
	FilesHashed    int
	BytesHashed    int64
	DuplicateFiles int // files in groups, originals included
	WastedBytes    int64
}

// Result is the outcome of a single scan
type Result struct {
	ID        uuid.UUID
	Root      string
	Filter    string
	Groups    []DuplicateGroup
	Warnings  []*Warning
	Stats     Stats
	StartedAt time.Time
	Duration  time.Duration
}

// HasDuplicates reports whether any group was found
func (r *Result) HasDuplicates() bool {
	return len(r.Groups) > 0
}

// Paths flattens the groups into their member paths, one slice per group
func (r *Result) Paths() [][]string {
	out := make([][]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		out = append(out, g.Paths)
	}
	return out
}

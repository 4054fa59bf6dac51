package scanner

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fenilsonani/dupescan/pkg/utils"
	"github.com/spf13/afero"
)

// Hasher computes content digests with a bounded read buffer. It is safe for
// concurrent use.
type Hasher struct {
	fs        afero.Fs
	chunkSize int
	buffers   sync.Pool

	count atomic.Int64
	bytes atomic.Int64
}

// NewHasher creates a hasher reading chunkSize bytes at a time.
// A non-positive chunkSize selects utils.DefaultChunkSize.
func NewHasher(fsys afero.Fs, chunkSize int) *Hasher {
	if chunkSize <= 0 {
		chunkSize = utils.DefaultChunkSize
	}
	h := &Hasher{
		fs:        fsys,
		chunkSize: chunkSize,
	}
	h.buffers.New = func() interface{} {
		buf := make([]byte, h.chunkSize)
		return &buf
	}
	return h
}

// Hash streams the file at path through SHA-256. Any open, read or close
// failure comes back as a *ReadError.
func (h *Hasher) Hash(path string) (Digest, error) {
	h.count.Add(1)

	f, err := h.fs.Open(path)
	if err != nil {
		return Digest{}, &ReadError{Path: path, Err: err}
	}

	bufp := h.buffers.Get().(*[]byte)
	sum, n, err := utils.HashStream(f, *bufp)
	h.buffers.Put(bufp)
	h.bytes.Add(n)

	if err = errors.Join(err, f.Close()); err != nil {
		return Digest{}, &ReadError{Path: path, Err: err}
	}
	return Digest(sum), nil
}

// Count is the number of Hash calls made so far
func (h *Hasher) Count() int {
	return int(h.count.Load())
}

// BytesRead is the number of content bytes consumed so far
func (h *Hasher) BytesRead() int64 {
	return h.bytes.Load()
}

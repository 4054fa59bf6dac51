package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
)

// DefaultChunkSize is the read size used when streaming file content into a hash
const DefaultChunkSize = 64 * KB

// ErrInvalidChunkSize is returned when a zero-length buffer is supplied for streaming
var ErrInvalidChunkSize = errors.New("chunk buffer must not be empty")

// HashStream feeds r into SHA-256 one buffer at a time and returns the digest and
// the number of bytes consumed. Memory use is bounded by len(buf).
func HashStream(r io.Reader, buf []byte) (sum [sha256.Size]byte, n int64, err error) {
	if len(buf) == 0 {
		return sum, 0, ErrInvalidChunkSize
	}

	hash := sha256.New()
	for {
		read, readErr := r.Read(buf)
		if read > 0 {
			hash.Write(buf[:read])
			n += int64(read)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return sum, n, readErr
		}
	}

	copy(sum[:], hash.Sum(nil))
	return sum, n, nil
}

// HexDigest renders a digest as lowercase hex
func HexDigest(sum []byte) string {
	return hex.EncodeToString(sum)
}

// Package hashutil computes content digests for duplicate detection.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// copyBufferSize bounds the per-read chunk so large files never load
// entirely into memory.
const copyBufferSize = 64 * 1024

// HashFile computes the SHA-256 digest of a file's content and returns
// it hex-encoded. Content is streamed in bounded chunks.
//
// An error is returned when the file cannot be opened or read, for
// example when it was deleted between scan and hash. Callers treat that
// as a per-file skip, not a fatal condition.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", path, err)
	}
	defer file.Close()

	h := sha256.New()
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

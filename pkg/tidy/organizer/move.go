package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// rename moves a file, falling back to copy-and-remove when the source
// and destination live on different filesystems.
func rename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	return copyAndRemove(src, dst)
}

// copyAndRemove copies src to dst preserving mode and modification time,
// then removes src. The destination is created exclusively so a
// concurrent claim of the same name fails rather than clobbers.
func copyAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying content: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("closing destination: %w", err)
	}

	// Keep the original timestamps so date grouping stays stable.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}

	return nil
}

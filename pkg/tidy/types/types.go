// Package types provides core data types for the tidy file organizer.
// It includes the per-file record tracked through an organize run, the
// terminal disposition of each record, and utility functions for parsing
// and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Disposition is the terminal state of a file at the end of a run.
// Every scanned file ends the run in exactly one disposition.
type Disposition int

const (
	// DispositionPending means the file has been scanned but not yet resolved.
	DispositionPending Disposition = iota

	// DispositionMoved means the file was moved into the organized tree.
	DispositionMoved

	// DispositionDeletedDuplicate means the file was removed as a
	// non-canonical duplicate of another file.
	DispositionDeletedDuplicate

	// DispositionDryRun means the intended move or delete was recorded
	// without touching the filesystem.
	DispositionDryRun

	// DispositionSkipped means the file could not be processed; the reason
	// is recorded on the record.
	DispositionSkipped
)

// String returns the string representation of the disposition.
func (d Disposition) String() string {
	switch d {
	case DispositionPending:
		return "pending"
	case DispositionMoved:
		return "moved"
	case DispositionDeletedDuplicate:
		return "deleted-duplicate"
	case DispositionDryRun:
		return "dry-run"
	case DispositionSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// FileRecord tracks a single file through an organize run.
// The scanner creates records; classification fills in Category and Digest;
// the organizer assigns the terminal Disposition and destination.
type FileRecord struct {
	// Path is the absolute path to the file in the source directory.
	Path string `json:"path"`

	// Name is the base name of the file.
	Name string `json:"name"`

	// Ext is the file extension including the dot, lowercased (e.g., ".pdf").
	// Empty when the file has no extension.
	Ext string `json:"ext"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`

	// Category is the label assigned by the categorizer.
	Category string `json:"category"`

	// Digest is the hex-encoded content digest, computed during
	// classification. Empty when hashing failed.
	Digest string `json:"digest,omitempty"`

	// DuplicateOf is the path of the canonical copy when this record was
	// resolved as a duplicate. Empty for canonical and unique files.
	DuplicateOf string `json:"duplicate_of,omitempty"`

	// DestPath is the destination chosen by the organizer, relative to the
	// organized root. Set for moved and dry-run records.
	DestPath string `json:"dest_path,omitempty"`

	// Disposition is the terminal state of the file.
	Disposition Disposition `json:"disposition"`

	// SkipReason explains why the file was skipped. Only set when
	// Disposition is DispositionSkipped.
	SkipReason string `json:"skip_reason,omitempty"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (f *FileRecord) HumanSize() string {
	return FormatSize(f.Size)
}

// IsDuplicate reports whether this record was resolved as a non-canonical
// duplicate of another file.
func (f *FileRecord) IsDuplicate() bool {
	return f.DuplicateOf != ""
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports plain bytes ("1024"), and K/M/G/T suffixes with optional B or
// iB ("100K", "50MB", "2GiB"). Decimal values are truncated to the nearest
// byte. Leading and trailing whitespace is ignored.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB) for consistency
// with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}


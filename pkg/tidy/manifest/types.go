// Package manifest provides run history logging for the tidy organizer.
package manifest

import "time"

// Entry records a single organize run.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Source    string         `json:"source"`
	DryRun    bool           `json:"dry_run"`
	ByDate    bool           `json:"by_date"`
	Moves     []MoveRecord   `json:"moves,omitempty"`
	Deletes   []DeleteRecord `json:"deletes,omitempty"`
	Summary   Summary        `json:"summary"`
}

// MoveRecord is one file moved into the organized tree.
type MoveRecord struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Category string `json:"category"`
	Size     int64  `json:"size"`
}

// DeleteRecord is one duplicate removed during the run.
type DeleteRecord struct {
	Path      string `json:"path"`
	Canonical string `json:"canonical"`
	Digest    string `json:"digest"`
	Size      int64  `json:"size"`
}

// Summary contains run totals.
type Summary struct {
	FilesMoved     int64 `json:"files_moved"`
	FilesDeleted   int64 `json:"files_deleted"`
	BytesMoved     int64 `json:"bytes_moved"`
	BytesReclaimed int64 `json:"bytes_reclaimed"`
}

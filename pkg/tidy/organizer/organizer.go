// Package organizer implements the tidy move engine.
//
// A run takes the scanner's records through classification (category,
// digest, duplicate resolution) and then drives each record to exactly
// one terminal disposition: moved into the organized tree, deleted as a
// non-canonical duplicate, skipped with a reason, or, in dry-run mode,
// logged without touching the filesystem.
package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/category"
	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/dedup"
	"github.com/jamesainslie/tidy/pkg/tidy/hashutil"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/scanner"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("organizer")

// ErrDestinationNotWritable indicates the organized root could not be
// created or written. This is the only fatal error class; it aborts the
// run before any file is touched.
var ErrDestinationNotWritable = errors.New("destination root not writable")

// dateFolderLayout is the layout for date-grouping subfolders.
const dateFolderLayout = "2006-01"

// Options configures an organize run.
type Options struct {
	// SourceDir is the directory to organize.
	SourceDir string

	// Table maps extensions to categories.
	Table *category.Table

	// Exclude contains glob patterns for file names to skip.
	Exclude []string

	// DryRun computes and records every decision without mutating the
	// filesystem.
	DryRun bool

	// ByDate adds a YYYY-MM subfolder, derived from each file's
	// modification time, below the category folder.
	ByDate bool
}

// Run is the complete outcome of an organize run, consumed by the
// report builder and the history manifest.
type Run struct {
	// Start is when the run began.
	Start time.Time

	// Elapsed is the total run duration.
	Elapsed time.Duration

	// SourceDir is the organized source directory.
	SourceDir string

	// OrganizedRoot is the destination root (<source>/Organized).
	OrganizedRoot string

	// DryRun and ByDate echo the run options.
	DryRun bool
	ByDate bool

	// Records holds every enumerated file with its terminal disposition,
	// in stable scan order.
	Records []*types.FileRecord

	// DuplicateGroups holds the resolved duplicate groups.
	DuplicateGroups []dedup.Group
}

// Organize executes a full run: scan, classify, resolve duplicates, and
// move or delete files (or log intents in dry-run mode).
//
// Per-file failures are recorded as skips and never abort the run. The
// only fatal errors are an unreadable source directory and an unwritable
// destination root, both detected before any mutation.
func Organize(opts Options) (*Run, error) {
	start := time.Now()

	sourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("cannot access source directory %q: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", sourceDir)
	}

	organizedRoot := filepath.Join(sourceDir, config.OrganizedDirName)

	run := &Run{
		Start:         start,
		SourceDir:     sourceDir,
		OrganizedRoot: organizedRoot,
		DryRun:        opts.DryRun,
		ByDate:        opts.ByDate,
	}

	// Fatal check before any mutation: the destination root must be
	// creatable. Dry-run performs no mutation, so it skips the check.
	if !opts.DryRun {
		if err := os.MkdirAll(organizedRoot, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
		}
	}

	scanResult, err := scanner.Scan(scanner.Options{
		Root:    sourceDir,
		Exclude: opts.Exclude,
	})
	if err != nil {
		return nil, err
	}

	records := scanResult.Records
	run.Records = make([]*types.FileRecord, 0, len(records)+len(scanResult.Skipped))

	// Classify: category and digest. Hash failures become skips.
	for _, rec := range records {
		rec.Category = opts.Table.Classify(rec.Ext)

		digest, err := hashutil.HashFile(rec.Path)
		if err != nil {
			rec.Disposition = types.DispositionSkipped
			rec.SkipReason = fmt.Sprintf("hash failed: %v", err)
			logger.Warn("skipping unreadable file", "path", rec.Path, "error", err)
			continue
		}
		rec.Digest = digest
	}

	run.DuplicateGroups = dedup.Resolve(records)

	// claimed tracks destination paths assigned during this run so that
	// collision handling is identical in dry-run and live mode.
	claimed := make(map[string]bool)

	for _, rec := range records {
		if rec.Disposition == types.DispositionSkipped {
			run.Records = append(run.Records, rec)
			continue
		}

		if rec.IsDuplicate() {
			deleteDuplicate(rec, opts.DryRun)
			run.Records = append(run.Records, rec)
			continue
		}

		moveFile(rec, run, opts, claimed)
		run.Records = append(run.Records, rec)
	}

	run.Records = append(run.Records, scanResult.Skipped...)

	run.Elapsed = time.Since(start)
	logger.Info("run complete",
		"source", sourceDir,
		"files", len(records),
		"duplicate_groups", len(run.DuplicateGroups),
		"dry_run", opts.DryRun,
		"elapsed", run.Elapsed)

	return run, nil
}

// deleteDuplicate removes a non-canonical duplicate, or records the
// intent in dry-run mode.
func deleteDuplicate(rec *types.FileRecord, dryRun bool) {
	if dryRun {
		rec.Disposition = types.DispositionDryRun
		logger.Debug("would delete duplicate", "path", rec.Path, "canonical", rec.DuplicateOf)
		return
	}

	if err := os.Remove(rec.Path); err != nil {
		rec.Disposition = types.DispositionSkipped
		rec.SkipReason = fmt.Sprintf("delete failed: %v", err)
		logger.Warn("failed to delete duplicate", "path", rec.Path, "error", err)
		return
	}

	rec.Disposition = types.DispositionDeletedDuplicate
	logger.Info("deleted duplicate", "path", rec.Path, "canonical", rec.DuplicateOf)
}

// moveFile computes the destination for a canonical record and performs
// or logs the move.
func moveFile(rec *types.FileRecord, run *Run, opts Options, claimed map[string]bool) {
	destDir := filepath.Join(run.OrganizedRoot, rec.Category)
	if opts.ByDate {
		destDir = filepath.Join(destDir, rec.ModTime.Format(dateFolderLayout))
	}

	destPath, err := resolveCollision(destDir, rec.Name, claimed)
	if err != nil {
		rec.Disposition = types.DispositionSkipped
		rec.SkipReason = fmt.Sprintf("resolving destination: %v", err)
		logger.Warn("failed to resolve destination", "path", rec.Path, "error", err)
		return
	}
	claimed[destPath] = true

	relDest, err := filepath.Rel(run.OrganizedRoot, destPath)
	if err != nil {
		relDest = destPath
	}
	rec.DestPath = relDest

	if opts.DryRun {
		rec.Disposition = types.DispositionDryRun
		logger.Debug("would move", "path", rec.Path, "dest", relDest)
		return
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		rec.Disposition = types.DispositionSkipped
		rec.SkipReason = fmt.Sprintf("creating %q: %v", destDir, err)
		logger.Warn("failed to create destination", "dir", destDir, "error", err)
		return
	}

	if err := rename(rec.Path, destPath); err != nil {
		rec.Disposition = types.DispositionSkipped
		rec.SkipReason = fmt.Sprintf("move failed: %v", err)
		logger.Warn("failed to move file", "path", rec.Path, "dest", destPath, "error", err)
		return
	}

	rec.Disposition = types.DispositionMoved
	logger.Info("moved", "path", rec.Path, "dest", relDest)
}

// resolveCollision returns a destination path under destDir that neither
// exists on disk nor has been claimed earlier in this run. Conflicting
// names get a numeric suffix before the extension: name_1.ext, name_2.ext.
// A stat failure other than not-exist is returned so the caller can skip
// the file instead of probing candidates forever.
func resolveCollision(destDir, name string, claimed map[string]bool) (string, error) {
	candidate := filepath.Join(destDir, name)
	free, err := available(candidate, claimed)
	if err != nil {
		return "", err
	}
	if free {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		free, err := available(candidate, claimed)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

// available reports whether a destination path is free.
func available(path string, claimed map[string]bool) (bool, error) {
	if claimed[path] {
		return false, nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, fmt.Errorf("stat %q: %w", path, err)
}

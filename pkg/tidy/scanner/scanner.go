// Package scanner enumerates the files of a source directory for the
// tidy organizer.
//
// The scan is non-recursive and sequential: only the immediate children
// of the source directory are considered. Subdirectories, including the
// Organized output directory from this or any previous run, are never
// descended into, which is what makes repeated runs over the same source
// idempotent.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("scanner")

// Options configures a scan.
type Options struct {
	// Root is the source directory to enumerate.
	Root string

	// Exclude contains glob patterns matched against file names.
	// Matching files are left in place and never become records.
	Exclude []string
}

// Result contains the outcome of a scan.
type Result struct {
	// Records are the regular files eligible for organizing.
	Records []*types.FileRecord

	// Skipped are entries that could not be processed (symlinks, special
	// files, stat failures), already carrying a Skipped disposition.
	Skipped []*types.FileRecord

	// DirsExcluded counts subdirectories left untouched.
	DirsExcluded int

	// FilesExcluded counts files excluded by pattern.
	FilesExcluded int

	// Elapsed is the time taken by the scan.
	Elapsed time.Duration
}

// Scan enumerates the immediate children of opts.Root.
// It returns an error only when the root itself cannot be read or an
// exclude pattern is invalid; per-entry problems become Skipped records.
func Scan(opts Options) (*Result, error) {
	start := time.Now()

	globs, err := compilePatterns(opts.Exclude)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %q: %w", opts.Root, err)
	}

	result := &Result{}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(opts.Root, name)

		if entry.IsDir() {
			// Never descend; this also keeps the Organized tree out of scope.
			result.DirsExcluded++
			continue
		}

		if matchesAny(globs, name) {
			logger.Debug("excluded by pattern", "name", name)
			result.FilesExcluded++
			continue
		}

		if !entry.Type().IsRegular() {
			result.Skipped = append(result.Skipped, &types.FileRecord{
				Path:        path,
				Name:        name,
				Disposition: types.DispositionSkipped,
				SkipReason:  fmt.Sprintf("not a regular file (%s)", entry.Type()),
			})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			result.Skipped = append(result.Skipped, &types.FileRecord{
				Path:        path,
				Name:        name,
				Disposition: types.DispositionSkipped,
				SkipReason:  fmt.Sprintf("stat failed: %v", err),
			})
			continue
		}

		result.Records = append(result.Records, &types.FileRecord{
			Path:    path,
			Name:    name,
			Ext:     strings.ToLower(filepath.Ext(name)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	result.Elapsed = time.Since(start)
	logger.Info("scan complete",
		"root", opts.Root,
		"files", len(result.Records),
		"skipped", len(result.Skipped),
		"dirs_excluded", result.DirsExcluded,
		"elapsed", result.Elapsed)

	return result, nil
}

// compilePatterns compiles exclude globs, failing fast on invalid input.
func compilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Package report aggregates the outcome of an organize run into a single
// RunReport structure.
//
// The RunReport is the one source of truth for every rendering: the JSON
// report file, the HTML report file, and the terminal summary all derive
// from it, so the machine-readable and presentational outputs cannot
// drift apart. Building a report is pure: it reads the run's records and
// never mutates them, and the same run always produces the same report
// (modulo the generated run ID).
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/organizer"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("report")

// Metadata describes the run itself.
type Metadata struct {
	RunID             string        `json:"run_id"`
	StartTime         time.Time     `json:"start_time"`
	Duration          time.Duration `json:"duration"`
	SourceDir         string        `json:"source_dir"`
	OrganizedRoot     string        `json:"organized_root"`
	DryRun            bool          `json:"dry_run"`
	ByDate            bool          `json:"by_date"`
	TotalFiles        int           `json:"total_files"`
	TotalBytes        int64         `json:"total_bytes"`
	DuplicatesRemoved int           `json:"duplicates_removed"`
	ReclaimedBytes    int64         `json:"reclaimed_bytes"`
	SkippedFiles      int           `json:"skipped_files"`
}

// CategoryCount is the number of files organized into one category.
// Every category in the table appears, including those with zero files,
// so category sets stay stable across reports.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Bytes    int64  `json:"bytes"`
}

// FileEntry is a single file in the largest/oldest sections.
type FileEntry struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	DestPath string    `json:"dest_path"`
}

// DuplicateEntry is a removed (or to-be-removed) duplicate file.
type DuplicateEntry struct {
	Path        string `json:"path"`
	CanonicalOf string `json:"canonical"`
	Digest      string `json:"digest"`
	Size        int64  `json:"size"`
}

// SkipEntry is a file that could not be processed, with the reason.
type SkipEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// MonthBucket is one month of the historical-additions histogram.
// Counts is keyed by category; months with no files do not appear.
type MonthBucket struct {
	Month  string         `json:"month"` // YYYY-MM
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// RunReport is the aggregate every rendering derives from.
type RunReport struct {
	Meta       Metadata         `json:"meta"`
	Categories []CategoryCount  `json:"categories"`
	Duplicates []DuplicateEntry `json:"duplicates"`
	Largest    []FileEntry      `json:"largest_files"`
	Oldest     []FileEntry      `json:"oldest_files"`
	History    []MonthBucket    `json:"history"`
	Skipped    []SkipEntry      `json:"skipped"`
}

// Build aggregates a finished run into a RunReport.
// categories fixes the category set (and its order) so that empty
// categories render as zero. topN bounds the largest/oldest sections.
func Build(run *organizer.Run, categories []string, topN int) *RunReport {
	if topN <= 0 {
		topN = 10
	}

	rep := &RunReport{
		Meta: Metadata{
			RunID:         uuid.NewString(),
			StartTime:     run.Start,
			Duration:      run.Elapsed,
			SourceDir:     run.SourceDir,
			OrganizedRoot: run.OrganizedRoot,
			DryRun:        run.DryRun,
			ByDate:        run.ByDate,
		},
	}

	counts := make(map[string]*CategoryCount, len(categories))
	for _, cat := range categories {
		cc := &CategoryCount{Category: cat}
		counts[cat] = cc
	}

	months := make(map[string]*MonthBucket)
	var organized []*types.FileRecord

	for _, rec := range run.Records {
		switch {
		case rec.Disposition == types.DispositionSkipped:
			rep.Meta.SkippedFiles++
			rep.Skipped = append(rep.Skipped, SkipEntry{
				Path:   rec.Path,
				Reason: rec.SkipReason,
			})
			continue
		case rec.IsDuplicate():
			// Counted via duplicate groups below.
			continue
		}

		// Moved in live mode, or an intended move in dry-run.
		organized = append(organized, rec)
		rep.Meta.TotalFiles++
		rep.Meta.TotalBytes += rec.Size

		cc, ok := counts[rec.Category]
		if !ok {
			// Category outside the configured set; keep it visible.
			cc = &CategoryCount{Category: rec.Category}
			counts[rec.Category] = cc
			categories = append(categories, rec.Category)
		}
		cc.Count++
		cc.Bytes += rec.Size

		month := rec.ModTime.Format("2006-01")
		bucket, ok := months[month]
		if !ok {
			bucket = &MonthBucket{Month: month, Counts: make(map[string]int)}
			months[month] = bucket
		}
		bucket.Total++
		bucket.Counts[rec.Category]++
	}

	for _, cat := range categories {
		rep.Categories = append(rep.Categories, *counts[cat])
	}

	for _, group := range run.DuplicateGroups {
		for _, dup := range group.Duplicates {
			// A failed delete leaves the duplicate Skipped; it is listed
			// in the skipped section and must not count as reclaimed.
			switch dup.Disposition {
			case types.DispositionDeletedDuplicate, types.DispositionDryRun:
			default:
				continue
			}
			rep.Meta.DuplicatesRemoved++
			rep.Meta.ReclaimedBytes += dup.Size
			rep.Duplicates = append(rep.Duplicates, DuplicateEntry{
				Path:        dup.Path,
				CanonicalOf: dup.DuplicateOf,
				Digest:      group.Digest,
				Size:        dup.Size,
			})
		}
	}

	rep.Largest = topBy(organized, topN, func(a, b *types.FileRecord) bool {
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Path < b.Path
	})
	rep.Oldest = topBy(organized, topN, func(a, b *types.FileRecord) bool {
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
		return a.Path < b.Path
	})

	for _, bucket := range months {
		rep.History = append(rep.History, *bucket)
	}
	sort.Slice(rep.History, func(i, j int) bool {
		return rep.History[i].Month < rep.History[j].Month
	})

	sort.Slice(rep.Skipped, func(i, j int) bool {
		return rep.Skipped[i].Path < rep.Skipped[j].Path
	})

	logger.Info("report built",
		"files", rep.Meta.TotalFiles,
		"duplicates", rep.Meta.DuplicatesRemoved,
		"skipped", rep.Meta.SkippedFiles)

	return rep
}

// topBy returns up to n entries sorted by the given order without
// disturbing the input slice.
func topBy(records []*types.FileRecord, n int, less func(a, b *types.FileRecord) bool) []FileEntry {
	sorted := make([]*types.FileRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	entries := make([]FileEntry, 0, len(sorted))
	for _, rec := range sorted {
		entries = append(entries, FileEntry{
			Name:     rec.Name,
			Category: rec.Category,
			Size:     rec.Size,
			ModTime:  rec.ModTime,
			DestPath: rec.DestPath,
		})
	}
	return entries
}

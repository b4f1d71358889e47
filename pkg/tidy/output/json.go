package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/report"
)

// jsonOutput is the full machine-readable report document.
type jsonOutput struct {
	Meta       jsonMeta               `json:"meta"`
	Categories []report.CategoryCount `json:"category_counts"`
	Duplicates []jsonDuplicate        `json:"duplicates"`
	Largest    []jsonFile             `json:"largest_files"`
	Oldest     []jsonFile             `json:"oldest_files"`
	History    []report.MonthBucket   `json:"history"`
	Skipped    []report.SkipEntry     `json:"skipped"`
}

// jsonMeta represents run metadata in JSON output.
type jsonMeta struct {
	RunID             string    `json:"run_id"`
	StartTime         time.Time `json:"start_time"`
	Duration          string    `json:"duration"`
	SourceDir         string    `json:"source_dir"`
	OrganizedRoot     string    `json:"organized_root"`
	DryRun            bool      `json:"dry_run"`
	ByDate            bool      `json:"by_date"`
	TotalFiles        int       `json:"total_files"`
	TotalBytes        int64     `json:"total_bytes"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	ReclaimedBytes    int64     `json:"reclaimed_bytes"`
	SkippedFiles      int       `json:"skipped_files"`
}

// jsonFile represents a file in the largest/oldest sections.
type jsonFile struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	DestPath string    `json:"dest_path"`
}

// jsonDuplicate represents a removed duplicate.
type jsonDuplicate struct {
	Path      string `json:"path"`
	Canonical string `json:"canonical"`
	Digest    string `json:"digest"`
	Size      int64  `json:"size"`
}

// JSONFormatter formats the report as a single indented JSON document.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *report.RunReport) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts the RunReport to the JSON output structure.
// Nil slices become empty so consumers always see arrays.
func (f *JSONFormatter) buildOutput(r *report.RunReport) jsonOutput {
	duplicates := make([]jsonDuplicate, 0, len(r.Duplicates))
	for _, d := range r.Duplicates {
		duplicates = append(duplicates, jsonDuplicate{
			Path:      d.Path,
			Canonical: d.CanonicalOf,
			Digest:    d.Digest,
			Size:      d.Size,
		})
	}

	out := jsonOutput{
		Meta: jsonMeta{
			RunID:             r.Meta.RunID,
			StartTime:         r.Meta.StartTime,
			Duration:          r.Meta.Duration.String(),
			SourceDir:         r.Meta.SourceDir,
			OrganizedRoot:     r.Meta.OrganizedRoot,
			DryRun:            r.Meta.DryRun,
			ByDate:            r.Meta.ByDate,
			TotalFiles:        r.Meta.TotalFiles,
			TotalBytes:        r.Meta.TotalBytes,
			DuplicatesRemoved: r.Meta.DuplicatesRemoved,
			ReclaimedBytes:    r.Meta.ReclaimedBytes,
			SkippedFiles:      r.Meta.SkippedFiles,
		},
		Categories: append([]report.CategoryCount{}, r.Categories...),
		Duplicates: duplicates,
		Largest:    convertFiles(r.Largest),
		Oldest:     convertFiles(r.Oldest),
		History:    append([]report.MonthBucket{}, r.History...),
		Skipped:    append([]report.SkipEntry{}, r.Skipped...),
	}

	return out
}

func convertFiles(entries []report.FileEntry) []jsonFile {
	files := make([]jsonFile, 0, len(entries))
	for _, e := range entries {
		files = append(files, jsonFile{
			Name:     e.Name,
			Category: e.Category,
			Size:     e.Size,
			ModTime:  e.ModTime,
			DestPath: e.DestPath,
		})
	}
	return files
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

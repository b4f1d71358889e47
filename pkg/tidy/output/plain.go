package output

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/tidy/pkg/tidy/report"
)

// PlainFormatter formats the run summary as unstyled text.
// Suitable for non-TTY output and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *report.RunReport) error {
	fmt.Fprintf(w, "source: %s\n", r.Meta.SourceDir)
	fmt.Fprintf(w, "organized: %s\n", r.Meta.OrganizedRoot)
	if r.Meta.DryRun {
		fmt.Fprintf(w, "mode: dry-run\n")
	}
	fmt.Fprintf(w, "files: %d (%s)\n", r.Meta.TotalFiles, humanize.IBytes(uint64(r.Meta.TotalBytes)))
	fmt.Fprintf(w, "duplicates: %d (%s reclaimed)\n",
		r.Meta.DuplicatesRemoved, humanize.IBytes(uint64(r.Meta.ReclaimedBytes)))
	fmt.Fprintf(w, "skipped: %d\n", r.Meta.SkippedFiles)
	w.WriteString("\n")

	for _, cc := range r.Categories {
		fmt.Fprintf(w, "%s\t%d\t%s\n", cc.Category, cc.Count, humanize.IBytes(uint64(cc.Bytes)))
	}

	if len(r.Skipped) > 0 {
		w.WriteString("\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "skipped %s: %s\n", s.Path, s.Reason)
		}
	}

	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)

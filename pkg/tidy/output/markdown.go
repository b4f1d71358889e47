package output

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/jamesainslie/tidy/pkg/tidy/report"
)

// MarkdownFormatter renders the report as GitHub-flavored markdown with
// a mermaid pie chart of the category distribution. Useful for pasting
// into issues or docs.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *report.RunReport) error {
	md := markdown.NewMarkdown(w)

	f.writeHeader(md, r)
	f.writeCategories(md, r)
	f.writeHistory(md, r)
	f.writeTopFiles(md, r)
	f.writeDuplicates(md, r)
	f.writeSkipped(md, r)

	return md.Build()
}

// writeHeader writes the report header with run metadata.
func (f *MarkdownFormatter) writeHeader(md *markdown.Markdown, r *report.RunReport) {
	md.H1("Organization Report")
	md.PlainText("")

	if r.Meta.DryRun {
		md.Note("Dry run: no files were moved or deleted.")
		md.PlainText("")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + r.Meta.RunID + "`"},
			{"Started", r.Meta.StartTime.Format("2006-01-02 15:04:05")},
			{"Duration", r.Meta.Duration.Round(time.Millisecond).String()},
			{"Source", "`" + r.Meta.SourceDir + "`"},
			{"Files organized", strconv.Itoa(r.Meta.TotalFiles)},
			{"Total size", humanize.IBytes(uint64(r.Meta.TotalBytes))},
			{"Duplicates removed", strconv.Itoa(r.Meta.DuplicatesRemoved)},
			{"Space reclaimed", humanize.IBytes(uint64(r.Meta.ReclaimedBytes))},
			{"Skipped", strconv.Itoa(r.Meta.SkippedFiles)},
		},
	})
	md.PlainText("")
}

// writeCategories writes the category table and pie chart.
func (f *MarkdownFormatter) writeCategories(md *markdown.Markdown, r *report.RunReport) {
	md.H2("Category Distribution")
	md.PlainText("")

	rows := make([][]string, 0, len(r.Categories))
	for _, cc := range r.Categories {
		rows = append(rows, []string{
			cc.Category,
			strconv.Itoa(cc.Count),
			humanize.IBytes(uint64(cc.Bytes)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Files", "Size"},
		Rows:   rows,
	})

	if r.Meta.TotalFiles > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Files per Category"),
			piechart.WithShowData(true),
		)
		for _, cc := range r.Categories {
			if cc.Count > 0 {
				chart.LabelAndIntValue(cc.Category, uint64(cc.Count))
			}
		}

		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	}
	md.PlainText("")
}

// writeHistory writes the monthly additions histogram.
func (f *MarkdownFormatter) writeHistory(md *markdown.Markdown, r *report.RunReport) {
	md.H2("Historical Additions")
	md.PlainText("")

	if len(r.History) == 0 {
		md.PlainText("No files.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(r.History))
	for _, bucket := range r.History {
		rows = append(rows, []string{bucket.Month, strconv.Itoa(bucket.Total)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Month", "Files"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTopFiles writes the largest and oldest file tables.
func (f *MarkdownFormatter) writeTopFiles(md *markdown.Markdown, r *report.RunReport) {
	md.H2("Largest Files")
	md.PlainText("")
	f.fileTable(md, r.Largest, func(e report.FileEntry) string {
		return humanize.IBytes(uint64(e.Size))
	}, "Size")

	md.H2("Oldest Files")
	md.PlainText("")
	f.fileTable(md, r.Oldest, func(e report.FileEntry) string {
		return e.ModTime.Format("2006-01-02")
	}, "Last Modified")
}

// fileTable writes one largest/oldest table with a caller-chosen column.
func (f *MarkdownFormatter) fileTable(md *markdown.Markdown, entries []report.FileEntry, value func(report.FileEntry) string, column string) {
	if len(entries) == 0 {
		md.PlainText("No files.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, value(e), e.Category, "`" + e.DestPath + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", column, "Category", "Destination"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDuplicates writes the duplicates section.
func (f *MarkdownFormatter) writeDuplicates(md *markdown.Markdown, r *report.RunReport) {
	md.H2("Duplicates Removed")
	md.PlainText("")

	if len(r.Duplicates) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(r.Duplicates))
	for _, d := range r.Duplicates {
		digest := d.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		rows = append(rows, []string{
			"`" + d.Path + "`",
			humanize.IBytes(uint64(d.Size)),
			"`" + d.CanonicalOf + "`",
			"`" + digest + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Size", "Kept Copy", "Digest"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSkipped writes the skipped files section when present.
func (f *MarkdownFormatter) writeSkipped(md *markdown.Markdown, r *report.RunReport) {
	if len(r.Skipped) == 0 {
		return
	}

	md.H2("Skipped Files")
	md.PlainText("")

	rows := make([][]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		rows = append(rows, []string{"`" + s.Path + "`", s.Reason})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)

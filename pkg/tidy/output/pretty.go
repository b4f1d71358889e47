package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/tidy/pkg/tidy/report"
)

// maxBarWidth is the widest category histogram bar in the terminal view.
const maxBarWidth = 30

// PrettyFormatter formats the run summary with colors and styling using
// lipgloss. It produces the terminal output shown after a run.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *report.RunReport) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	w.WriteString(f.formatCategories(r))

	if len(r.Duplicates) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatDuplicates(r))
	}

	if len(r.Skipped) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatSkipped(r))
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *report.RunReport) string {
	var lines []string

	sourceLabel := LabelStyle.Render("Source:")
	sourceValue := ValueStyle.Render(r.Meta.SourceDir)
	lines = append(lines, fmt.Sprintf("%s %s", sourceLabel, sourceValue))

	var infoParts []string

	organizedLabel := LabelStyle.Render("Organized:")
	organizedValue := ValueStyle.Render(fmt.Sprintf("%d files in %s",
		r.Meta.TotalFiles, r.Meta.Duration.Round(1e6)))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", organizedLabel, organizedValue))

	if r.Meta.ByDate {
		infoParts = append(infoParts, MutedStyle.Render("grouped by month"))
	}

	if r.Meta.DryRun {
		infoParts = append(infoParts, WarningStyle.Bold(true).Render("DRY RUN"))
	}

	lines = append(lines, strings.Join(infoParts, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatCategories builds the category histogram.
func (f *PrettyFormatter) formatCategories(r *report.RunReport) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Categories"))
	sb.WriteString("\n")

	max := 0
	labelWidth := 0
	for _, cc := range r.Categories {
		if cc.Count > max {
			max = cc.Count
		}
		if len(cc.Category) > labelWidth {
			labelWidth = len(cc.Category)
		}
	}

	for _, cc := range r.Categories {
		bar := ""
		if max > 0 && cc.Count > 0 {
			width := cc.Count * maxBarWidth / max
			if width < 1 {
				width = 1
			}
			bar = BarStyle.Render(strings.Repeat("█", width))
		}

		count := ValueStyle.Render(fmt.Sprintf("%4d", cc.Count))
		size := ""
		if cc.Bytes > 0 {
			size = MutedStyle.Render("  " + humanize.IBytes(uint64(cc.Bytes)))
		}
		sb.WriteString(fmt.Sprintf("  %-*s %s %s%s\n", labelWidth, cc.Category, count, bar, size))
	}

	return sb.String()
}

// formatDuplicates builds the duplicates section.
func (f *PrettyFormatter) formatDuplicates(r *report.RunReport) string {
	var sb strings.Builder

	verb := "removed"
	if r.Meta.DryRun {
		verb = "to remove"
	}
	title := fmt.Sprintf("Duplicates %s (%s reclaimed)",
		verb, humanize.IBytes(uint64(r.Meta.ReclaimedBytes)))
	sb.WriteString(TitleStyle.Render(title))
	sb.WriteString("\n")

	for _, d := range r.Duplicates {
		sizeStr := SizeStyle.Render(humanize.IBytes(uint64(d.Size)))
		sb.WriteString(fmt.Sprintf("  %s  %s %s\n",
			sizeStr, ValueStyle.Render(d.Path),
			MutedStyle.Render("(kept "+d.CanonicalOf+")")))
	}

	return sb.String()
}

// formatSkipped builds the skipped files warning block.
func (f *PrettyFormatter) formatSkipped(r *report.RunReport) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Skipped:"))
	sb.WriteString("\n")

	for _, s := range r.Skipped {
		sb.WriteString(WarningStyle.Render(fmt.Sprintf("  %s: %s", s.Path, s.Reason)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *report.RunReport) string {
	var parts []string

	fileCountLabel := LabelStyle.Render("Files:")
	fileCountValue := ValueStyle.Render(fmt.Sprintf("%d", r.Meta.TotalFiles))
	parts = append(parts, fmt.Sprintf("%s %s", fileCountLabel, fileCountValue))

	totalSizeLabel := LabelStyle.Render("Total:")
	totalSizeValue := SizeStyle.Render(humanize.IBytes(uint64(r.Meta.TotalBytes)))
	parts = append(parts, fmt.Sprintf("%s %s", totalSizeLabel, totalSizeValue))

	dupLabel := LabelStyle.Render("Duplicates:")
	dupValue := ValueStyle.Render(fmt.Sprintf("%d", r.Meta.DuplicatesRemoved))
	parts = append(parts, fmt.Sprintf("%s %s", dupLabel, dupValue))

	if r.Meta.SkippedFiles > 0 {
		skipLabel := LabelStyle.Render("Skipped:")
		skipValue := WarningStyle.Render(fmt.Sprintf("%d", r.Meta.SkippedFiles))
		parts = append(parts, fmt.Sprintf("%s %s", skipLabel, skipValue))
	}

	return FooterBox.Render(strings.Join(parts, "  "))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)

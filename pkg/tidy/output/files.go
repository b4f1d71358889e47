package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/tidy/pkg/tidy/report"
)

// reportTimestampLayout names report files after the run start time.
const reportTimestampLayout = "20060102_150405"

// WriteReportFiles renders the machine-readable (json) and
// presentational (html) reports and writes them into dir as
// report_<timestamp>.json and report_<timestamp>.html.
// Both renderings derive from the same RunReport, so they always agree.
// Returns the paths written.
func WriteReportFiles(r *report.RunReport, dir string) ([]string, error) {
	stamp := r.Meta.StartTime.Format(reportTimestampLayout)

	var paths []string
	for _, format := range []struct {
		name string
		ext  string
	}{
		{"json", "json"},
		{"html", "html"},
	} {
		formatter, err := Get(format.name)
		if err != nil {
			return paths, err
		}

		var buf bytes.Buffer
		if err := formatter.Format(&buf, r); err != nil {
			return paths, fmt.Errorf("rendering %s report: %w", format.name, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("report_%s.%s", stamp, format.ext))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s report: %w", format.name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

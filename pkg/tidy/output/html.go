package output

import (
	"bytes"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/tidy/pkg/tidy/report"
)

// HTMLFormatter renders the report as a self-contained HTML document
// with CSS bar charts for the category distribution and the monthly
// additions history. This is the presentational report file written
// next to the JSON report.
type HTMLFormatter struct{}

// htmlBar is one row of a bar chart with a precomputed width.
type htmlBar struct {
	Label   string
	Count   int
	Detail  string
	Percent int // 0-100, relative to the largest row
}

// htmlData is the data passed to the HTML template.
type htmlData struct {
	Meta          report.Metadata
	Generated     string
	Duration      string
	TotalHuman    string
	ReclaimedHuman string
	CategoryBars  []htmlBar
	HistoryBars   []htmlBar
	Largest       []report.FileEntry
	Oldest        []report.FileEntry
	Duplicates    []report.DuplicateEntry
	Skipped       []report.SkipEntry
}

// Format writes the formatted output to the buffer.
func (f *HTMLFormatter) Format(w *bytes.Buffer, r *report.RunReport) error {
	tmpl, err := template.New("report").Funcs(htmlFuncs()).Parse(htmlTemplate)
	if err != nil {
		return err
	}

	data := htmlData{
		Meta:          r.Meta,
		Generated:     r.Meta.StartTime.Format("2006-01-02 15:04:05"),
		Duration:      r.Meta.Duration.Round(time.Millisecond).String(),
		TotalHuman:    humanize.IBytes(uint64(r.Meta.TotalBytes)),
		ReclaimedHuman: humanize.IBytes(uint64(r.Meta.ReclaimedBytes)),
		CategoryBars:  categoryBars(r),
		HistoryBars:   historyBars(r),
		Largest:       r.Largest,
		Oldest:        r.Oldest,
		Duplicates:    r.Duplicates,
		Skipped:       r.Skipped,
	}

	return tmpl.Execute(w, data)
}

// categoryBars converts category counts into chart rows. Every category
// appears, zero counts included, so charts are comparable across runs.
func categoryBars(r *report.RunReport) []htmlBar {
	max := 0
	for _, cc := range r.Categories {
		if cc.Count > max {
			max = cc.Count
		}
	}

	bars := make([]htmlBar, 0, len(r.Categories))
	for _, cc := range r.Categories {
		bars = append(bars, htmlBar{
			Label:   cc.Category,
			Count:   cc.Count,
			Detail:  humanize.IBytes(uint64(cc.Bytes)),
			Percent: percent(cc.Count, max),
		})
	}
	return bars
}

// historyBars converts the monthly histogram into chart rows.
func historyBars(r *report.RunReport) []htmlBar {
	max := 0
	for _, bucket := range r.History {
		if bucket.Total > max {
			max = bucket.Total
		}
	}

	bars := make([]htmlBar, 0, len(r.History))
	for _, bucket := range r.History {
		bars = append(bars, htmlBar{
			Label:   bucket.Month,
			Count:   bucket.Total,
			Percent: percent(bucket.Total, max),
		})
	}
	return bars
}

// percent scales count against max to a 0-100 bar width.
func percent(count, max int) int {
	if max == 0 || count == 0 {
		return 0
	}
	p := count * 100 / max
	if p < 2 {
		p = 2 // keep tiny bars visible
	}
	return p
}

// htmlFuncs returns the custom template functions.
func htmlFuncs() template.FuncMap {
	return template.FuncMap{
		// date formats a time.Time using the provided layout.
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},

		// bytes formats a size in bytes as a human-readable string.
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>tidy report {{.Generated}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
  h1 { border-bottom: 2px solid #3498db; padding-bottom: .3rem; }
  h2 { margin-top: 2rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { padding: 6px 10px; text-align: left; border-bottom: 1px solid #ddd; }
  th { background: #f5f7fa; }
  tr:hover { background-color: #f5f5f5; }
  .meta { color: #666; }
  .chart { margin: 1rem 0; }
  .row { display: flex; align-items: center; margin: 2px 0; }
  .row .label { width: 9rem; font-size: .9rem; }
  .row .bar { background: #3498db; height: 1rem; border-radius: 2px; }
  .row .count { margin-left: .5rem; font-size: .85rem; color: #666; }
  .dry-run { background: #fff3cd; border: 1px solid #ffc107; padding: .5rem 1rem; border-radius: 4px; }
  code { font-size: .85rem; }
</style>
</head>
<body>
<h1>Organization Report</h1>
{{if .Meta.DryRun}}<p class="dry-run">Dry run: no files were moved or deleted. The actions below show what a live run would do.</p>{{end}}
<p class="meta">
  Run {{.Meta.RunID}} &middot; {{.Generated}} &middot; {{.Duration}}<br>
  Source: <code>{{.Meta.SourceDir}}</code> &rarr; <code>{{.Meta.OrganizedRoot}}</code><br>
  {{.Meta.TotalFiles}} files organized ({{.TotalHuman}}),
  {{.Meta.DuplicatesRemoved}} duplicates removed ({{.ReclaimedHuman}} reclaimed),
  {{.Meta.SkippedFiles}} skipped
</p>

<h2>Category Distribution</h2>
<div class="chart">
{{range .CategoryBars}}  <div class="row">
    <span class="label">{{.Label}}</span>
    <div class="bar" style="width: {{.Percent}}%"></div>
    <span class="count">{{.Count}}{{if .Detail}} ({{.Detail}}){{end}}</span>
  </div>
{{end}}</div>

<h2>Historical Additions</h2>
{{if .HistoryBars}}<div class="chart">
{{range .HistoryBars}}  <div class="row">
    <span class="label">{{.Label}}</span>
    <div class="bar" style="width: {{.Percent}}%"></div>
    <span class="count">{{.Count}}</span>
  </div>
{{end}}</div>{{else}}<p class="meta">No files.</p>{{end}}

<h2>Largest Files</h2>
{{if .Largest}}<table>
  <tr><th>File</th><th>Size</th><th>Category</th><th>Destination</th></tr>
  {{range .Largest}}<tr><td>{{.Name}}</td><td>{{bytes .Size}}</td><td>{{.Category}}</td><td><code>{{.DestPath}}</code></td></tr>
  {{end}}
</table>{{else}}<p class="meta">No files.</p>{{end}}

<h2>Oldest Files</h2>
{{if .Oldest}}<table>
  <tr><th>File</th><th>Last Modified</th><th>Category</th><th>Destination</th></tr>
  {{range .Oldest}}<tr><td>{{.Name}}</td><td>{{date .ModTime "2006-01-02"}}</td><td>{{.Category}}</td><td><code>{{.DestPath}}</code></td></tr>
  {{end}}
</table>{{else}}<p class="meta">No files.</p>{{end}}

<h2>Duplicates Removed</h2>
{{if .Duplicates}}<table>
  <tr><th>File</th><th>Size</th><th>Kept Copy</th><th>Digest</th></tr>
  {{range .Duplicates}}<tr><td><code>{{.Path}}</code></td><td>{{bytes .Size}}</td><td><code>{{.CanonicalOf}}</code></td><td><code>{{printf "%.12s" .Digest}}</code></td></tr>
  {{end}}
</table>{{else}}<p class="meta">None.</p>{{end}}

{{if .Skipped}}<h2>Skipped Files</h2>
<table>
  <tr><th>File</th><th>Reason</th></tr>
  {{range .Skipped}}<tr><td><code>{{.Path}}</code></td><td>{{.Reason}}</td></tr>
  {{end}}
</table>{{end}}
</body>
</html>
`

func init() {
	Register("html", func() Formatter {
		return &HTMLFormatter{}
	})
}

// Ensure HTMLFormatter implements Formatter.
var _ Formatter = (*HTMLFormatter)(nil)

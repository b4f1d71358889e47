// Package category maps file extensions to category labels for the tidy
// file organizer. The mapping is built once at startup and is immutable
// for the duration of a run.
package category

import (
	"sort"
	"strings"
)

// Default is the category label assigned to extensions that are not
// present in the table, including the empty extension.
const Default = "Other"

// DefaultGroups maps category labels to their associated file extensions.
// These are the built-in categories used when the user's configuration does
// not define its own table.
var DefaultGroups = map[string][]string{
	"Documents": {
		".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx", ".md", ".epub",
	},
	"Images": {
		".jpg", ".jpeg", ".png", ".gif", ".svg", ".bmp", ".webp", ".tiff", ".heic", ".ico",
	},
	"Music": {
		".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".opus", ".wma",
	},
	"Videos": {
		".mp4", ".mov", ".avi", ".mkv", ".flv", ".webm", ".wmv", ".mpeg", ".mpg", ".m4v",
	},
	"Archives": {
		".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".tgz",
	},
	"Executables": {
		".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".appimage",
	},
	"Scripts": {
		".py", ".js", ".sh", ".bat", ".ps1", ".rb", ".pl",
	},
}

// Table is an immutable mapping from lowercase file extension (including
// the leading dot) to category label. Construct one with New and treat it
// as read-only afterwards.
type Table struct {
	byExt  map[string]string
	labels []string
}

// New builds a Table from a label -> extension-list mapping.
// Extensions are normalized to lowercase with a leading dot. When two
// labels claim the same extension the lexicographically smaller label
// wins, so construction is deterministic regardless of map iteration.
func New(groups map[string][]string) *Table {
	byExt := make(map[string]string)
	labels := make([]string, 0, len(groups)+1)

	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		for _, ext := range groups[label] {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if _, taken := byExt[ext]; !taken {
				byExt[ext] = label
			}
		}
	}

	// Default always appears, last, even when a group uses it.
	kept := labels[:0]
	for _, label := range labels {
		if label != Default {
			kept = append(kept, label)
		}
	}
	labels = append(kept, Default)

	return &Table{byExt: byExt, labels: labels}
}

// NewDefault builds a Table from the built-in DefaultGroups.
func NewDefault() *Table {
	return New(DefaultGroups)
}

// Classify returns the category label for a file extension.
// The lookup is case-insensitive and total: extensions absent from the
// table, including the empty extension, classify as Default.
func (t *Table) Classify(ext string) string {
	if ext == "" {
		return Default
	}

	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if label, ok := t.byExt[ext]; ok {
		return label
	}
	return Default
}

// Categories returns every category label in the table plus Default,
// sorted with Default last. The slice is a copy and safe to modify.
// Reports iterate this list so empty categories render as zero rather
// than being omitted.
func (t *Table) Categories() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Extensions returns the number of extensions in the table.
func (t *Table) Extensions() int {
	return len(t.byExt)
}

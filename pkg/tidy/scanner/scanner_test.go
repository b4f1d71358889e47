package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestScan_RegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.PDF", "doc")
	writeFile(t, dir, "photo.jpg", "img")
	writeFile(t, dir, "noext", "data")

	result, err := Scan(Options{Root: dir})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}

	byName := make(map[string]*types.FileRecord)
	for _, r := range result.Records {
		byName[r.Name] = r
	}

	// Extension is lowercased and keeps the dot.
	if got := byName["report.PDF"].Ext; got != ".pdf" {
		t.Errorf("Ext = %q, want .pdf", got)
	}
	if got := byName["photo.jpg"].Ext; got != ".jpg" {
		t.Errorf("Ext = %q, want .jpg", got)
	}
	if got := byName["noext"].Ext; got != "" {
		t.Errorf("Ext = %q, want empty", got)
	}

	if got := byName["photo.jpg"].Size; got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
	if byName["photo.jpg"].ModTime.IsZero() {
		t.Error("ModTime is zero")
	}
}

func TestScan_NeverDescendsIntoSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "top")

	sub := filepath.Join(dir, "Organized")
	if err := os.MkdirAll(filepath.Join(sub, "Documents"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "nested.txt", "nested")

	other := filepath.Join(dir, "projects")
	if err := os.Mkdir(other, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, other, "deep.txt", "deep")

	result, err := Scan(Options{Root: dir})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Name != "top.txt" {
		t.Errorf("records = %v, want only top.txt", names(result.Records))
	}
	if result.DirsExcluded != 2 {
		t.Errorf("DirsExcluded = %d, want 2", result.DirsExcluded)
	}
}

func TestScan_ExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "x")
	writeFile(t, dir, ".hidden", "x")
	writeFile(t, dir, "video.mp4.part", "x")
	writeFile(t, dir, "installer.crdownload", "x")

	result, err := Scan(Options{
		Root:    dir,
		Exclude: []string{".*", "*.part", "*.crdownload"},
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Name != "keep.txt" {
		t.Errorf("records = %v, want only keep.txt", names(result.Records))
	}
	if result.FilesExcluded != 3 {
		t.Errorf("FilesExcluded = %d, want 3", result.FilesExcluded)
	}
}

func TestScan_InvalidExcludePattern(t *testing.T) {
	dir := t.TempDir()

	_, err := Scan(Options{Root: dir, Exclude: []string{"[unclosed"}})
	if err == nil {
		t.Fatal("Scan() error = nil, want error for invalid pattern")
	}
}

func TestScan_SymlinkSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	target := writeFile(t, dir, "target.txt", "x")
	if err := os.Symlink(target, filepath.Join(dir, "link.txt")); err != nil {
		t.Fatalf("creating symlink: %v", err)
	}

	result, err := Scan(Options{Root: dir})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Name != "target.txt" {
		t.Errorf("records = %v, want only target.txt", names(result.Records))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("got %d skipped, want 1", len(result.Skipped))
	}
	skipped := result.Skipped[0]
	if skipped.Name != "link.txt" {
		t.Errorf("skipped = %s, want link.txt", skipped.Name)
	}
	if skipped.Disposition != types.DispositionSkipped {
		t.Errorf("disposition = %s, want skipped", skipped.Disposition)
	}
	if skipped.SkipReason == "" {
		t.Error("skip reason is empty")
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(Options{Root: filepath.Join(t.TempDir(), "gone")})
	if err == nil {
		t.Fatal("Scan() error = nil, want error for missing root")
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	result, err := Scan(Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(result.Records) != 0 || len(result.Skipped) != 0 {
		t.Errorf("got %d records and %d skipped, want none", len(result.Records), len(result.Skipped))
	}
	if result.Elapsed < 0 || result.Elapsed > time.Minute {
		t.Errorf("implausible elapsed time %v", result.Elapsed)
	}
}

func names(records []*types.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

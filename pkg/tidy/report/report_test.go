package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/dedup"
	"github.com/jamesainslie/tidy/pkg/tidy/organizer"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var testCategories = []string{"Documents", "Images", "Music", "Other"}

func movedRecord(name, cat string, size int64, mod time.Time) *types.FileRecord {
	return &types.FileRecord{
		Path:        "/src/" + name,
		Name:        name,
		Size:        size,
		ModTime:     mod,
		Category:    cat,
		Disposition: types.DispositionMoved,
		DestPath:    cat + "/" + name,
	}
}

func testRun(records ...*types.FileRecord) *organizer.Run {
	return &organizer.Run{
		Start:         time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
		Elapsed:       2 * time.Second,
		SourceDir:     "/src",
		OrganizedRoot: "/src/Organized",
		Records:       records,
	}
}

func TestBuild_Metadata(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	run := testRun(
		movedRecord("a.pdf", "Documents", 100, mod),
		movedRecord("b.jpg", "Images", 200, mod),
	)

	rep := Build(run, testCategories, 10)

	if rep.Meta.RunID == "" {
		t.Error("RunID is empty")
	}
	if rep.Meta.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", rep.Meta.TotalFiles)
	}
	if rep.Meta.TotalBytes != 300 {
		t.Errorf("TotalBytes = %d, want 300", rep.Meta.TotalBytes)
	}
	if rep.Meta.SourceDir != "/src" {
		t.Errorf("SourceDir = %q", rep.Meta.SourceDir)
	}
	if rep.Meta.Duration != 2*time.Second {
		t.Errorf("Duration = %v", rep.Meta.Duration)
	}
}

func TestBuild_EmptyCategoriesRenderAsZero(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	run := testRun(movedRecord("a.pdf", "Documents", 100, mod))

	rep := Build(run, testCategories, 10)

	if len(rep.Categories) != len(testCategories) {
		t.Fatalf("got %d categories, want %d", len(rep.Categories), len(testCategories))
	}
	for i, cat := range testCategories {
		if rep.Categories[i].Category != cat {
			t.Errorf("Categories[%d] = %q, want %q", i, rep.Categories[i].Category, cat)
		}
	}

	byCat := make(map[string]CategoryCount)
	for _, cc := range rep.Categories {
		byCat[cc.Category] = cc
	}
	if byCat["Documents"].Count != 1 || byCat["Documents"].Bytes != 100 {
		t.Errorf("Documents = %+v", byCat["Documents"])
	}
	for _, empty := range []string{"Images", "Music", "Other"} {
		if byCat[empty].Count != 0 || byCat[empty].Bytes != 0 {
			t.Errorf("%s = %+v, want zero", empty, byCat[empty])
		}
	}
}

func TestBuild_UnknownCategoryStaysVisible(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	run := testRun(movedRecord("a.epub", "Books", 50, mod))

	rep := Build(run, testCategories, 10)

	found := false
	for _, cc := range rep.Categories {
		if cc.Category == "Books" {
			found = true
			if cc.Count != 1 {
				t.Errorf("Books count = %d, want 1", cc.Count)
			}
		}
	}
	if !found {
		t.Error("category outside the configured set was dropped")
	}
}

func TestBuild_Duplicates(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	canonical := movedRecord("keep.jpg", "Images", 500, mod)
	dup := &types.FileRecord{
		Path:        "/src/extra.jpg",
		Name:        "extra.jpg",
		Size:        500,
		ModTime:     mod.Add(time.Hour),
		Category:    "Images",
		Digest:      "abc123",
		DuplicateOf: canonical.Path,
		Disposition: types.DispositionDeletedDuplicate,
	}

	run := testRun(canonical, dup)
	run.DuplicateGroups = []dedup.Group{{
		Digest:     "abc123",
		Canonical:  canonical,
		Duplicates: []*types.FileRecord{dup},
	}}

	rep := Build(run, testCategories, 10)

	if rep.Meta.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", rep.Meta.DuplicatesRemoved)
	}
	if rep.Meta.ReclaimedBytes != 500 {
		t.Errorf("ReclaimedBytes = %d, want 500", rep.Meta.ReclaimedBytes)
	}
	if len(rep.Duplicates) != 1 {
		t.Fatalf("got %d duplicate entries, want 1", len(rep.Duplicates))
	}
	entry := rep.Duplicates[0]
	if entry.Path != "/src/extra.jpg" || entry.CanonicalOf != "/src/keep.jpg" || entry.Digest != "abc123" {
		t.Errorf("duplicate entry = %+v", entry)
	}

	// Duplicates do not count as organized files.
	if rep.Meta.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1 (duplicate excluded)", rep.Meta.TotalFiles)
	}
}

func TestBuild_FailedDuplicateDeleteNotReclaimed(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	canonical := movedRecord("keep.jpg", "Images", 500, mod)
	stuck := &types.FileRecord{
		Path:        "/src/extra.jpg",
		Name:        "extra.jpg",
		Size:        500,
		ModTime:     mod.Add(time.Hour),
		Category:    "Images",
		Digest:      "abc123",
		DuplicateOf: canonical.Path,
		Disposition: types.DispositionSkipped,
		SkipReason:  "delete failed: permission denied",
	}

	run := testRun(canonical, stuck)
	run.DuplicateGroups = []dedup.Group{{
		Digest:     "abc123",
		Canonical:  canonical,
		Duplicates: []*types.FileRecord{stuck},
	}}

	rep := Build(run, testCategories, 10)

	if rep.Meta.DuplicatesRemoved != 0 {
		t.Errorf("DuplicatesRemoved = %d, want 0", rep.Meta.DuplicatesRemoved)
	}
	if rep.Meta.ReclaimedBytes != 0 {
		t.Errorf("ReclaimedBytes = %d, want 0", rep.Meta.ReclaimedBytes)
	}
	if len(rep.Duplicates) != 0 {
		t.Errorf("got %d duplicate entries, want 0", len(rep.Duplicates))
	}
	if rep.Meta.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", rep.Meta.SkippedFiles)
	}
	if len(rep.Skipped) != 1 || rep.Skipped[0].Path != "/src/extra.jpg" {
		t.Errorf("skipped entries = %+v", rep.Skipped)
	}
}

func TestBuild_DryRunDuplicatesCounted(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	canonical := movedRecord("keep.jpg", "Images", 500, mod)
	canonical.Disposition = types.DispositionDryRun
	dup := &types.FileRecord{
		Path:        "/src/extra.jpg",
		Name:        "extra.jpg",
		Size:        500,
		ModTime:     mod.Add(time.Hour),
		Category:    "Images",
		Digest:      "abc123",
		DuplicateOf: canonical.Path,
		Disposition: types.DispositionDryRun,
	}

	run := testRun(canonical, dup)
	run.DryRun = true
	run.DuplicateGroups = []dedup.Group{{
		Digest:     "abc123",
		Canonical:  canonical,
		Duplicates: []*types.FileRecord{dup},
	}}

	rep := Build(run, testCategories, 10)

	if rep.Meta.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", rep.Meta.DuplicatesRemoved)
	}
	if rep.Meta.ReclaimedBytes != 500 {
		t.Errorf("ReclaimedBytes = %d, want 500", rep.Meta.ReclaimedBytes)
	}
}

func TestBuild_Skipped(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	skipped := &types.FileRecord{
		Path:        "/src/broken.dat",
		Name:        "broken.dat",
		Disposition: types.DispositionSkipped,
		SkipReason:  "hash failed: permission denied",
	}

	run := testRun(movedRecord("a.pdf", "Documents", 10, mod), skipped)
	rep := Build(run, testCategories, 10)

	if rep.Meta.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", rep.Meta.SkippedFiles)
	}
	if len(rep.Skipped) != 1 {
		t.Fatalf("got %d skip entries, want 1", len(rep.Skipped))
	}
	if rep.Skipped[0].Reason != "hash failed: permission denied" {
		t.Errorf("skip reason = %q", rep.Skipped[0].Reason)
	}
}

func TestBuild_LargestAndOldest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var records []*types.FileRecord
	for i := 0; i < 15; i++ {
		records = append(records, movedRecord(
			fmt.Sprintf("file%02d.pdf", i),
			"Documents",
			int64((i+1)*100),
			base.Add(time.Duration(i)*24*time.Hour),
		))
	}

	rep := Build(testRun(records...), testCategories, 10)

	if len(rep.Largest) != 10 {
		t.Fatalf("got %d largest entries, want 10", len(rep.Largest))
	}
	if rep.Largest[0].Name != "file14.pdf" || rep.Largest[0].Size != 1500 {
		t.Errorf("Largest[0] = %+v, want file14.pdf (1500)", rep.Largest[0])
	}
	for i := 1; i < len(rep.Largest); i++ {
		if rep.Largest[i].Size > rep.Largest[i-1].Size {
			t.Errorf("Largest not sorted descending at %d", i)
		}
	}

	if len(rep.Oldest) != 10 {
		t.Fatalf("got %d oldest entries, want 10", len(rep.Oldest))
	}
	if rep.Oldest[0].Name != "file00.pdf" {
		t.Errorf("Oldest[0] = %q, want file00.pdf", rep.Oldest[0].Name)
	}
	for i := 1; i < len(rep.Oldest); i++ {
		if rep.Oldest[i].ModTime.Before(rep.Oldest[i-1].ModTime) {
			t.Errorf("Oldest not sorted ascending at %d", i)
		}
	}
}

func TestBuild_MonthlyHistory(t *testing.T) {
	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	run := testRun(
		movedRecord("a.pdf", "Documents", 10, jan),
		movedRecord("b.pdf", "Documents", 10, jan),
		movedRecord("c.jpg", "Images", 10, feb),
	)

	rep := Build(run, testCategories, 10)

	if len(rep.History) != 2 {
		t.Fatalf("got %d history buckets, want 2", len(rep.History))
	}
	if rep.History[0].Month != "2026-01" || rep.History[1].Month != "2026-02" {
		t.Errorf("history months = [%s %s]", rep.History[0].Month, rep.History[1].Month)
	}
	if rep.History[0].Total != 2 || rep.History[0].Counts["Documents"] != 2 {
		t.Errorf("2026-01 bucket = %+v", rep.History[0])
	}
	if rep.History[1].Total != 1 || rep.History[1].Counts["Images"] != 1 {
		t.Errorf("2026-02 bucket = %+v", rep.History[1])
	}
}

func TestBuild_TopNDefault(t *testing.T) {
	mod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	run := testRun(movedRecord("a.pdf", "Documents", 10, mod))

	rep := Build(run, testCategories, 0)
	if len(rep.Largest) != 1 {
		t.Errorf("got %d largest entries, want 1", len(rep.Largest))
	}
}

func TestBuild_EmptyRun(t *testing.T) {
	rep := Build(testRun(), testCategories, 10)

	if rep.Meta.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", rep.Meta.TotalFiles)
	}
	if len(rep.Categories) != len(testCategories) {
		t.Errorf("got %d categories, want %d even when empty", len(rep.Categories), len(testCategories))
	}
	if len(rep.History) != 0 {
		t.Errorf("got %d history buckets, want 0", len(rep.History))
	}
}

// Package dedup resolves duplicate files by content digest.
//
// Resolution is a pure in-memory classification: files sharing a digest
// form a group, exactly one member of each group is kept as canonical,
// and the rest are marked as duplicates of it. The organizer decides
// later whether marked files are actually deleted (live mode) or merely
// reported (dry-run).
//
// Canonical selection is a fixed total order so re-runs are reproducible:
// the earliest modification time wins, ties broken by the
// lexicographically smallest path. Duplicates are content-based; files
// with identical digests but different names or extensions still count.
package dedup

import (
	"sort"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// Group is a set of records sharing one content digest.
type Group struct {
	// Digest is the shared content digest.
	Digest string

	// Canonical is the kept member.
	Canonical *types.FileRecord

	// Duplicates are the remaining members, marked for removal.
	Duplicates []*types.FileRecord
}

// ReclaimedBytes returns the total size of the non-canonical members.
func (g *Group) ReclaimedBytes() int64 {
	var total int64
	for _, d := range g.Duplicates {
		total += d.Size
	}
	return total
}

// Resolve groups records by digest and marks non-canonical members.
// Records without a digest (hashing failed) are ignored. Each duplicate
// record gets DuplicateOf set to the canonical path. The returned groups
// cover only digests with two or more members and are sorted by digest
// for deterministic iteration.
func Resolve(records []*types.FileRecord) []Group {
	byDigest := make(map[string][]*types.FileRecord)
	for _, rec := range records {
		if rec.Digest == "" {
			continue
		}
		byDigest[rec.Digest] = append(byDigest[rec.Digest], rec)
	}

	var groups []Group
	for digest, members := range byDigest {
		if len(members) < 2 {
			continue
		}

		// Earliest ModTime first, then lexicographically smallest path.
		sort.Slice(members, func(i, j int) bool {
			if !members[i].ModTime.Equal(members[j].ModTime) {
				return members[i].ModTime.Before(members[j].ModTime)
			}
			return members[i].Path < members[j].Path
		})

		canonical := members[0]
		duplicates := members[1:]
		for _, dup := range duplicates {
			dup.DuplicateOf = canonical.Path
		}

		groups = append(groups, Group{
			Digest:     digest,
			Canonical:  canonical,
			Duplicates: duplicates,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Digest < groups[j].Digest
	})

	return groups
}

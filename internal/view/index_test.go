package view

import (
	"testing"

	"github.com/raphi011/wtt/internal/worktree"
)

func sampleRecords() []worktree.Record {
	return []worktree.Record{
		{Path: "/r/app", Branch: "main", IsMain: true, CommitTime: 100, CommitSummary: "release v2"},
		{Path: "/r/app-zeta", Branch: "zeta", CommitTime: 400, CommitSummary: "wip"},
		{Path: "/r/app-bugfix", Branch: "bugfix-parser", CommitTime: 300, CommitSummary: "fix parser crash", Status: worktree.Status{Modified: 1}},
		{Path: "/r/app-alpha", Branch: "alpha", CommitTime: 200, CommitSummary: "start alpha"},
	}
}

func visibleBranches(ix *Index) []string {
	var out []string
	for i := 0; i < ix.Len(); i++ {
		out = append(out, ix.At(i).DisplayName())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Scenario: The three sort orders over the same records.
// Expected: The main worktree is first in every order; the rest follow
// the comparator.
func TestSortOrders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sort SortOrder
		want []string
	}{
		{SortName, []string{"main", "alpha", "bugfix-parser", "zeta"}},
		{SortStatus, []string{"main", "bugfix-parser", "alpha", "zeta"}},
		{SortRecent, []string{"main", "zeta", "bugfix-parser", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort.String(), func(t *testing.T) {
			t.Parallel()

			ix := New(tt.sort)
			ix.Replace(sampleRecords())
			if got := visibleBranches(ix); !equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if !ix.At(0).IsMain {
				t.Error("main worktree not pinned first")
			}
		})
	}
}

// Scenario: Sorting twice in a row.
// Expected: The order is identical (idempotent).
func TestSortIdempotent(t *testing.T) {
	t.Parallel()

	ix := New(SortRecent)
	ix.Replace(sampleRecords())
	first := visibleBranches(ix)
	ix.Replace(sampleRecords())
	if got := visibleBranches(ix); !equal(got, first) {
		t.Errorf("second sort = %v, want %v", got, first)
	}
}

// Scenario: The underlying collection after indexing.
// Expected: Records keep their original order; only the index moved.
func TestRecordsNeverReordered(t *testing.T) {
	t.Parallel()

	records := sampleRecords()
	ix := New(SortRecent)
	ix.Replace(records)

	if records[0].Branch != "main" || records[1].Branch != "zeta" {
		t.Errorf("record collection was reordered: %v", records)
	}
}

// Scenario: Filtering for "fix" over path, branch and commit summary.
// Expected: Only the bugfix worktree matches, case-insensitively.
func TestQueryFilter(t *testing.T) {
	t.Parallel()

	ix := New(SortName)
	ix.Replace(sampleRecords())

	ix.SetQuery("FIX")
	if got := visibleBranches(ix); !equal(got, []string{"bugfix-parser"}) {
		t.Errorf("filtered = %v, want only bugfix-parser", got)
	}

	// Match via commit summary only.
	ix.SetQuery("release")
	if got := visibleBranches(ix); !equal(got, []string{"main"}) {
		t.Errorf("filtered = %v, want only main", got)
	}

	// Clearing restores everything.
	ix.SetQuery("")
	if ix.Len() != 4 {
		t.Errorf("after clear Len = %d, want 4", ix.Len())
	}
}

// Scenario: A query matches nothing.
// Expected: Empty view with no selection; Selected reports none.
func TestQueryNoMatches(t *testing.T) {
	t.Parallel()

	ix := New(SortName)
	ix.Replace(sampleRecords())
	ix.SetQuery("no-such-thing")

	if ix.Len() != 0 {
		t.Fatalf("Len = %d, want 0", ix.Len())
	}
	if _, ok := ix.Selected(); ok {
		t.Error("Selected returned a record from an empty view")
	}
	if ix.SelectedPos() != -1 {
		t.Errorf("SelectedPos = %d, want -1", ix.SelectedPos())
	}
}

// Scenario: A worktree is selected, then the records are refreshed and
// the sort order cycled so its position changes.
// Expected: The selection follows the worktree by identity, not by
// position.
func TestSelectionPreservedAcrossReorder(t *testing.T) {
	t.Parallel()

	ix := New(SortName)
	ix.Replace(sampleRecords())

	// Select zeta (last under name order).
	ix.Last()
	if r, _ := ix.Selected(); r.Branch != "zeta" {
		t.Fatalf("selected %q, want zeta", r.Branch)
	}

	// Recent order moves zeta to position 1.
	ix.CycleSort() // status
	ix.CycleSort() // recent
	if r, _ := ix.Selected(); r.Branch != "zeta" {
		t.Errorf("selection lost across sort: %q", r.Branch)
	}
	if ix.SelectedPos() != 1 {
		t.Errorf("SelectedPos = %d, want 1", ix.SelectedPos())
	}

	// A refresh with updated details keeps the selection too.
	updated := sampleRecords()
	updated[1].CommitTime = 50 // zeta drops to the bottom
	ix.Replace(updated)
	if r, _ := ix.Selected(); r.Branch != "zeta" {
		t.Errorf("selection lost across refresh: %q", r.Branch)
	}
}

// Scenario: The selected worktree disappears from the refreshed
// records.
// Expected: The selection falls back to the first visible entry.
func TestSelectionFallback(t *testing.T) {
	t.Parallel()

	ix := New(SortName)
	ix.Replace(sampleRecords())
	ix.Last()

	ix.Replace(sampleRecords()[:2]) // main + zeta... zeta kept
	if r, _ := ix.Selected(); r.Branch != "zeta" {
		t.Fatalf("selected %q, want zeta", r.Branch)
	}

	ix.Replace(sampleRecords()[:1]) // zeta gone
	if r, _ := ix.Selected(); r.Branch != "main" {
		t.Errorf("fallback selected %q, want first entry", r.Branch)
	}
}

// Scenario: Movement over the visible range.
// Expected: Move clamps at both ends; First and Last hit the bounds.
func TestMovement(t *testing.T) {
	t.Parallel()

	ix := New(SortName)
	ix.Replace(sampleRecords())

	ix.Move(-5)
	if ix.SelectedPos() != 0 {
		t.Errorf("Move(-5) pos = %d, want 0", ix.SelectedPos())
	}
	ix.Move(99)
	if ix.SelectedPos() != ix.Len()-1 {
		t.Errorf("Move(99) pos = %d, want %d", ix.SelectedPos(), ix.Len()-1)
	}
	ix.First()
	if ix.SelectedPos() != 0 {
		t.Errorf("First pos = %d", ix.SelectedPos())
	}
	ix.Move(1)
	if ix.SelectedPos() != 1 {
		t.Errorf("Move(1) pos = %d, want 1", ix.SelectedPos())
	}
}

// Scenario: Sort order cycling.
// Expected: name -> status -> recent -> name.
func TestSortOrderCycle(t *testing.T) {
	t.Parallel()

	if SortName.Next() != SortStatus || SortStatus.Next() != SortRecent || SortRecent.Next() != SortName {
		t.Error("sort cycle broken")
	}
	if ParseSortOrder("recent") != SortRecent || ParseSortOrder("bogus") != SortName {
		t.Error("ParseSortOrder mapping broken")
	}
}

// Scenario: Detached worktrees share the placeholder display name.
// Expected: Ties break by path so the order is still deterministic.
func TestDetachedTieBreak(t *testing.T) {
	t.Parallel()

	ix := New(SortName)
	ix.Replace([]worktree.Record{
		{Path: "/r/b", Head: "bbbb"},
		{Path: "/r/a", Head: "aaaa"},
		{Path: "/r/app", Branch: "main", IsMain: true},
	})

	if ix.At(1).Path != "/r/a" || ix.At(2).Path != "/r/b" {
		t.Errorf("tie break by path failed: %v, %v", ix.At(1).Path, ix.At(2).Path)
	}
}

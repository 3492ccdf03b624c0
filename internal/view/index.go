// Package view maintains the display order for the dashboard: a
// sorted, filtered index over the worktree records. The records
// themselves are never reordered; the index maps display positions to
// record positions.
package view

import (
	"sort"
	"strings"

	"github.com/raphi011/wtt/internal/worktree"
)

// SortOrder selects the comparator for the worktree table.
type SortOrder int

const (
	// SortName orders alphabetically by branch name.
	SortName SortOrder = iota
	// SortStatus puts dirty worktrees first, then orders by name.
	SortStatus
	// SortRecent orders by last commit time, newest first.
	SortRecent
)

// Next cycles to the following sort order.
func (s SortOrder) Next() SortOrder {
	switch s {
	case SortName:
		return SortStatus
	case SortStatus:
		return SortRecent
	default:
		return SortName
	}
}

func (s SortOrder) String() string {
	switch s {
	case SortStatus:
		return "status"
	case SortRecent:
		return "recent"
	default:
		return "name"
	}
}

// ParseSortOrder maps a config value to a sort order, defaulting to
// name order.
func ParseSortOrder(v string) SortOrder {
	switch v {
	case "status":
		return SortStatus
	case "recent":
		return SortRecent
	default:
		return SortName
	}
}

// Index owns the display order and the selection. All mutations keep
// the selection on the same worktree when it is still visible.
type Index struct {
	records  []worktree.Record
	order    []int // display position -> records position
	sortBy   SortOrder
	query    string
	selected int // position in order; -1 when nothing is visible
}

// New creates an empty index with the given initial sort order.
func New(sortBy SortOrder) *Index {
	return &Index{sortBy: sortBy, selected: -1}
}

// Replace swaps in a fresh record collection wholesale, preserving the
// selection by identity.
func (ix *Index) Replace(records []worktree.Record) {
	keep := ix.selectedID()
	ix.records = records
	ix.rebuild(keep)
}

// Records returns the unordered record collection.
func (ix *Index) Records() []worktree.Record {
	return ix.records
}

// Sort returns the active sort order.
func (ix *Index) Sort() SortOrder {
	return ix.sortBy
}

// CycleSort advances to the next sort order, keeping the selection.
func (ix *Index) CycleSort() {
	ix.sortBy = ix.sortBy.Next()
	ix.rebuild(ix.selectedID())
}

// Query returns the active filter query.
func (ix *Index) Query() string {
	return ix.query
}

// SetQuery filters the display to records matching q. The selection
// survives when its worktree still matches; otherwise it falls back to
// the first visible entry.
func (ix *Index) SetQuery(q string) {
	ix.query = q
	ix.rebuild(ix.selectedID())
}

// Len is the number of visible entries.
func (ix *Index) Len() int {
	return len(ix.order)
}

// At returns the record at display position i.
func (ix *Index) At(i int) worktree.Record {
	return ix.records[ix.order[i]]
}

// Selected returns the selected record, if any.
func (ix *Index) Selected() (worktree.Record, bool) {
	if ix.selected < 0 || ix.selected >= len(ix.order) {
		return worktree.Record{}, false
	}
	return ix.At(ix.selected), true
}

// SelectedPos returns the selected display position, -1 when none.
func (ix *Index) SelectedPos() int {
	return ix.selected
}

// Select moves the selection to display position i, clamped to the
// visible range.
func (ix *Index) Select(i int) {
	if len(ix.order) == 0 {
		ix.selected = -1
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(ix.order) {
		i = len(ix.order) - 1
	}
	ix.selected = i
}

// Move shifts the selection by delta.
func (ix *Index) Move(delta int) {
	ix.Select(ix.selected + delta)
}

// First selects the top entry.
func (ix *Index) First() {
	ix.Select(0)
}

// Last selects the bottom entry.
func (ix *Index) Last() {
	ix.Select(len(ix.order) - 1)
}

func (ix *Index) selectedID() string {
	if r, ok := ix.Selected(); ok {
		return r.ID()
	}
	return ""
}

// rebuild recomputes order from records, query and sort, then restores
// the selection to the record identified by keep.
func (ix *Index) rebuild(keep string) {
	ix.order = ix.order[:0]
	for i, r := range ix.records {
		if ix.matches(r) {
			ix.order = append(ix.order, i)
		}
	}

	sort.SliceStable(ix.order, func(a, b int) bool {
		return ix.less(ix.records[ix.order[a]], ix.records[ix.order[b]])
	})

	ix.selected = -1
	if len(ix.order) == 0 {
		return
	}
	ix.selected = 0
	if keep == "" {
		return
	}
	for pos, ri := range ix.order {
		if ix.records[ri].ID() == keep {
			ix.selected = pos
			return
		}
	}
}

// matches is a case-insensitive substring test over path, branch and
// last commit summary.
func (ix *Index) matches(r worktree.Record) bool {
	if ix.query == "" {
		return true
	}
	q := strings.ToLower(ix.query)
	return strings.Contains(strings.ToLower(r.Path), q) ||
		strings.Contains(strings.ToLower(r.Branch), q) ||
		strings.Contains(strings.ToLower(r.CommitSummary), q)
}

// less implements the active comparator. The main worktree sorts
// first under every order.
func (ix *Index) less(a, b worktree.Record) bool {
	if a.IsMain != b.IsMain {
		return a.IsMain
	}

	switch ix.sortBy {
	case SortStatus:
		if a.Status.IsClean() != b.Status.IsClean() {
			return !a.Status.IsClean()
		}
	case SortRecent:
		if a.CommitTime != b.CommitTime {
			return a.CommitTime > b.CommitTime
		}
	}

	an, bn := strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())
	if an != bn {
		return an < bn
	}
	return a.Path < b.Path
}

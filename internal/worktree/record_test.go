package worktree

import (
	"testing"
	"time"

	"github.com/raphi011/wtt/internal/git"
)

// Scenario: Status summaries across clean, dirty and diverged states.
// Expected: Zero parts are omitted; an empty status reads "clean".
func TestStatusSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"clean", Status{}, "clean"},
		{"all parts", Status{Staged: 1, Modified: 2, Untracked: 3, Ahead: 4, Behind: 5}, "+1 ~2 ?3 ↑4 ↓5"},
		{"only modified", Status{Modified: 7}, "~7"},
		{"only divergence", Status{Ahead: 2, Behind: 1}, "↑2 ↓1"},
		{"untracked only", Status{Untracked: 1}, "?1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.status.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Scenario: IsClean with local changes versus upstream divergence.
// Expected: Only local changes make a worktree dirty.
func TestStatusIsClean(t *testing.T) {
	t.Parallel()

	if !(Status{Ahead: 3, Behind: 1}).IsClean() {
		t.Error("diverged-but-unchanged status should be clean")
	}
	if (Status{Untracked: 1}).IsClean() {
		t.Error("untracked file should make status dirty")
	}
}

// Scenario: Ages from seconds up to days.
// Expected: The coarsest fitting unit is used, with exact boundaries
// rolling over.
func TestRelativeAge(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		delta int64
		want  string
	}{
		{0, "0s ago"},
		{42, "42s ago"},
		{59, "59s ago"},
		{60, "1m ago"},
		{300, "5m ago"},
		{3599, "59m ago"},
		{3600, "1h ago"},
		{10800, "3h ago"},
		{86399, "23h ago"},
		{86400, "1d ago"},
		{172800, "2d ago"},
	}

	for _, tt := range tests {
		if got := RelativeAge(now.Unix()-tt.delta, now); got != tt.want {
			t.Errorf("RelativeAge(now-%ds) = %q, want %q", tt.delta, got, tt.want)
		}
	}

	// Clock skew: a commit from the future reads as just made.
	if got := RelativeAge(now.Unix()+100, now); got != "0s ago" {
		t.Errorf("future timestamp = %q, want %q", got, "0s ago")
	}
}

// Scenario: Records built from main, linked and detached identities,
// with the caller's directory inside one of them.
// Expected: IsMain follows the listing origin, IsCurrent follows the
// passed directory, detached worktrees get the placeholder name.
func TestBuildRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	main := BuildRecord(git.Identity{Origin: git.OriginMain, Path: root, Branch: "main"}, root, root+"/sub/dir")
	if !main.IsMain {
		t.Error("main identity not flagged IsMain")
	}
	if !main.IsCurrent {
		t.Error("directory under the worktree should flag IsCurrent")
	}
	if main.IsPrunable {
		t.Error("existing path flagged prunable")
	}

	linked := BuildRecord(git.Identity{Origin: git.OriginLinked, Path: root + "/missing", Detached: true, Head: "abcdef1234567890"}, root, root)
	if linked.IsMain {
		t.Error("linked identity flagged IsMain")
	}
	if linked.IsCurrent {
		t.Error("unrelated directory flagged IsCurrent")
	}
	if !linked.IsPrunable {
		t.Error("missing path not flagged prunable")
	}
	if got := linked.DisplayName(); got != DetachedName {
		t.Errorf("DisplayName() = %q, want %q", got, DetachedName)
	}
	if got := linked.ShortHash(); got != "abcdef1" {
		t.Errorf("ShortHash() = %q, want %q", got, "abcdef1")
	}
}

// Scenario: Cached records are normalized after the working directory
// moved and a worktree vanished from disk.
// Expected: IsCurrent and IsPrunable reflect the live environment, not
// the cached one.
func TestNormalize(t *testing.T) {
	t.Parallel()

	existing := t.TempDir()
	records := []Record{
		{Path: existing, Branch: "main", IsCurrent: false},
		{Path: existing + "/nope", Branch: "gone", IsCurrent: true},
	}

	Normalize(records, existing)

	if !records[0].IsCurrent {
		t.Error("record at the current directory not flagged IsCurrent")
	}
	if records[1].IsCurrent {
		t.Error("stale IsCurrent flag survived normalization")
	}
	if records[0].IsPrunable {
		t.Error("existing worktree flagged prunable")
	}
	if !records[1].IsPrunable {
		t.Error("missing worktree not flagged prunable")
	}
}

// Scenario: Selection identity for branch and detached records.
// Expected: Branch name when present, path otherwise.
func TestRecordID(t *testing.T) {
	t.Parallel()

	if got := (Record{Branch: "fix", Path: "/a"}).ID(); got != "fix" {
		t.Errorf("ID() = %q, want %q", got, "fix")
	}
	if got := (Record{Path: "/a"}).ID(); got != "/a" {
		t.Errorf("ID() = %q, want %q", got, "/a")
	}
}

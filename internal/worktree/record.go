// Package worktree builds display records for a repository's worktrees
// and fetches their per-worktree details in parallel.
package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphi011/wtt/internal/git"
)

// DetachedName is shown in place of a branch for detached worktrees.
const DetachedName = "(detached)"

// Status summarizes a worktree's dirty state and upstream divergence.
type Status struct {
	Staged    int `json:"staged"`
	Modified  int `json:"modified"`
	Untracked int `json:"untracked"`
	Ahead     int `json:"ahead"`
	Behind    int `json:"behind"`
}

// IsClean reports whether the worktree has no local changes.
// Upstream divergence doesn't make a worktree dirty.
func (s Status) IsClean() bool {
	return s.Staged == 0 && s.Modified == 0 && s.Untracked == 0
}

// Summary renders the status as "+s ~m ?u ↑a ↓b" with zero parts
// omitted, or "clean" when nothing is set.
func (s Status) Summary() string {
	var parts []string
	if s.Staged > 0 {
		parts = append(parts, fmt.Sprintf("+%d", s.Staged))
	}
	if s.Modified > 0 {
		parts = append(parts, fmt.Sprintf("~%d", s.Modified))
	}
	if s.Untracked > 0 {
		parts = append(parts, fmt.Sprintf("?%d", s.Untracked))
	}
	if s.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("↑%d", s.Ahead))
	}
	if s.Behind > 0 {
		parts = append(parts, fmt.Sprintf("↓%d", s.Behind))
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, " ")
}

// Commit is one entry of a worktree's recent history.
type Commit struct {
	ShortHash string `json:"short_hash"`
	Summary   string `json:"summary"`
	Time      int64  `json:"time"`
}

// Record is everything the dashboard knows about one worktree.
type Record struct {
	Path          string   `json:"path"`
	Branch        string   `json:"branch,omitempty"`
	Detached      bool     `json:"detached,omitempty"`
	Head          string   `json:"head"`
	IsMain        bool     `json:"is_main"`
	IsCurrent     bool     `json:"is_current"`
	IsBare        bool     `json:"is_bare,omitempty"`
	IsLocked      bool     `json:"is_locked,omitempty"`
	LockReason    string   `json:"lock_reason,omitempty"`
	IsPrunable    bool     `json:"is_prunable,omitempty"`
	Status        Status   `json:"status"`
	CommitSummary string   `json:"commit_summary,omitempty"`
	CommitTime    int64    `json:"commit_time,omitempty"`
	RecentCommits []Commit `json:"recent_commits,omitempty"`
}

// DisplayName returns the branch name, or a placeholder for detached
// worktrees.
func (r Record) DisplayName() string {
	if r.Branch != "" {
		return r.Branch
	}
	return DetachedName
}

// ShortHash returns the abbreviated HEAD hash.
func (r Record) ShortHash() string {
	return ShortHash(r.Head)
}

// ID is the identity selection is restored by: the branch name when
// one exists, the path otherwise.
func (r Record) ID() string {
	if r.Branch != "" {
		return r.Branch
	}
	return r.Path
}

// ShortHash abbreviates a full commit hash to 7 characters.
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// BuildRecord derives a record from a listed identity. The caller
// passes its own working directory so the result doesn't depend on
// ambient process state.
func BuildRecord(id git.Identity, repoRoot, currentPath string) Record {
	return Record{
		Path:       id.Path,
		Branch:     id.Branch,
		Detached:   id.Detached,
		Head:       id.Head,
		IsMain:     id.Origin == git.OriginMain,
		IsCurrent:  isWithin(currentPath, id.Path),
		IsBare:     id.Bare,
		IsLocked:   id.Locked,
		LockReason: id.LockReason,
		IsPrunable: id.Prunable || !pathExists(id.Path),
	}
}

// Normalize recomputes the flags that depend on where wtt runs and on
// the current state of the disk. Cached records go through this before
// display because both can change between sessions.
func Normalize(records []Record, currentPath string) {
	for i := range records {
		records[i].IsCurrent = isWithin(currentPath, records[i].Path)
		records[i].IsPrunable = !pathExists(records[i].Path)
	}
}

// RelativeAge renders a unix timestamp as an age in its coarsest
// sensible unit: "42s ago", "5m ago", "3h ago", "2d ago".
func RelativeAge(unix int64, now time.Time) string {
	delta := now.Unix() - unix
	if delta < 0 {
		delta = 0
	}
	switch {
	case delta < 60:
		return fmt.Sprintf("%ds ago", delta)
	case delta < 3600:
		return fmt.Sprintf("%dm ago", delta/60)
	case delta < 86400:
		return fmt.Sprintf("%dh ago", delta/3600)
	default:
		return fmt.Sprintf("%dd ago", delta/86400)
	}
}

// isWithin reports whether dir equals root or lives underneath it.
func isWithin(dir, root string) bool {
	if dir == "" || root == "" {
		return false
	}
	dir = filepath.Clean(dir)
	root = filepath.Clean(root)
	return dir == root || strings.HasPrefix(dir, root+string(filepath.Separator))
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

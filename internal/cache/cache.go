// Package cache persists the last known worktree records per
// repository so the dashboard can paint instantly on the next start.
//
// The cache is strictly best-effort: any load failure (missing file,
// corrupt JSON, envelope for a different repository) is treated as a
// cache miss and never surfaces to the user.
package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/raphi011/wtt/internal/worktree"
)

// TTL is how long a cached snapshot counts as fresh. A fresh snapshot
// skips the startup refresh entirely; a stale one is shown while the
// refresh runs.
const TTL = 10 * time.Second

// Envelope is the on-disk cache format. RepoRoot guards against hash
// collisions and repositories that moved on disk.
type Envelope struct {
	Timestamp int64             `json:"timestamp"`
	RepoRoot  string            `json:"repo_root"`
	Worktrees []worktree.Record `json:"worktrees"`
}

// Fresh reports whether the snapshot is younger than TTL. A snapshot
// exactly TTL old is stale.
func (e *Envelope) Fresh(now time.Time) bool {
	return now.Sub(time.Unix(e.Timestamp, 0)) < TTL
}

// Path returns the cache file location for a repository root.
func Path(repoRoot string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	h := fnv.New64a()
	h.Write([]byte(repoRoot))
	return filepath.Join(base, "wtt", fmt.Sprintf("%x.json", h.Sum64())), nil
}

// Load returns the cached envelope for repoRoot, or nil when there is
// no usable cache.
func Load(repoRoot string) *Envelope {
	path, err := Path(repoRoot)
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	if env.RepoRoot != repoRoot {
		return nil
	}
	return &env
}

// Save writes a snapshot for repoRoot, stamped with now. The write is
// atomic (temp file + rename) so a concurrent load never sees a
// half-written envelope.
func Save(repoRoot string, records []worktree.Record, now time.Time) error {
	path, err := Path(repoRoot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	env := Envelope{
		Timestamp: now.Unix(),
		RepoRoot:  repoRoot,
		Worktrees: records,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

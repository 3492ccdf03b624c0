package git

import (
	"context"
	"fmt"
	"strings"
)

// Counts summarizes the dirty state of a worktree. Each path from
// "git status --porcelain" increments exactly one counter.
type Counts struct {
	Staged    int
	Modified  int
	Untracked int
}

// StatusCounts classifies the output of "git status --porcelain" for
// the worktree at path.
func StatusCounts(ctx context.Context, path string) (Counts, error) {
	out, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return Counts{}, fmt.Errorf("failed to get status: %w", err)
	}

	var c Counts
	for _, line := range strings.Split(string(out), "\n") {
		classifyStatusLine(line, &c)
	}
	return c, nil
}

// classifyStatusLine buckets one porcelain status line.
// "??" is untracked; anything with the index column set counts as
// staged (even when the worktree column is dirty too); the rest are
// worktree-only modifications.
func classifyStatusLine(line string, c *Counts) {
	if len(line) < 2 {
		return
	}
	index, worktree := line[0], line[1]
	switch {
	case index == '?' && worktree == '?':
		c.Untracked++
	case index != ' ' && index != '!':
		c.Staged++
	case worktree != ' ' && worktree != '!':
		c.Modified++
	}
}

// AheadBehind returns how many commits the worktree's HEAD is ahead of
// and behind its upstream. Both counts are zero when no upstream is
// configured.
func AheadBehind(ctx context.Context, path string) (ahead, behind int, err error) {
	out, err := outputGit(ctx, path, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		// No upstream (git exits 128); not an error for the dashboard.
		return 0, 0, nil
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%d\t%d", &ahead, &behind); err != nil {
		return 0, 0, fmt.Errorf("failed to parse rev-list output: %w", err)
	}
	return ahead, behind, nil
}

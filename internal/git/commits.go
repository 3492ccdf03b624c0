package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Commit is one entry of a worktree's history.
type Commit struct {
	Hash    string
	Summary string
	Time    int64 // unix seconds
}

// logFormat separates fields with the ASCII unit separator so commit
// summaries containing tabs or pipes parse cleanly.
const logFormat = "--format=%H%x1f%s%x1f%ct"

// HeadCommit returns the commit the worktree's HEAD points at.
func HeadCommit(ctx context.Context, path string) (Commit, error) {
	commits, err := RecentCommits(ctx, path, 1)
	if err != nil {
		return Commit{}, err
	}
	if len(commits) == 0 {
		return Commit{}, fmt.Errorf("no commits at %s", path)
	}
	return commits[0], nil
}

// RecentCommits returns up to n commits reachable from the worktree's
// HEAD, newest first.
func RecentCommits(ctx context.Context, path string, n int) ([]Commit, error) {
	out, err := outputGit(ctx, path, "log", fmt.Sprintf("-n%d", n), logFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return parseCommits(string(out)), nil
}

func parseCommits(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\x1f", 3)
		if len(fields) != 3 {
			continue
		}
		ts, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}
		commits = append(commits, Commit{Hash: fields[0], Summary: fields[1], Time: ts})
	}
	return commits
}

package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// AddWorktree creates a worktree at path. With createBranch, a new
// branch is started at baseRef (HEAD when baseRef is empty); otherwise
// the existing branch is checked out.
func (r *Repo) AddWorktree(ctx context.Context, path, branch string, createBranch bool, baseRef string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err == nil {
		return fmt.Errorf("directory already exists: %s", abs)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}

	args := []string{"worktree", "add", abs}
	if createBranch {
		args = append(args, "-b", branch)
		if baseRef != "" {
			args = append(args, baseRef)
		}
	} else {
		args = append(args, branch)
	}

	if err := runGit(ctx, r.Root, args...); err != nil {
		return fmt.Errorf("failed to create worktree: %w", err)
	}
	return nil
}

// RemoveWorktree removes the worktree at path. force discards
// uncommitted changes.
func (r *Repo) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove", path}
	if force {
		args = append(args, "--force")
	}
	if err := runGit(ctx, r.Root, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}
	return nil
}

// MoveWorktree relocates the worktree at path to newPath.
func (r *Repo) MoveWorktree(ctx context.Context, path, newPath string) error {
	if err := runGit(ctx, r.Root, "worktree", "move", path, newPath); err != nil {
		return fmt.Errorf("failed to move worktree: %w", err)
	}
	return nil
}

// LockWorktree protects the worktree at path from pruning.
func (r *Repo) LockWorktree(ctx context.Context, path, reason string) error {
	args := []string{"worktree", "lock", path}
	if reason != "" {
		args = append(args, "--reason", reason)
	}
	return runGit(ctx, r.Root, args...)
}

// UnlockWorktree removes the lock on the worktree at path.
func (r *Repo) UnlockWorktree(ctx context.Context, path string) error {
	return runGit(ctx, r.Root, "worktree", "unlock", path)
}

// PruneWorktrees drops stale worktree bookkeeping for deleted paths.
func (r *Repo) PruneWorktrees(ctx context.Context) error {
	return runGit(ctx, r.Root, "worktree", "prune")
}

// FetchAll updates all remotes and prunes deleted remote branches.
func (r *Repo) FetchAll(ctx context.Context) error {
	return runGit(ctx, r.Root, "fetch", "--all", "--prune")
}

// Pull integrates upstream changes into the worktree at path.
func Pull(ctx context.Context, path string) error {
	return runGit(ctx, path, "pull")
}

// Push publishes the worktree's branch to its upstream.
func Push(ctx context.Context, path string) error {
	return runGit(ctx, path, "push")
}

// Merge merges branch into the worktree at path without opening an
// editor for the merge commit message.
func Merge(ctx context.Context, path, branch string) error {
	return runGit(ctx, path, "merge", "--no-edit", branch)
}

// Package git provides git operations via shell commands.
//
// All operations use [os/exec] to call the git CLI directly rather than
// using Go git libraries. This approach is simpler, more reliable, and
// ensures compatibility with user configurations (SSH keys, credential
// helpers, aliases).
//
// # Reading
//
// Repository and worktree queries:
//
//   - [Open]: Discover the main repository from any directory inside it
//   - [Repo.ListWorktrees]: Enumerate worktrees via "git worktree list --porcelain"
//   - [StatusCounts]: Classify dirty paths from "git status --porcelain"
//   - [AheadBehind]: Symmetric upstream divergence counts
//   - [RecentCommits], [HeadCommit]: Commit history for a worktree
//
// # Mutations
//
// Worktree and branch mutations issued by the dashboard:
//
//   - [Repo.AddWorktree], [Repo.RemoveWorktree], [Repo.MoveWorktree]
//   - [Repo.LockWorktree], [Repo.UnlockWorktree], [Repo.PruneWorktrees]
//   - [Pull], [Push], [Repo.FetchAll], [Merge]
//
// Mutations report success or failure only; refreshing the view after a
// mutation is the caller's job.
package git

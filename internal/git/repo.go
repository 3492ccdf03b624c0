package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Repo is the main repository a dashboard session is anchored to.
type Repo struct {
	// Root is the main worktree's path, or the repository directory
	// itself for bare repositories.
	Root string
	// CommonDir is the shared .git directory.
	CommonDir string
	// Bare reports whether the repository has no main worktree.
	Bare bool
}

// Open discovers the main repository from any directory inside it,
// including from inside a linked worktree.
func Open(ctx context.Context, dir string) (*Repo, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}
	commonDir := strings.TrimSpace(string(out))

	bare := false
	if out, err := outputGit(ctx, commonDir, "rev-parse", "--is-bare-repository"); err == nil {
		bare = strings.TrimSpace(string(out)) == "true"
	}

	root := commonDir
	if filepath.Base(commonDir) == ".git" {
		root = filepath.Dir(commonDir)
	}

	return &Repo{Root: root, CommonDir: commonDir, Bare: bare}, nil
}

// Origin distinguishes the main worktree from linked ones.
type Origin int

const (
	// OriginMain is the repository's primary worktree (or the bare
	// repository directory). Exactly one Identity per listing has it.
	OriginMain Origin = iota
	// OriginLinked is a worktree created with "git worktree add".
	OriginLinked
)

// Identity describes one worktree as reported by
// "git worktree list --porcelain". It carries no mutable detail
// (status, commits); those are fetched separately.
type Identity struct {
	Origin     Origin
	Path       string
	Head       string
	Branch     string // empty when detached or bare
	Detached   bool
	Bare       bool
	Locked     bool
	LockReason string
	Prunable   bool
}

// ListWorktrees enumerates all worktrees of the repository.
// The main worktree is always first in the result.
func (r *Repo) ListWorktrees(ctx context.Context) ([]Identity, error) {
	out, err := outputGit(ctx, r.Root, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return parseWorktreeList(string(out)), nil
}

// parseWorktreeList parses "git worktree list --porcelain" output.
// Stanzas are separated by blank lines; git emits the main worktree
// first, so the first stanza is tagged OriginMain. Duplicate paths
// are dropped.
func parseWorktreeList(out string) []Identity {
	var (
		identities []Identity
		current    *Identity
		seen       = make(map[string]bool)
	)

	flush := func() {
		if current == nil || current.Path == "" {
			current = nil
			return
		}
		if seen[current.Path] {
			current = nil
			return
		}
		seen[current.Path] = true
		identities = append(identities, *current)
		current = nil
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Identity{
				Origin: OriginLinked,
				Path:   strings.TrimPrefix(line, "worktree "),
			}
			if len(identities) == 0 {
				current.Origin = OriginMain
			}
		case current == nil:
			// Attribute line without a worktree header; ignore.
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Bare = true
		case line == "locked":
			current.Locked = true
		case strings.HasPrefix(line, "locked "):
			current.Locked = true
			current.LockReason = strings.TrimPrefix(line, "locked ")
		case line == "prunable" || strings.HasPrefix(line, "prunable "):
			current.Prunable = true
		}
	}
	flush()

	return identities
}

// LocalBranches returns the repository's local branch names.
func (r *Repo) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := outputGit(ctx, r.Root, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

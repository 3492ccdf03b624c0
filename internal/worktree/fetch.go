package worktree

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/wtt/internal/git"
)

// DefaultRecentCommits is how much history each worktree carries.
const DefaultRecentCommits = 10

// Details holds the per-worktree data that needs its own git calls.
type Details struct {
	Status        Status
	CommitSummary string
	CommitTime    int64
	RecentCommits []Commit
}

// Fetcher lists a repository's worktrees and fetches their details in
// parallel. List and Details are swappable so tests can exercise the
// orchestration without a git binary.
type Fetcher struct {
	RecentCount int
	List        func(ctx context.Context, repoRoot string) ([]git.Identity, error)
	Details     func(ctx context.Context, path string) (Details, error)
}

// NewFetcher returns a fetcher backed by the git CLI.
func NewFetcher() *Fetcher {
	f := &Fetcher{RecentCount: DefaultRecentCommits}
	f.List = func(ctx context.Context, repoRoot string) ([]git.Identity, error) {
		repo := &git.Repo{Root: repoRoot}
		return repo.ListWorktrees(ctx)
	}
	f.Details = f.gitDetails
	return f
}

// FetchAll builds one record per worktree. Listing errors are fatal;
// a failed detail fetch leaves that record with zero-value details and
// never affects its siblings. Bare and prunable worktrees are listed
// but not probed.
func (f *Fetcher) FetchAll(ctx context.Context, repoRoot, currentPath string) ([]Record, error) {
	ids, err := f.List(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(ids))
	for i, id := range ids {
		records[i] = BuildRecord(id, repoRoot, currentPath)
	}

	// Per-worktree results stored by index; each goroutine writes only
	// its own slot.
	details := make([]Details, len(records))
	fetched := make([]bool, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // Bound concurrent git operations

	for i := range records {
		if records[i].IsBare || records[i].IsPrunable {
			continue
		}
		g.Go(func() error {
			d, err := f.Details(ctx, records[i].Path)
			if err != nil {
				return nil // Never fail — the record keeps default details
			}
			details[i] = d
			fetched[i] = true
			return nil
		})
	}

	_ = g.Wait() // Always nil — goroutines absorb their errors

	for i := range records {
		if !fetched[i] {
			continue
		}
		records[i].Status = details[i].Status
		records[i].CommitSummary = details[i].CommitSummary
		records[i].CommitTime = details[i].CommitTime
		records[i].RecentCommits = details[i].RecentCommits
	}

	return records, nil
}

// gitDetails probes one worktree: status counts, upstream divergence
// and recent history.
func (f *Fetcher) gitDetails(ctx context.Context, path string) (Details, error) {
	counts, err := git.StatusCounts(ctx, path)
	if err != nil {
		return Details{}, err
	}
	ahead, behind, err := git.AheadBehind(ctx, path)
	if err != nil {
		return Details{}, err
	}

	n := f.RecentCount
	if n <= 0 {
		n = DefaultRecentCommits
	}
	commits, err := git.RecentCommits(ctx, path, n)
	if err != nil {
		return Details{}, err
	}

	d := Details{
		Status: Status{
			Staged:    counts.Staged,
			Modified:  counts.Modified,
			Untracked: counts.Untracked,
			Ahead:     ahead,
			Behind:    behind,
		},
	}
	for _, c := range commits {
		d.RecentCommits = append(d.RecentCommits, Commit{
			ShortHash: ShortHash(c.Hash),
			Summary:   c.Summary,
			Time:      c.Time,
		})
	}
	if len(commits) > 0 {
		d.CommitSummary = commits[0].Summary
		d.CommitTime = commits[0].Time
	}
	return d, nil
}

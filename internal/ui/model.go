// Package ui implements the wtt dashboard: a single bubbletea model
// owning the worktree table, the refresh coordinator and the dialogs.
//
// All state changes happen inside Update. Background work (the detail
// fetch) runs in a command goroutine and reports back with exactly one
// message, so the model never needs locks.
package ui

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtt/internal/cache"
	"github.com/raphi011/wtt/internal/config"
	"github.com/raphi011/wtt/internal/git"
	"github.com/raphi011/wtt/internal/ui/styles"
	"github.com/raphi011/wtt/internal/view"
	"github.com/raphi011/wtt/internal/worktree"
)

// State is the refresh coordinator's phase. At most one fetch is in
// flight: starting a refresh while Loading is a no-op.
type State int

const (
	// StateIdle means the table shows settled data.
	StateIdle State = iota
	// StateLoading means a background fetch is in flight.
	StateLoading
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeCreate
	modeDelete
	modeMerge
	modeHelp
	modeError
)

const (
	tickInterval = 100 * time.Millisecond
	// tableTop is the screen row of the first worktree entry: title,
	// blank line, column header.
	tableTop = 3
	// maxDialogRows caps the candidate lists inside dialogs.
	maxDialogRows = 8
)

// Model is the dashboard.
type Model struct {
	ctx         context.Context
	repo        *git.Repo
	currentPath string
	worktreeDir string
	fetcher     *worktree.Fetcher

	index *view.Index
	state State
	mode  mode

	styles  styles.Styles
	spinner spinner.Model

	searchInput textinput.Model
	nameInput   textinput.Model

	// Dialog state.
	branches         []string
	branchCursor     int
	checkoutExisting bool
	deleteTarget     worktree.Record
	mergeTarget      worktree.Record
	errMsg           string

	status      statusMessage
	showCommits bool

	width, height int
	selection     string
	quitting      bool

	now func() time.Time
}

// New builds the dashboard over an opened repository. A usable cache
// snapshot is shown immediately; the model starts Loading unless that
// snapshot is fresh enough to skip the startup refresh.
func New(ctx context.Context, repo *git.Repo, currentPath string, cfg config.Config, fetcher *worktree.Fetcher) *Model {
	theme := styles.ByName(cfg.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 64

	name := textinput.New()
	name.Placeholder = "branch name"
	name.CharLimit = 128

	m := &Model{
		ctx:         ctx,
		repo:        repo,
		currentPath: currentPath,
		worktreeDir: cfg.WorktreeDir,
		fetcher:     fetcher,
		index:       view.New(view.ParseSortOrder(cfg.Sort)),
		state:       StateLoading,
		styles:      styles.New(theme),
		spinner:     sp,
		searchInput: search,
		nameInput:   name,
		showCommits: cfg.ShowRecentCommits,
		now:         time.Now,
	}

	if env := cache.Load(repo.Root); env != nil {
		worktree.Normalize(env.Worktrees, currentPath)
		m.index.Replace(env.Worktrees)
		if env.Fresh(m.now()) {
			m.state = StateIdle
		}
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.state == StateLoading {
		cmds = append(cmds, m.refreshCmd(), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Selection returns the worktree path chosen with enter, or "" when
// the dashboard was quit without choosing.
func (m *Model) Selection() string {
	return m.selection
}

// State returns the refresh coordinator's phase.
func (m *Model) State() State {
	return m.state
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs the fetch in a command goroutine and reports back
// with a single message.
func (m *Model) refreshCmd() tea.Cmd {
	ctx, fetcher := m.ctx, m.fetcher
	repoRoot, currentPath := m.repo.Root, m.currentPath
	return func() tea.Msg {
		records, err := fetcher.FetchAll(ctx, repoRoot, currentPath)
		if err != nil {
			return refreshFailedMsg{err: err}
		}
		return refreshDoneMsg{records: records}
	}
}

// startRefresh transitions Idle -> Loading. While Loading it is a
// no-op, which is what bounds in-flight fetches to one.
func (m *Model) startRefresh() tea.Cmd {
	if m.state == StateLoading {
		return nil
	}
	m.state = StateLoading
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.status = statusMessage{text: text, level: level, at: m.now()}
}

// showError surfaces a failed operation in the error dialog. The
// dashboard state machine is untouched: closing the dialog returns to
// the exact view the user left.
func (m *Model) showError(text string) {
	m.errMsg = text
	m.mode = modeError
	m.setStatus(levelError, text)
}

// worktreePath decides where a new worktree for branch goes.
func (m *Model) worktreePath(branch string) string {
	dir := m.worktreeDir
	if dir == "" {
		parent := filepath.Dir(m.repo.Root)
		dir = filepath.Join(parent, filepath.Base(m.repo.Root)+"-worktrees")
	}
	return filepath.Join(dir, strings.ReplaceAll(branch, "/", "-"))
}

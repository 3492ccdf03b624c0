package ui

import (
	"fmt"
	"runtime"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/raphi011/wtt/internal/cache"
	"github.com/raphi011/wtt/internal/cmd"
	"github.com/raphi011/wtt/internal/git"
	"github.com/raphi011/wtt/internal/log"
	"github.com/raphi011/wtt/internal/worktree"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshDoneMsg:
		m.state = StateIdle
		m.index.Replace(msg.records)
		// Best effort: a failed save only costs the next cold start.
		if err := cache.Save(m.repo.Root, msg.records, m.now()); err != nil {
			log.FromContext(m.ctx).Printf("cache save failed: %v\n", err)
		}
		m.setStatus(levelSuccess, fmt.Sprintf("Refreshed %d worktrees", len(msg.records)))
		return m, nil

	case refreshFailedMsg:
		// Keep whatever the table shows and return to Idle so the next
		// manual refresh works. The failure is only logged.
		m.state = StateIdle
		log.FromContext(m.ctx).Printf("refresh failed: %v\n", msg.err)
		return m, nil

	case tickMsg:
		if m.status.text != "" && m.now().Sub(m.status.at) > statusExpiry {
			m.status = statusMessage{}
		}
		return m, tickCmd()

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseClickMsg:
		if m.mode == modeNormal && msg.Button == tea.MouseLeft {
			if row := msg.Y - tableTop; row >= 0 && row < m.index.Len() {
				m.index.Select(row)
			}
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Everything else (cursor blink etc.) goes to the focused input.
	return m, m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case modeCreate, modeMerge:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCreate:
		return m.handleCreateKey(msg)
	case modeDelete:
		return m.handleDeleteKey(msg)
	case modeMerge:
		return m.handleMergeKey(msg)
	case modeHelp, modeError:
		switch msg.String() {
		case "esc", "enter", "q", "?":
			m.mode = modeNormal
		}
		return m, nil
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		m.index.Move(1)
	case "k", "up":
		m.index.Move(-1)
	case "g", "home":
		m.index.First()
	case "G", "end":
		m.index.Last()

	case "enter":
		if r, ok := m.index.Selected(); ok {
			m.selection = r.Path
			m.quitting = true
			return m, tea.Quit
		}

	case "r", "R":
		return m, m.startRefresh()

	case "s":
		m.index.CycleSort()
		m.setStatus(levelInfo, "Sort: "+m.index.Sort().String())

	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue(m.index.Query())
		m.searchInput.Focus()
		return m, textinput.Blink

	case "t":
		m.showCommits = !m.showCommits

	case "?":
		m.mode = modeHelp

	case "y":
		if r, ok := m.index.Selected(); ok {
			if err := clipboard.WriteAll(r.Path); err != nil {
				m.setStatus(levelWarning, "Clipboard unavailable: "+err.Error())
			} else {
				m.setStatus(levelSuccess, "Copied "+r.Path)
			}
		}

	case "o":
		if r, ok := m.index.Selected(); ok {
			opener := "xdg-open"
			if runtime.GOOS == "darwin" {
				opener = "open"
			}
			if err := cmd.RunContext(m.ctx, "", opener, r.Path); err != nil {
				m.setStatus(levelWarning, "Open failed: "+err.Error())
			}
		}

	case "L":
		return m, m.toggleLock()

	case "f":
		m.setStatus(levelInfo, "Fetching remotes...")
		return m, m.runMutation("Fetched all remotes", func() error {
			return m.repo.FetchAll(m.ctx)
		})

	case "p":
		if r, ok := m.selectedLive(); ok {
			return m, m.runMutation("Pulled "+r.DisplayName(), func() error {
				return git.Pull(m.ctx, r.Path)
			})
		}

	case "P":
		if r, ok := m.selectedLive(); ok {
			return m, m.runMutation("Pushed "+r.DisplayName(), func() error {
				return git.Push(m.ctx, r.Path)
			})
		}

	case "X":
		return m, m.runMutation("Pruned stale worktrees", func() error {
			return m.repo.PruneWorktrees(m.ctx)
		})

	case "c":
		return m, m.enterCreate()

	case "d":
		m.enterDelete()

	case "m":
		return m, m.enterMerge()
	}

	return m, nil
}

// selectedLive returns the selection when it can answer git commands,
// i.e. it is neither bare nor gone from disk.
func (m *Model) selectedLive() (r worktree.Record, ok bool) {
	sel, ok := m.index.Selected()
	if !ok {
		return sel, false
	}
	if sel.IsBare || sel.IsPrunable {
		m.setStatus(levelWarning, "Not a checked-out worktree")
		return sel, false
	}
	return sel, true
}

// runMutation executes a git mutation synchronously. Success shows a
// transient message and revalidates the table; failure opens the error
// dialog and leaves the table untouched.
func (m *Model) runMutation(success string, fn func() error) tea.Cmd {
	if err := fn(); err != nil {
		m.showError(err.Error())
		return nil
	}
	m.setStatus(levelSuccess, success)
	return m.startRefresh()
}

func (m *Model) toggleLock() tea.Cmd {
	r, ok := m.index.Selected()
	if !ok {
		return nil
	}
	if r.IsMain {
		m.setStatus(levelWarning, "Cannot lock the main worktree")
		return nil
	}
	if r.IsLocked {
		return m.runMutation("Unlocked "+r.DisplayName(), func() error {
			return m.repo.UnlockWorktree(m.ctx, r.Path)
		})
	}
	return m.runMutation("Locked "+r.DisplayName(), func() error {
		return m.repo.LockWorktree(m.ctx, r.Path, "")
	})
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.index.SetQuery("")
		m.mode = modeNormal
	case "enter":
		m.searchInput.Blur()
		m.mode = modeNormal
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.index.SetQuery(m.searchInput.Value())
		return m, cmd
	}
	return m, nil
}

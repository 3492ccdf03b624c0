package ui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/wtt/internal/git"
)

// enterCreate opens the create dialog. Local branches are loaded up
// front so the base picker and the checkout-existing mode both work
// offline from there.
func (m *Model) enterCreate() tea.Cmd {
	branches, err := m.repo.LocalBranches(m.ctx)
	if err != nil {
		m.showError(err.Error())
		return nil
	}
	m.branches = branches
	m.branchCursor = 0
	m.checkoutExisting = false
	m.nameInput.SetValue("")
	m.nameInput.Focus()
	m.mode = modeCreate
	return textinput.Blink
}

func (m *Model) handleCreateKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeDialog()
	case "tab":
		m.checkoutExisting = !m.checkoutExisting
		m.branchCursor = 0
	case "up", "ctrl+k":
		m.moveBranchCursor(-1)
	case "down", "ctrl+j":
		m.moveBranchCursor(1)
	case "enter":
		return m, m.submitCreate()
	default:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.branchCursor = 0
		return m, cmd
	}
	return m, nil
}

// createCandidates lists the branches shown in the create dialog.
// Checkout-existing mode filters them by the typed text; new-branch
// mode offers every branch as a base, HEAD first.
func (m *Model) createCandidates() []string {
	if m.checkoutExisting {
		return m.filterBranches(m.branches)
	}
	return append([]string{"HEAD"}, m.branches...)
}

// filterBranches ranks branches against the typed text. An empty
// pattern keeps the full list in order.
func (m *Model) filterBranches(branches []string) []string {
	pattern := strings.TrimSpace(m.nameInput.Value())
	if pattern == "" {
		return branches
	}
	matches := fuzzy.Find(pattern, branches)
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}
	return out
}

func (m *Model) moveBranchCursor(delta int) {
	n := len(m.dialogCandidates())
	if n == 0 {
		m.branchCursor = 0
		return
	}
	m.branchCursor += delta
	if m.branchCursor < 0 {
		m.branchCursor = 0
	}
	if m.branchCursor >= n {
		m.branchCursor = n - 1
	}
}

// dialogCandidates returns the candidate list of whichever dialog is
// open.
func (m *Model) dialogCandidates() []string {
	if m.mode == modeMerge {
		return m.filterBranches(m.branches)
	}
	return m.createCandidates()
}

func (m *Model) submitCreate() tea.Cmd {
	if m.checkoutExisting {
		candidates := m.createCandidates()
		if len(candidates) == 0 {
			m.setStatus(levelWarning, "No matching branch")
			return nil
		}
		branch := candidates[clamp(m.branchCursor, len(candidates))]
		path := m.worktreePath(branch)
		m.closeDialog()
		return m.runMutation("Created worktree for "+branch, func() error {
			return m.repo.AddWorktree(m.ctx, path, branch, false, "")
		})
	}

	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.setStatus(levelWarning, "Branch name required")
		return nil
	}
	base := ""
	candidates := m.createCandidates()
	if i := clamp(m.branchCursor, len(candidates)); i > 0 {
		base = candidates[i] // position 0 is HEAD
	}
	path := m.worktreePath(name)
	m.closeDialog()
	return m.runMutation("Created worktree "+name, func() error {
		return m.repo.AddWorktree(m.ctx, path, name, true, base)
	})
}

// enterDelete opens the confirm dialog for the selection. The main and
// the current worktree are off limits.
func (m *Model) enterDelete() {
	r, ok := m.index.Selected()
	if !ok {
		return
	}
	if r.IsMain {
		m.setStatus(levelWarning, "Cannot delete the main worktree")
		return
	}
	if r.IsCurrent {
		m.setStatus(levelWarning, "Cannot delete the worktree you are in")
		return
	}
	m.deleteTarget = r
	m.mode = modeDelete
}

func (m *Model) handleDeleteKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		target := m.deleteTarget
		force := !target.Status.IsClean()
		m.mode = modeNormal
		return m, m.runMutation("Deleted "+target.DisplayName(), func() error {
			return m.repo.RemoveWorktree(m.ctx, target.Path, force)
		})
	case "n", "esc", "q":
		m.mode = modeNormal
	}
	return m, nil
}

// enterMerge opens the branch picker to merge into the selection.
func (m *Model) enterMerge() tea.Cmd {
	target, ok := m.selectedLive()
	if !ok {
		return nil
	}
	branches, err := m.repo.LocalBranches(m.ctx)
	if err != nil {
		m.showError(err.Error())
		return nil
	}
	// A branch can't merge into itself.
	sources := make([]string, 0, len(branches))
	for _, b := range branches {
		if b != target.Branch {
			sources = append(sources, b)
		}
	}
	m.branches = sources
	m.mergeTarget = target
	m.branchCursor = 0
	m.nameInput.SetValue("")
	m.nameInput.Focus()
	m.mode = modeMerge
	return textinput.Blink
}

func (m *Model) handleMergeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeDialog()
	case "up", "ctrl+k":
		m.moveBranchCursor(-1)
	case "down", "ctrl+j":
		m.moveBranchCursor(1)
	case "enter":
		candidates := m.filterBranches(m.branches)
		if len(candidates) == 0 {
			m.setStatus(levelWarning, "No matching branch")
			return m, nil
		}
		branch := candidates[clamp(m.branchCursor, len(candidates))]
		target := m.mergeTarget
		m.closeDialog()
		return m, m.runMutation("Merged "+branch+" into "+target.DisplayName(), func() error {
			return git.Merge(m.ctx, target.Path, branch)
		})
	default:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.branchCursor = 0
		return m, cmd
	}
	return m, nil
}

func (m *Model) closeDialog() {
	m.nameInput.Blur()
	m.mode = modeNormal
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

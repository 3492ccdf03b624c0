package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtt/internal/worktree"
)

func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m *Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case modeCreate:
		b.WriteString(m.renderCreate())
	case modeDelete:
		b.WriteString(m.renderDelete())
	case modeMerge:
		b.WriteString(m.renderMerge())
	case modeHelp:
		b.WriteString(m.renderHelp())
	case modeError:
		b.WriteString(m.renderError())
	default:
		b.WriteString(m.renderTable())
		if m.showCommits {
			b.WriteString("\n")
			b.WriteString(m.renderCommits())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderHeader() string {
	parts := []string{
		m.styles.Title.Render("wtt " + filepath.Base(m.repo.Root)),
		m.styles.Muted.Render("sort: " + m.index.Sort().String()),
	}
	if q := m.index.Query(); q != "" && m.mode != modeSearch {
		parts = append(parts, m.styles.Info.Render("filter: "+q))
	}
	if m.mode == modeSearch {
		parts = append(parts, m.styles.Info.Render("/"+m.searchInput.View()))
	}
	if m.state == StateLoading {
		parts = append(parts, m.spinner.View()+m.styles.Muted.Render(" refreshing"))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderTable() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(fmt.Sprintf("  %-24s %-14s %-8s %-8s %s",
		"BRANCH", "STATUS", "HEAD", "AGE", "LAST COMMIT")))
	b.WriteString("\n")

	if m.index.Len() == 0 {
		b.WriteString(m.styles.Muted.Render("  no worktrees"))
		b.WriteString("\n")
		return b.String()
	}

	now := m.now()
	for i := 0; i < m.index.Len(); i++ {
		r := m.index.At(i)

		cursor := "  "
		if i == m.index.SelectedPos() {
			cursor = "❯ "
		}

		name := r.DisplayName()
		if r.IsCurrent {
			name = "● " + name
		}
		name += badges(r)

		age := ""
		if r.CommitTime > 0 {
			age = worktree.RelativeAge(r.CommitTime, now)
		}

		line := fmt.Sprintf("%s%-24s %-14s %-8s %-8s %s",
			cursor, truncate(name, 24), r.Status.Summary(), r.ShortHash(), age, truncate(r.CommitSummary, 48))

		switch {
		case i == m.index.SelectedPos():
			b.WriteString(m.styles.Selected.Render(line))
		case r.IsPrunable:
			b.WriteString(m.styles.Muted.Render(line))
		case !r.Status.IsClean():
			b.WriteString(m.styles.Warning.Render(line))
		default:
			b.WriteString(m.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// badges marks the states that matter when scanning the table.
func badges(r worktree.Record) string {
	var out string
	if r.IsMain {
		out += " [main]"
	}
	if r.IsBare {
		out += " [bare]"
	}
	if r.IsLocked {
		out += " [locked]"
	}
	if r.IsPrunable {
		out += " [prunable]"
	}
	return out
}

func (m *Model) renderCommits() string {
	r, ok := m.index.Selected()
	if !ok || len(r.RecentCommits) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("  recent commits"))
	b.WriteString("\n")

	now := m.now()
	for _, c := range r.RecentCommits {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			m.styles.Info.Render(c.ShortHash),
			m.styles.Muted.Render(fmt.Sprintf("%-8s", worktree.RelativeAge(c.Time, now))),
			m.styles.Normal.Render(truncate(c.Summary, 64))))
	}
	return b.String()
}

func (m *Model) renderStatusBar() string {
	if m.status.text != "" {
		switch m.status.level {
		case levelSuccess:
			return m.styles.Success.Render(m.status.text)
		case levelWarning:
			return m.styles.Warning.Render(m.status.text)
		case levelError:
			return m.styles.Error.Render(m.status.text)
		default:
			return m.styles.Info.Render(m.status.text)
		}
	}
	return m.styles.Help.Render("j/k move · enter switch · c create · d delete · m merge · / search · s sort · r refresh · ? help · q quit")
}

func (m *Model) renderCreate() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Create worktree"))
	b.WriteString("\n\n")

	if m.checkoutExisting {
		b.WriteString(m.styles.Normal.Render("Check out an existing branch"))
	} else {
		b.WriteString(m.styles.Normal.Render("New branch (pick a base below)"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderCandidates(m.createCandidates()))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter create · tab switch mode · ↑/↓ pick · esc cancel"))

	return m.styles.Dialog.Render(b.String())
}

func (m *Model) renderDelete() string {
	r := m.deleteTarget

	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Delete worktree"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Normal.Render(r.DisplayName()))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(r.Path))
	b.WriteString("\n\n")
	if !r.Status.IsClean() {
		b.WriteString(m.styles.Warning.Render("Worktree has uncommitted changes (" + r.Status.Summary() + "); they will be discarded."))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.Help.Render("y delete · esc cancel"))

	return m.styles.Dialog.Render(b.String())
}

func (m *Model) renderMerge() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Merge into " + m.mergeTarget.DisplayName()))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderCandidates(m.filterBranches(m.branches)))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter merge · ↑/↓ pick · esc cancel"))

	return m.styles.Dialog.Render(b.String())
}

func (m *Model) renderCandidates(candidates []string) string {
	if len(candidates) == 0 {
		return m.styles.Muted.Render("  no matches")
	}

	cursor := clamp(m.branchCursor, len(candidates))
	var b strings.Builder
	for i, c := range candidates {
		if i >= maxDialogRows {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  … %d more", len(candidates)-maxDialogRows)))
			break
		}
		if i == cursor {
			b.WriteString(m.styles.Selected.Render("❯ " + c))
		} else {
			b.WriteString(m.styles.Normal.Render("  " + c))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderError() string {
	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Error.Render(m.errMsg))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("esc close"))
	return m.styles.Dialog.Render(b.String())
}

func (m *Model) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"j/k, ↑/↓", "move selection"},
		{"g/G", "first / last"},
		{"enter", "switch to worktree and quit"},
		{"c", "create worktree"},
		{"d", "delete worktree"},
		{"m", "merge a branch into the selection"},
		{"L", "lock / unlock"},
		{"f", "fetch all remotes"},
		{"p / P", "pull / push"},
		{"X", "prune stale worktrees"},
		{"s", "cycle sort order"},
		{"/", "filter worktrees"},
		{"t", "toggle commit panel"},
		{"y", "copy path"},
		{"o", "open in file manager"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			m.styles.Info.Render(fmt.Sprintf("%-12s", row.key)),
			m.styles.Normal.Render(row.desc)))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("esc close"))
	return m.styles.Dialog.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

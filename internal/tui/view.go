package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/turnip-editor/turnip/internal/tui/styles"
)

// View renders the full screen
func (m Model) View() string {
	if !m.ready {
		return "Starting Turnip..."
	}
	if m.quitting {
		return ""
	}

	sidebarW := m.sidebarWidth()
	editorW := m.width - sidebarW - 1

	header := styles.Header.Width(m.width).Render(m.manager.WindowTitle())

	sidebar := m.renderSidebar(sidebarW, m.height-EditorHeightOffset)
	editorBox := styles.EditorBox.Width(editorW - 2).Render(m.renderEditor())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", editorBox)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if overlay := m.renderOverlay(); overlay != "" {
		b.WriteString("\n")
		b.WriteString(overlay)
	}
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderHelp())
	}

	return b.String()
}

// renderEditor shows the active buffer, or a placeholder when no tab is open
func (m Model) renderEditor() string {
	if m.activeRecord() == nil {
		return styles.Muted.Render("No tab selected. ctrl+o opens a file, alt+h shows help.")
	}
	return m.textarea.View()
}

// renderStatusBar builds the bottom line: position and counts on the left,
// messages on the right. Errors win over info.
func (m Model) renderStatusBar() string {
	var left string
	if rec, idx := m.store.Active(); rec != nil {
		left = fmt.Sprintf("%s  Ln %d  tab %d/%d", rec.Path, m.textarea.Line()+1, idx+1, m.tabCount())
		if pinned := m.store.PinnedCount(); pinned > 0 {
			left += fmt.Sprintf("  (%d pinned)", pinned)
		}
	} else {
		left = "no tab"
	}

	var right string
	switch {
	case m.errorMessage != "":
		right = styles.ErrorMsg.Render(m.errorMessage)
	case m.infoMessage != "":
		right = styles.InfoMsg.Render(m.infoMessage)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderOverlay renders the active prompt or confirmation banner
func (m Model) renderOverlay() string {
	switch m.mode {
	case modeOpen, modeFind, modeReplace, modeReplaceWith, modeGroupLoad, modeGroupSave:
		return styles.PromptBox.Width(m.width - 2).Render(m.prompt.View())

	case modeConfirmClose:
		if m.pendingClose == nil {
			return ""
		}
		reason := "has unsaved changes"
		if m.pendingClose.Pinned {
			reason = "is pinned"
		}
		return styles.ConfirmBanner.Render(
			fmt.Sprintf("%s %s. Close anyway? [y/n]", m.pendingClose.Label(), reason))

	case modeConfirmLarge:
		return styles.ConfirmBanner.Render(
			fmt.Sprintf("%s is large. Open anyway? [y/n]", m.pendingOpen))
	}
	return ""
}

// renderHelp lists the keymap
func (m Model) renderHelp() string {
	bindings := []struct{ key, desc string }{
		{"ctrl+o", "open file"},
		{"ctrl+s", "save"},
		{"alt+s", "save all"},
		{"ctrl+w", "close tab"},
		{"ctrl+p", "pin/unpin"},
		{"alt+↑/↓", "move tab"},
		{"ctrl+←/→", "switch tab"},
		{"ctrl+f", "find"},
		{"alt+n/p", "next/prev match"},
		{"ctrl+r", "replace all"},
		{"ctrl+l", "load group"},
		{"alt+l", "save group as"},
		{"ctrl+q", "quit"},
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, styles.HelpKey.Render(b.key)+" "+styles.HelpBar.Render(b.desc))
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}

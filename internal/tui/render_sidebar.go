package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/turnip-editor/turnip/internal/tabs"
	"github.com/turnip-editor/turnip/internal/tui/styles"
)

// sidebarWidth returns the configured width, shrunk on narrow terminals
func (m Model) sidebarWidth() int {
	w := m.cfg.TUI.SidebarWidth
	if m.width > 0 && m.width < 80 {
		w = SidebarMinWidth
	}
	return w
}

// sidebarSlots is how many tab rows fit in the sidebar
func (m Model) sidebarSlots() int {
	// Reserve: title, blank line, scroll indicators, border padding
	reservedLines := 7
	slots := m.height - reservedLines
	if m.store.PinnedCount() > 0 {
		slots-- // divider row
	}
	if slots < 3 {
		slots = 3
	}
	return slots
}

// renderSidebar renders the tab list with the pinned section on top
func (m Model) renderSidebar(width, height int) string {
	var b strings.Builder

	b.WriteString(styles.SidebarTitle.Render("Tabs"))
	b.WriteString("\n")

	total := m.tabCount()
	if total == 0 {
		b.WriteString(styles.Muted.Render("No tabs open"))
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("Press ctrl+o to open"))
	} else {
		slots := m.sidebarSlots()
		start := m.sidebarScrollOffset
		end := start + slots
		if end > total {
			end = total
		}

		if start > 0 {
			b.WriteString(styles.Muted.Render(fmt.Sprintf("▲ %d more above", start)))
			b.WriteString("\n")
		}

		pinned := m.store.PinnedCount()
		for i := start; i < end; i++ {
			if i == pinned && pinned > start && pinned > 0 {
				b.WriteString(styles.SidebarDivider.Render(strings.Repeat("─", width-6)))
				b.WriteString("\n")
			}
			b.WriteString(m.renderSidebarTab(i, m.store.At(i), width))
			b.WriteString("\n")
		}

		if end < total {
			b.WriteString(styles.Muted.Render(fmt.Sprintf("▼ %d more below", total-end)))
			b.WriteString("\n")
		}
	}

	return styles.Sidebar.Width(width - 2).Render(b.String())
}

// renderSidebarTab renders a single tab row
func (m Model) renderSidebarTab(i int, rec *tabs.Record, width int) string {
	icon := styles.TabIcon(rec.Pinned, rec.Modified)

	maxLabel := width - 8 // icon, padding, borders
	if maxLabel < 10 {
		maxLabel = 10
	}
	label := truncate(tabTitle(rec), maxLabel)

	_, activeIdx := m.store.Active()
	var itemStyle lipgloss.Style
	if i == activeIdx {
		itemStyle = styles.SidebarItemActive
	} else {
		itemStyle = styles.SidebarItem
		if rec.Modified {
			itemStyle = itemStyle.Foreground(styles.ModifiedColor)
		}
	}

	return icon + " " + itemStyle.Render(label)
}

// tabTitle is the text shown for a tab in the sidebar: the emoji from the
// group file if present, then the label.
func tabTitle(rec *tabs.Record) string {
	if rec.Emoji != "" {
		return rec.Emoji + " " + rec.Label()
	}
	return rec.Label()
}

// truncate shortens s to the given display width, cell-aware so wide
// characters don't push the sidebar border out of line.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

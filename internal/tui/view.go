package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/styles"
)

// View renders the editor.
func (m Model) View() tea.View {
	if m.width == 0 || m.height == 0 {
		return tea.NewView("")
	}

	content := m.render()

	switch m.state {
	case stateConfirmDelete:
		content = m.confirm.Overlay(content, m.width, m.height)
	case stateShowingHelp:
		content = m.help.Overlay(content, m.width, m.height)
	}

	content = m.toastView.Overlay(content, m.width, m.height)

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// render draws the header, the visible rows and the status bar.
func (m Model) render() string {
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderHeader(), "")

	list := m.session.List()
	rows := checklist.VisibleIndices(list)
	height := m.listHeight()

	if len(rows) == 0 {
		lines = append(lines, styles.TextMutedStyle.Render("  Empty checklist. Press o to add an item."))
	}

	end := min(m.offset+height, len(rows))
	for row := m.offset; row < end; row++ {
		lines = append(lines, m.renderRow(list, rows[row], row))
	}

	for len(lines) < m.height-footerLines {
		lines = append(lines, "")
	}
	lines = append(lines, "", m.renderStatusBar())

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, m.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	c := m.Checklist()
	progress := c.Progress()

	header := styles.TitleStyle.Render(styles.IconCheckList + c.Title)
	header += "  " + styles.ProgressStyle.Render(fmt.Sprintf("%d/%d", progress.Completed, progress.Total))
	if m.session.Dirty() {
		header += " " + styles.PriorityMediumStyle.Render(styles.IconDirty)
	}
	return header
}

func (m Model) renderRow(list checklist.List, i, row int) string {
	it := list[i]

	var b strings.Builder

	selected := row == m.cursorRow
	pointer := "  "
	switch {
	case m.state == stateDragging && row == m.dropRow:
		pointer = styles.ItemDraggingStyle.Render("→ ")
	case selected:
		pointer = styles.TitleStyle.Render("› ")
	}
	b.WriteString(pointer)

	for range it.Indent {
		b.WriteString(styles.IndentGuideStyle.Render(styles.IconGuide + " "))
	}

	stats := checklist.CompletionStats(list, i)
	switch {
	case stats.Total > 0 && it.Collapsed:
		b.WriteString(styles.TextMutedStyle.Render(styles.IconCollapsed) + " ")
	case stats.Total > 0:
		b.WriteString(styles.TextMutedStyle.Render(styles.IconExpanded) + " ")
	default:
		b.WriteString("  ")
	}

	b.WriteString(checkbox(it, stats) + " ")
	b.WriteString(m.renderText(it, selected))

	if marker := priorityMarker(it.Priority); marker != "" {
		b.WriteString(" " + marker)
	}
	if it.DueDate != nil {
		b.WriteString(" " + m.renderDue(it))
	}
	if stats.Total > 0 {
		b.WriteString(" " + styles.ProgressStyle.Render(fmt.Sprintf("%d/%d", stats.Completed, stats.Total)))
	}

	return b.String()
}

func (m Model) renderText(it checklist.Item, selected bool) string {
	if m.state == stateEditing && it.ID == m.editingID {
		return m.input.View()
	}

	text := it.Text
	if text == "" {
		text = " "
	}

	switch {
	case m.state == stateDragging && m.dragBlock[it.ID]:
		return styles.ItemDraggingStyle.Render(styles.IconDrag + " " + text)
	case selected:
		return styles.ItemCursorStyle.Render(text)
	case it.Completed:
		return styles.ItemDoneStyle.Render(text)
	default:
		return styles.ItemStyle.Render(text)
	}
}

func (m Model) renderDue(it checklist.Item) string {
	due := it.DueDate.Format(time.DateOnly)
	style := styles.DueStyle
	if !it.Completed && due < m.now().Format(time.DateOnly) {
		style = styles.DueOverdueStyle
	}
	return style.Render(styles.IconDue + " " + due)
}

func (m Model) renderStatusBar() string {
	var hint string
	switch m.state {
	case stateEditing:
		hint = "enter save • esc cancel"
	case stateDragging:
		hint = fmt.Sprintf("moving %d item(s) • j/k choose target • enter drop • esc cancel", len(m.dragBlock))
	default:
		parts := make([]string, 0, len(m.keys.ShortHelp()))
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+h.Desc)
		}
		hint = strings.Join(parts, " • ")
	}

	if m.saving {
		hint = "saving… " + hint
	}
	return styles.StatusBarStyle.Render(hint)
}

// checkbox picks the box for an item: done, partly done (some of its subtree
// is completed), or open.
func checkbox(it checklist.Item, stats checklist.Stats) string {
	switch {
	case it.Completed:
		return styles.TextSuccessStyle.Render(styles.IconBoxDone)
	case stats.Completed > 0:
		return styles.PriorityMediumStyle.Render(styles.IconBoxPartly)
	default:
		return styles.ItemStyle.Render(styles.IconBox)
	}
}

func priorityMarker(p checklist.Priority) string {
	switch p {
	case checklist.PriorityHigh:
		return styles.PriorityHighStyle.Render(styles.IconPriorityHigh)
	case checklist.PriorityMedium:
		return styles.PriorityMediumStyle.Render(styles.IconPriorityMedium)
	case checklist.PriorityLow:
		return styles.PriorityLowStyle.Render(styles.IconPriorityLow)
	}
	return ""
}

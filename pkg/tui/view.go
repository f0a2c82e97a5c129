package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/model"
)

const minWidth = 50
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderDayBar(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines

	leftWidth := w * 2 / 5
	rightWidth := w - leftWidth - 1
	if leftWidth < 24 {
		leftWidth = 24
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderAgendaPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == 1 {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Daybook")

	done, total := m.view.Counts()
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d done", done, total))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status + stats
}

// renderDayBar shows the selected day between its neighbours, plus the focus countdown.
func (m Model) renderDayBar(width int) string {
	today := m.app.Today()
	label := func(d model.Date) string {
		s := d.Time().Format("Mon 02 Jan")
		if d.Equal(today) {
			s += " · today"
		}
		return s
	}

	bar := InactiveDayStyle.Render("◀ "+label(m.date.AddDays(-1))) +
		ActiveDayStyle.Render(label(m.date)) +
		InactiveDayStyle.Render(label(m.date.AddDays(1))+" ▶")

	if m.focus != nil && !m.focus.Finished {
		state := ""
		if m.focus.Paused {
			state = " (paused)"
		}
		f := FocusStyle.Render(fmt.Sprintf("%s %s %s%s", IconFocus, m.focus.Session.Title, countdown(m.focus.Remaining), state))
		gap := width - lipgloss.Width(bar) - lipgloss.Width(f)
		if gap < 1 {
			gap = 1
		}
		bar += strings.Repeat(" ", gap) + f
	}
	return bar
}

func countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", countMatches(m.rows)))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}
	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderAgendaPanel(width, height int) string {
	var lines []string

	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.rows) == 0 {
		if m.searchQuery != "" {
			lines = append(lines, FooterStyle.Render("No matches."))
		} else {
			lines = append(lines, FooterStyle.Render("Nothing planned. Press 'a' to add a task."))
		}
	}

	startIdx := 0
	endIdx := len(m.rows)
	if len(m.rows) > listHeight {
		startIdx = m.cursor - listHeight/2
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + listHeight
		if endIdx > len(m.rows) {
			endIdx = len(m.rows)
			startIdx = endIdx - listHeight
			if startIdx < 0 {
				startIdx = 0
			}
		}
	}

	for i := startIdx; i < endIdx; i++ {
		row := m.rows[i]
		if row.IsSectionHeader {
			lines = append(lines, m.renderSectionHeader(row, width))
			continue
		}
		lines = append(lines, m.renderRow(row, i == m.cursor, width))
	}

	if m.input != inputNone {
		prompt := InputPromptStyle.Render(inputPrompts[m.input])
		lines = append(lines, prompt+m.textInput.View())
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	pathLine := lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.app.Store.Root))
	lines = append(lines, pathLine)

	return strings.Join(lines, "\n")
}

var inputPrompts = map[inputMode]string{
	inputAdd:  "+ ",
	inputNote: "✎ ",
	inputTime: "⏲ ",
}

func (m Model) renderSectionHeader(row Row, width int) string {
	style, ok := SectionStyles[row.Name]
	if !ok {
		style = HeaderCountStyle
	}
	label := style.Render("── " + row.Name + " ")
	if remaining := width - lipgloss.Width(label); remaining > 0 {
		label += lipgloss.NewStyle().Foreground(ColorGrayDim).Render(strings.Repeat("─", remaining))
	}
	return label
}

func (m Model) renderRow(row Row, isSelected bool, width int) string {
	b := row.Item.Common()

	var icon string
	switch {
	case b.IsDone:
		icon = CompleteStyle.Render(IconComplete)
	case b.IsFocused:
		icon = FocusStyle.Render(IconFocus)
	case b.IsLocked:
		icon = LockedStyle.Render(IconLocked)
	default:
		icon = IncompleteStyle.Render(IconIncomplete)
	}

	movePrefix := ""
	isMoveTarget := m.isMoveMode && row.ID() == m.moveID
	if isMoveTarget {
		movePrefix = IconMove + " "
	}

	clock := "      "
	if b.ScheduledTime != "" {
		clock = TimeStyle.Render(b.ScheduledTime) + " "
	}

	name := row.Name
	switch {
	case m.searchQuery != "":
		if isSelected {
			name = highlightMatch(name, m.searchQuery, SearchCharSelectedStyle, SelectedStyle)
		} else {
			name = highlightMatch(name, m.searchQuery, SearchCharStyle, SearchRowStyle)
		}
	case b.IsDone || b.IsLocked:
		name = LockedStyle.Render(name)
	case b.IsOverdue:
		name = OverdueStyle.Render(name)
	}

	line := " " + movePrefix + icon + " " + clock + name
	if b.Priority == model.PriorityHigh && !b.IsDone {
		line += PriorityStyle.Render(" !")
	}

	if lineWidth := lipgloss.Width(line); lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	switch {
	case isMoveTarget:
		line = MoveStyle.Render(line)
	case isSelected:
		line = SelectedStyle.Render(line)
	}
	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	row, ok := m.selected()
	if !ok {
		return FooterStyle.Render(" Select an item to view details")
	}

	bodyHeight := height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	ref, id := owner(row.Item)
	var md strings.Builder
	md.WriteString(m.renderItemHeader(row.Item))
	if notes := m.notes[id]; notes != "" {
		md.WriteString(notes)
		if !strings.HasSuffix(notes, "\n") {
			md.WriteString("\n")
		}
	}

	rendered := md.String()
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(rendered); err == nil {
			rendered = out
		}
	}
	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")

	scroll := m.notesScroll
	if scroll > len(lines)-1 {
		scroll = len(lines) - 1
	}
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}

	pathLine := ""
	if path, err := m.app.Store.EntityPath(ref, id); err == nil {
		pathLine = lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(path))
	}
	lines = append(lines, pathLine)
	return strings.Join(lines, "\n")
}

// renderItemHeader builds the markdown header (title, state, schedule) for an item.
func (m Model) renderItemHeader(it agenda.Item) string {
	b := it.Common()
	var md strings.Builder

	md.WriteString("# " + b.Title + "\n\n")

	state := "pending"
	switch {
	case b.IsDone:
		state = "done"
	case b.IsLocked:
		state = "locked"
	}
	meta := []string{"**" + kindLabel(b.Kind) + "**", "**Status:** " + state}
	if b.Priority != model.PriorityNone {
		meta = append(meta, "**Priority:** "+b.Priority.String())
	}
	if b.ScheduledTime != "" {
		meta = append(meta, "**At:** "+b.ScheduledTime)
	}
	if b.DurationMinutes > 0 {
		meta = append(meta, fmt.Sprintf("**Duration:** %dm", b.DurationMinutes))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	switch v := it.(type) {
	case *agenda.IntroItem:
		md.WriteString("- **Theme:** " + v.ThemeTitle + "\n")
	case *agenda.ReviewItem:
		md.WriteString("- **Theme:** " + v.ThemeTitle + "\n")
		if v.Synthetic {
			if v.ScheduledDate.IsZero() {
				md.WriteString("- No review pending\n")
			} else {
				md.WriteString("- **Next review:** " + v.ScheduledDate.String() + "\n")
			}
		} else {
			md.WriteString(fmt.Sprintf("- **Review:** %d\n", v.Number))
		}
	case *agenda.TaskItem:
		md.WriteString("- **Type:** " + string(v.TaskType) + "\n")
	case *agenda.HabitItem:
		md.WriteString("- **Type:** " + string(v.GoalType) + "\n")
		if v.GoalType != model.GoalHabit {
			md.WriteString(fmt.Sprintf("- **Progress:** %d%%\n", v.Progress))
		}
	case *agenda.StepItem:
		md.WriteString("- **Goal:** " + v.GoalTitle + "\n")
	}
	if b.IsOverdue {
		md.WriteString("- **Overdue since:** " + b.Date.String() + "\n")
	}
	if b.IsLocked && b.LockReason != "" {
		md.WriteString("- **Locked:** " + b.LockReason + "\n")
	}
	if b.IsFocused {
		md.WriteString("- **Focus:** running\n")
	}
	md.WriteString("\n")
	return md.String()
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	switch {
	case m.input != inputNone:
		help = "enter confirm  esc cancel"
	case m.isSearching:
		help = "type to filter  enter/↓ keep filter  esc clear"
	case m.searchQuery != "":
		help = "esc/enter clear filter  ↑↓ nav"
	case m.isMoveMode:
		help = "↑↓ reorder  enter/esc exit move"
	case m.focusedPane == 1:
		help = "↑↓ scroll details  tab agenda  E $EDITOR  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Delete %s '%s'?\n\n", m.deleteRef, m.deleteName)
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// highlightMatch splits name into before/match/after and styles the match portion
// with charStyle, and the rest with rowStyle. The match is case-insensitive.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	lower := strings.ToLower(name)
	idx := strings.Index(lower, strings.ToLower(query))
	if idx < 0 || idx+len(query) > len(name) {
		return rowStyle.Render(name)
	}
	before := name[:idx]
	match := name[idx : idx+len(query)]
	after := name[idx+len(query):]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += charStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		if lineWidth := lipgloss.Width(line); lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}
	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"pomflow/internal/model"
	"pomflow/internal/timer"
)

const (
	progressWidth = 30
	minPanelWidth = 40
)

var modeTabs = []struct {
	mode  model.Mode
	label string
}{
	{model.ModeFocus, "Focus"},
	{model.ModeShortBreak, "Short Break"},
	{model.ModeLongBreak, "Long Break"},
}

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	state := m.engine.Snapshot()
	sections := []string{
		m.renderHeader(),
		m.renderTabs(state),
		m.renderTimer(state),
		m.renderTasks(state),
	}
	if m.showHistory {
		sections = append(sections, m.renderHistory())
	}
	if m.banner != nil {
		sections = append(sections, m.styles.Banner.Render(m.banner.Title+"\n"+m.banner.Body))
	}
	if m.inputMode != inputNone {
		sections = append(sections, m.input.View())
	}
	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("PomFlow")
	account := "offline"
	if m.account != "" {
		account = m.account
	}
	right := m.styles.Status.Render(account)
	gap := m.panelWidth() - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderTabs(state timer.State) string {
	tabs := make([]string, 0, len(modeTabs))
	for _, tab := range modeTabs {
		if tab.mode == state.Mode {
			tabs = append(tabs, m.styles.ActiveTab(tab.mode).Render(tab.label))
			continue
		}
		tabs = append(tabs, m.styles.Tab.Render(tab.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderTimer(state timer.State) string {
	color := m.styles.ModeColor(state.Mode)
	clock := m.styles.Clock.Foreground(color).Render(timer.FormatClock(state.TimeLeftSeconds))

	done, total := state.CycleDots()
	dots := strings.Repeat("●", done) + strings.Repeat("○", total-done)
	status := fmt.Sprintf("%s  %s  #%d", statusLabel(state.Status()), dots, state.CompletedPomodoros+1)

	bar := progressBar(state.Progress(), progressWidth)
	lines := []string{
		clock,
		m.styles.Muted.Render(status),
		lipgloss.NewStyle().Foreground(color).Render(bar),
	}
	if task, ok := m.engine.ActiveTask(); ok {
		lines = append(lines, fmt.Sprintf("Working on: %s (%d/%d)", task.Title, task.CompletedPomodoros, task.EstimatedPomodoros))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderTasks(state timer.State) string {
	var b strings.Builder
	b.WriteString(m.styles.PanelHead.Render("Tasks"))
	b.WriteString("\n")

	list := m.visibleTasks()
	if len(list) == 0 {
		b.WriteString(m.styles.Muted.Render("No tasks yet. Press a to add one."))
	}
	for i, task := range list {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.Cursor.Render("> ")
		}
		check := "[ ]"
		if task.IsCompleted {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s  %d/%d", check, task.Title, task.CompletedPomodoros, task.EstimatedPomodoros)
		switch {
		case task.IsCompleted:
			line = m.styles.Done.Render(line)
		case task.ID == state.ActiveTaskID:
			line = m.styles.Cursor.Render(line + "  ◀")
		default:
			line = m.styles.Task.Render(line)
		}
		b.WriteString(pointer + line)
		if i < len(list)-1 {
			b.WriteString("\n")
		}
	}

	if budget := m.engine.Budget(); budget != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(budget))
	}
	return m.styles.Panel.Width(m.panelWidth()).Render(b.String())
}

func (m Model) renderHistory() string {
	var b strings.Builder
	today := m.engine.TodayHistory()
	b.WriteString(m.styles.PanelHead.Render(fmt.Sprintf("Today (%d)", len(today))))
	if len(today) == 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("No focus sessions completed today."))
	}
	for _, entry := range today {
		title := entry.TaskTitle
		if title == "" {
			title = "No task"
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(entry.Timestamp.Local().Format("15:04")) + "  " + title)
	}
	return m.styles.Panel.Width(m.panelWidth()).Render(b.String())
}

func (m Model) renderStatusBar() string {
	switch {
	case m.errText != "":
		return m.styles.Error.Render(m.errText)
	case m.inputMode != inputNone:
		return m.styles.Muted.Render("enter save • esc cancel • end with *N to set the estimate")
	case m.status != "":
		return m.styles.Muted.Render(m.status)
	}
	return m.help.View(m.keys)
}

func (m Model) helpView() string {
	m.help.ShowAll = true
	body := m.styles.PanelHead.Render("Keyboard shortcuts") + "\n\n" + m.help.View(m.keys) +
		"\n\n" + m.styles.Muted.Render("Press ? or esc to close")
	return m.styles.Help.Render(body)
}

func (m Model) panelWidth() int {
	if m.width-2 > minPanelWidth {
		return m.width - 2
	}
	return minPanelWidth
}

func statusLabel(status timer.Status) string {
	switch status {
	case timer.StatusRunning:
		return "Running"
	case timer.StatusPaused:
		return "Paused"
	default:
		return "Ready"
	}
}

func progressBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// parseTaskInput splits an optional "*N" estimate off the end of a title.
func parseTaskInput(value string) (string, int) {
	value = strings.TrimSpace(value)
	idx := strings.LastIndex(value, "*")
	if idx < 0 {
		return value, 1
	}
	estimate, err := strconv.Atoi(strings.TrimSpace(value[idx+1:]))
	if err != nil {
		return value, 1
	}
	return strings.TrimSpace(value[:idx]), estimate
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

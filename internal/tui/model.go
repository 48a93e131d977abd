// Package tui is the interactive terminal front end. It renders the timer
// engine's state and turns key presses into engine intents.
package tui

import (
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pomflow/internal/model"
	"pomflow/internal/persist"
	"pomflow/internal/timer"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
)

type Options struct {
	Engine *timer.Engine
	// Store is read when another process rewrites a state file. Nil
	// disables reloads.
	Store persist.Store
	// Sink receives the dark-mode flag.
	Sink     timer.StateSink
	DarkMode bool
	// Account is shown in the status bar; empty means offline.
	Account string
	Logger  *log.Logger
}

// Model is the root Bubble Tea model. The engine it points at is only ever
// touched from Update.
type Model struct {
	engine  *timer.Engine
	store   persist.Store
	sink    timer.StateSink
	logger  *log.Logger
	account string

	width  int
	height int

	keys   KeyMap
	help   help.Model
	styles Styles
	dark   bool

	cursor      int
	input       textinput.Model
	inputMode   inputMode
	editingID   string
	showHelp    bool
	showHistory bool

	banner  *BannerMsg
	status  string
	errText string
}

func New(opts Options) Model {
	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.CharLimit = 200

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	m := Model{
		engine:  opts.Engine,
		store:   opts.Store,
		sink:    opts.Sink,
		logger:  logger,
		account: opts.Account,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  NewStyles(opts.DarkMode),
		dark:    opts.DarkMode,
		input:   input,
	}
	m.cursor = m.activeIndex()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case RunMsg:
		msg()
		m.clampCursor()
		return m, nil

	case BannerMsg:
		m.banner = &msg
		return m, nil

	case BannerClosedMsg:
		if m.banner != nil && m.banner.ID == msg.ID {
			m.banner = nil
		}
		return m, nil

	case ReloadMsg:
		m.reload(msg.Key)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Escape):
			m.showHelp = false
		}
		return m, nil
	}

	m.status = ""
	m.errText = ""
	e := m.engine

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		e.Toggle()
	case key.Matches(msg, m.keys.Reset):
		e.Reset()
	case key.Matches(msg, m.keys.Skip):
		e.Skip()
	case key.Matches(msg, m.keys.Focus):
		e.SwitchMode(model.ModeFocus)
	case key.Matches(msg, m.keys.ShortBreak):
		e.SwitchMode(model.ModeShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		e.SwitchMode(model.ModeLongBreak)
	case key.Matches(msg, m.keys.ResetCounter):
		e.ResetCounter()
		m.status = "Session count reset"

	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Select):
		if task, ok := m.selectedTask(); ok {
			if task.IsCompleted {
				m.errText = "Completed tasks cannot be worked on"
				break
			}
			e.SelectTask(task.ID)
		}
	case key.Matches(msg, m.keys.Add):
		return m.openInput(inputAdd, "", "")
	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selectedTask(); ok {
			return m.openInput(inputEdit, task.ID, task.Title)
		}
	case key.Matches(msg, m.keys.Complete):
		if task, ok := m.selectedTask(); ok {
			m.setErr(e.ToggleTaskCompleted(task.ID))
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			e.DeleteTask(task.ID)
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelected(1)
	case key.Matches(msg, m.keys.More):
		m.adjustEstimate(1)
	case key.Matches(msg, m.keys.Less):
		m.adjustEstimate(-1)
	case key.Matches(msg, m.keys.ClearDone):
		if n := e.ClearCompletedTasks(); n > 0 {
			m.status = fmt.Sprintf("Cleared %d completed task(s)", n)
		}

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
	case key.Matches(msg, m.keys.Dark):
		m.dark = !m.dark
		m.styles = NewStyles(m.dark)
		if m.sink != nil {
			m.sink.Save(persist.KeyDarkMode, m.dark)
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}

	m.clampCursor()
	return m, nil
}

func (m Model) openInput(mode inputMode, id, value string) (tea.Model, tea.Cmd) {
	m.inputMode = mode
	m.editingID = id
	m.input.SetValue(value)
	m.input.CursorEnd()
	if mode == inputAdd {
		m.input.Prompt = "New task: "
	} else {
		m.input.Prompt = "Rename: "
	}
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) closeInput() Model {
	m.inputMode = inputNone
	m.editingID = ""
	m.input.Blur()
	m.input.Reset()
	return m
}

// updateInput owns every key while the text field is focused.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeInput(), nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.errText = ""

	switch m.inputMode {
	case inputAdd:
		title, estimate := parseTaskInput(value)
		task, err := m.engine.AddTask(title, "", estimate)
		if err != nil {
			m.setErr(err)
			return m, nil
		}
		m = m.closeInput()
		m.cursor = m.indexOf(task.ID)
	case inputEdit:
		current, ok := m.engine.Task(m.editingID)
		if !ok {
			m = m.closeInput()
			break
		}
		current.Title = value
		if err := m.engine.UpdateTask(current); err != nil {
			m.setErr(err)
			return m, nil
		}
		m = m.closeInput()
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) moveSelected(delta int) {
	task, ok := m.selectedTask()
	if !ok || task.IsCompleted {
		return
	}
	if err := m.engine.MoveTask(task.ID, m.cursor+delta); err != nil {
		m.setErr(err)
		return
	}
	m.cursor = m.indexOf(task.ID)
}

func (m *Model) adjustEstimate(delta int) {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	task.EstimatedPomodoros += delta
	if task.EstimatedPomodoros < 1 {
		return
	}
	m.setErr(m.engine.UpdateTask(task))
}

func (m *Model) reload(key persist.Key) {
	if m.store == nil {
		return
	}
	switch key {
	case persist.KeyTasks:
		var list []model.Task
		if _, err := m.store.Load(key, &list); err != nil {
			m.logger.Printf("tui: reload %s: %v", key, err)
			return
		}
		m.engine.ReplaceTasks(list)
		m.status = "Tasks updated"
	case persist.KeySettings:
		settings := model.DefaultSettings()
		if _, err := m.store.Load(key, &settings); err != nil {
			m.logger.Printf("tui: reload %s: %v", key, err)
			return
		}
		m.engine.ApplySettings(settings)
		m.status = "Settings updated"
	case persist.KeyHistory:
		var entries []model.HistoryEntry
		if _, err := m.store.Load(key, &entries); err != nil {
			m.logger.Printf("tui: reload %s: %v", key, err)
			return
		}
		m.engine.ReplaceHistory(entries)
	}
}

func (m *Model) setErr(err error) {
	if err == nil {
		m.errText = ""
		return
	}
	m.errText = capitalize(err.Error())
}

// visibleTasks is the render order: active tasks first, then completed.
func (m Model) visibleTasks() []model.Task {
	all := m.engine.Tasks()
	ordered := make([]model.Task, 0, len(all))
	for _, task := range all {
		if !task.IsCompleted {
			ordered = append(ordered, task)
		}
	}
	for _, task := range all {
		if task.IsCompleted {
			ordered = append(ordered, task)
		}
	}
	return ordered
}

func (m Model) selectedTask() (model.Task, bool) {
	list := m.visibleTasks()
	if m.cursor < 0 || m.cursor >= len(list) {
		return model.Task{}, false
	}
	return list[m.cursor], true
}

func (m Model) indexOf(id string) int {
	for i, task := range m.visibleTasks() {
		if task.ID == id {
			return i
		}
	}
	return 0
}

func (m Model) activeIndex() int {
	if task, ok := m.engine.ActiveTask(); ok {
		return m.indexOf(task.ID)
	}
	return 0
}

func (m *Model) clampCursor() {
	n := len(m.engine.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

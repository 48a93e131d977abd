package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every global binding. None of them fire while the task input
// is focused.
type KeyMap struct {
	// Timer
	Toggle       key.Binding
	Reset        key.Binding
	Skip         key.Binding
	Focus        key.Binding
	ShortBreak   key.Binding
	LongBreak    key.Binding
	ResetCounter key.Binding

	// Tasks
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Add       key.Binding
	Edit      key.Binding
	Complete  key.Binding
	Delete    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	More      key.Binding
	Less      key.Binding
	ClearDone key.Binding

	// View
	History key.Binding
	Dark    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Focus: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "focus"),
		),
		ShortBreak: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "short break"),
		),
		LongBreak: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "long break"),
		),
		ResetCounter: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset count"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "work on task"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit title"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "done/undo"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("del", "delete"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("J", "move down"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "estimate +1"),
		),
		Less: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "estimate -1"),
		),
		ClearDone: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear done"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		Dark: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dark mode"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "shortcuts"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Skip, k.Add, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Skip, k.Focus, k.ShortBreak, k.LongBreak, k.ResetCounter},
		{k.Up, k.Down, k.Select, k.Add, k.Edit, k.Complete, k.Delete},
		{k.MoveUp, k.MoveDown, k.More, k.Less, k.ClearDone},
		{k.History, k.Dark, k.Help, k.Quit},
	}
}

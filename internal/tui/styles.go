package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pomflow/internal/model"
)

type palette struct {
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Focus      lipgloss.Color
	ShortBreak lipgloss.Color
	LongBreak  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// One Dark for dark mode, One Light otherwise.
var (
	darkPalette = palette{
		Text:       lipgloss.Color("#ABB2BF"),
		Muted:      lipgloss.Color("#636B78"),
		Border:     lipgloss.Color("#3F4451"),
		Focus:      lipgloss.Color("#E06C75"),
		ShortBreak: lipgloss.Color("#98C379"),
		LongBreak:  lipgloss.Color("#61AFEF"),
		Success:    lipgloss.Color("#98C379"),
		Warning:    lipgloss.Color("#E5C07B"),
		Error:      lipgloss.Color("#E06C75"),
	}
	lightPalette = palette{
		Text:       lipgloss.Color("#383A42"),
		Muted:      lipgloss.Color("#A0A1A7"),
		Border:     lipgloss.Color("#D4D4D4"),
		Focus:      lipgloss.Color("#E45649"),
		ShortBreak: lipgloss.Color("#50A14F"),
		LongBreak:  lipgloss.Color("#4078F2"),
		Success:    lipgloss.Color("#50A14F"),
		Warning:    lipgloss.Color("#C18401"),
		Error:      lipgloss.Color("#E45649"),
	}
)

type Styles struct {
	colors palette

	Title     lipgloss.Style
	Tab       lipgloss.Style
	Clock     lipgloss.Style
	Status    lipgloss.Style
	Panel     lipgloss.Style
	PanelHead lipgloss.Style
	Task      lipgloss.Style
	Cursor    lipgloss.Style
	Done      lipgloss.Style
	Muted     lipgloss.Style
	Banner    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

func NewStyles(dark bool) Styles {
	colors := lightPalette
	if dark {
		colors = darkPalette
	}
	return Styles{
		colors: colors,
		Title: lipgloss.NewStyle().
			Foreground(colors.Focus).
			Bold(true).
			PaddingLeft(1),
		Tab: lipgloss.NewStyle().
			Foreground(colors.Muted).
			Padding(0, 1),
		Clock: lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4),
		Status: lipgloss.NewStyle().
			Foreground(colors.Muted).
			PaddingLeft(1).
			PaddingRight(1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),
		PanelHead: lipgloss.NewStyle().
			Foreground(colors.Text).
			Bold(true),
		Task: lipgloss.NewStyle().
			Foreground(colors.Text),
		Cursor: lipgloss.NewStyle().
			Foreground(colors.Warning).
			Bold(true),
		Done: lipgloss.NewStyle().
			Foreground(colors.Muted).
			Strikethrough(true),
		Muted: lipgloss.NewStyle().
			Foreground(colors.Muted),
		Banner: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colors.Success).
			Foreground(colors.Success).
			PaddingLeft(1),
		Error: lipgloss.NewStyle().
			Foreground(colors.Error),
		Help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(1, 2),
	}
}

// ModeColor is the accent for a mode's tab, clock and progress bar.
func (s Styles) ModeColor(mode model.Mode) lipgloss.Color {
	switch mode {
	case model.ModeShortBreak:
		return s.colors.ShortBreak
	case model.ModeLongBreak:
		return s.colors.LongBreak
	default:
		return s.colors.Focus
	}
}

func (s Styles) ActiveTab(mode model.Mode) lipgloss.Style {
	return s.Tab.
		Foreground(s.ModeColor(mode)).
		Bold(true).
		Underline(true)
}

package model

import (
	"errors"
	"log"
	"strings"
)

type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

var ErrInvalidMode = errors.New("mode must be one of focus, short_break, long_break")

// Modes lists every mode in display order.
var Modes = []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}

// ParseMode accepts the canonical identifiers plus the short aliases used on
// the command line.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "focus", "pomodoro", "work":
		return ModeFocus, nil
	case "short_break", "short", "shortbreak":
		return ModeShortBreak, nil
	case "long_break", "long", "longbreak":
		return ModeLongBreak, nil
	}
	return "", ErrInvalidMode
}

func (m Mode) Valid() bool {
	return m == ModeFocus || m == ModeShortBreak || m == ModeLongBreak
}

func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

func (m Mode) Label() string {
	switch m {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}

// DurationSeconds resolves the configured length of mode. Unknown modes get
// the focus duration and a log line.
func DurationSeconds(mode Mode, settings Settings) int {
	switch mode {
	case ModeFocus:
		return settings.FocusMinutes * 60
	case ModeShortBreak:
		return settings.ShortBreakMinutes * 60
	case ModeLongBreak:
		return settings.LongBreakMinutes * 60
	default:
		log.Printf("model: unknown mode %q, using focus duration", mode)
		return settings.FocusMinutes * 60
	}
}

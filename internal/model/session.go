package model

// Session is the durable part of the timer state. Whether the countdown was
// running is deliberately absent: a restored session always starts idle.
type Session struct {
	Mode               Mode   `json:"mode" yaml:"mode"`
	TimeLeftSeconds    int    `json:"timeLeftSeconds" yaml:"timeLeftSeconds"`
	CompletedPomodoros int    `json:"completedPomodoros" yaml:"completedPomodoros"`
	ActiveTaskID       string `json:"activeTaskId,omitempty" yaml:"activeTaskId,omitempty"`
}

func NewSession(settings Settings) Session {
	return Session{
		Mode:            ModeFocus,
		TimeLeftSeconds: DurationSeconds(ModeFocus, settings),
	}
}

// Normalize repairs a session loaded from storage against settings. A time
// left of zero or beyond the mode's duration is reset to the full duration.
func (s Session) Normalize(settings Settings) Session {
	if !s.Mode.Valid() {
		s.Mode = ModeFocus
	}
	duration := DurationSeconds(s.Mode, settings)
	if s.TimeLeftSeconds <= 0 || s.TimeLeftSeconds > duration {
		s.TimeLeftSeconds = duration
	}
	if s.CompletedPomodoros < 0 {
		s.CompletedPomodoros = 0
	}
	return s
}

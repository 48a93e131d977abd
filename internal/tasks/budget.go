package tasks

import "fmt"

// RemainingMinutes is the focus time still estimated for the active tasks.
func (s *Store) RemainingMinutes(focusMinutes int) int {
	pomodoros := 0
	for _, task := range s.tasks {
		if task.IsCompleted {
			continue
		}
		pomodoros += task.RemainingPomodoros()
	}
	return pomodoros * focusMinutes
}

// FormatBudget renders minutes as "~1h 15min remaining". Zero renders as the
// empty string so callers can hide the line.
func FormatBudget(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("~%dh %dmin remaining", hours, mins)
	case hours > 0:
		return fmt.Sprintf("~%dh remaining", hours)
	default:
		return fmt.Sprintf("~%dmin remaining", mins)
	}
}

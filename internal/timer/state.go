package timer

import (
	"fmt"
	"time"

	"pomflow/internal/model"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// State is a point-in-time copy of the engine for renderers.
type State struct {
	Mode               model.Mode
	TimeLeftSeconds    int
	DurationSeconds    int
	Running            bool
	CompletedPomodoros int
	ActiveTaskID       string
	LongBreakInterval  int
}

// Status reports paused when the countdown stopped part way through.
func (s State) Status() Status {
	switch {
	case s.Running:
		return StatusRunning
	case s.TimeLeftSeconds < s.DurationSeconds:
		return StatusPaused
	default:
		return StatusIdle
	}
}

// Progress is the elapsed fraction of the current mode, in [0, 1].
func (s State) Progress() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	elapsed := float64(s.DurationSeconds-s.TimeLeftSeconds) / float64(s.DurationSeconds)
	if elapsed < 0 {
		return 0
	}
	if elapsed > 1 {
		return 1
	}
	return elapsed
}

// CycleDots is how many focus intervals of the current long-break cycle are
// done, and the cycle length.
func (s State) CycleDots() (done, total int) {
	total = s.LongBreakInterval
	if total < 1 {
		total = 1
	}
	done = s.CompletedPomodoros % total
	if done == 0 && s.CompletedPomodoros > 0 && s.Mode == model.ModeLongBreak {
		done = total
	}
	return done, total
}

func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

type EventType string

const (
	EventTick        EventType = "tick"
	EventStateChange EventType = "state_change"
	EventComplete    EventType = "complete"
)

// Event is delivered to Options.OnEvent. Finished is set only on
// EventComplete and names the mode that ran out.
type Event struct {
	Type     EventType
	State    State
	Finished model.Mode
	At       time.Time
}

package model

import "time"

type Task struct {
	ID                 string `json:"id" yaml:"id"`
	Title              string `json:"title" yaml:"title"`
	Notes              string `json:"notes,omitempty" yaml:"notes,omitempty"`
	EstimatedPomodoros int    `json:"estimatedPomodoros" yaml:"estimatedPomodoros"`
	CompletedPomodoros int    `json:"completedPomodoros" yaml:"completedPomodoros"`
	IsCompleted        bool   `json:"isCompleted" yaml:"isCompleted"`
}

// RemainingPomodoros never goes negative, even when a task ran past its
// estimate.
func (t Task) RemainingPomodoros() int {
	if t.CompletedPomodoros >= t.EstimatedPomodoros {
		return 0
	}
	return t.EstimatedPomodoros - t.CompletedPomodoros
}

// HistoryEntry records one completed focus interval. TaskTitle is empty when
// no task was bound.
type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	TaskTitle string    `json:"taskTitle,omitempty" yaml:"taskTitle,omitempty"`
}

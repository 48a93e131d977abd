// Package history keeps the append-only record of completed focus intervals.
package history

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"pomflow/internal/model"
)

type Log struct {
	entries []model.HistoryEntry
	newID   func() string
}

func NewLog(initial []model.HistoryEntry) *Log {
	l := &Log{newID: uuid.NewString}
	l.Replace(initial)
	return l
}

// Replace loads a full history, e.g. after pulling from the sync server.
// Entries are kept in completion order.
func (l *Log) Replace(entries []model.HistoryEntry) {
	l.entries = make([]model.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == "" || entry.Timestamp.IsZero() {
			continue
		}
		l.entries = append(l.entries, entry)
	}
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Timestamp.Before(l.entries[j].Timestamp)
	})
}

// Append records a completion at "at". An empty taskTitle means no task was
// bound.
func (l *Log) Append(at time.Time, taskTitle string) model.HistoryEntry {
	entry := model.HistoryEntry{
		ID:        l.newID(),
		Timestamp: at,
		TaskTitle: taskTitle,
	}
	l.entries = append(l.entries, entry)
	return entry
}

func (l *Log) All() []model.HistoryEntry {
	return append([]model.HistoryEntry(nil), l.entries...)
}

// Today returns the entries that fall on now's calendar day in now's
// location, most recent first.
func (l *Log) Today(now time.Time) []model.HistoryEntry {
	loc := now.Location()
	year, month, day := now.Date()

	out := make([]model.HistoryEntry, 0)
	for i := len(l.entries) - 1; i >= 0; i-- {
		y, m, d := l.entries[i].Timestamp.In(loc).Date()
		if y == year && m == month && d == day {
			out = append(out, l.entries[i])
		}
	}
	return out
}

func (l *Log) Clear() {
	l.entries = nil
}

func (l *Log) Len() int {
	return len(l.entries)
}

package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomflow/internal/model"
)

func TestAppendAssignsIDs(t *testing.T) {
	l := NewLog(nil)
	at := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	first := l.Append(at, "Write report")
	second := l.Append(at.Add(time.Minute), "")

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Write report", first.TaskTitle)
	assert.Empty(t, second.TaskTitle)
	assert.Equal(t, 2, l.Len())
}

func TestReplaceSortsAndDropsInvalid(t *testing.T) {
	base := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	l := NewLog([]model.HistoryEntry{
		{ID: "late", Timestamp: base.Add(time.Hour)},
		{ID: "", Timestamp: base},
		{ID: "zero"},
		{ID: "early", Timestamp: base},
	})

	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, "early", all[0].ID)
	assert.Equal(t, "late", all[1].ID)
}

func TestTodayUsesLocalCalendarDay(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, zone)

	l := NewLog([]model.HistoryEntry{
		// 2026-05-01 13:30 UTC is 23:30 on May 1st in zone.
		{ID: "yesterday", Timestamp: time.Date(2026, 5, 1, 13, 30, 0, 0, time.UTC)},
		// 2026-05-01 14:30 UTC is 00:30 on May 2nd in zone.
		{ID: "midnight", Timestamp: time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC)},
		{ID: "morning", Timestamp: time.Date(2026, 5, 2, 8, 0, 0, 0, zone)},
	})

	today := l.Today(now)
	require.Len(t, today, 2)
	assert.Equal(t, "morning", today[0].ID)
	assert.Equal(t, "midnight", today[1].ID)
}

func TestClear(t *testing.T) {
	l := NewLog(nil)
	l.Append(time.Now(), "")

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Today(time.Now()))
}

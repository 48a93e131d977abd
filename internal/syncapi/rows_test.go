package syncapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomflow/internal/model"
)

func TestTaskRowsCarryPosition(t *testing.T) {
	rows := TaskRows([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 2},
		{ID: "b", Title: "B", EstimatedPomodoros: 1, IsCompleted: true},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, 1, rows[1].Position)
	assert.Equal(t, "b", Tasks(rows)[1].ID)
	assert.True(t, Tasks(rows)[1].IsCompleted)
}

func TestTaskRowJSONNames(t *testing.T) {
	raw, err := json.Marshal(TaskToRow(model.Task{ID: "a", Title: "A", EstimatedPomodoros: 3, CompletedPomodoros: 1}, 0))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "estimated_pomodoros")
	assert.Contains(t, fields, "completed_pomodoros")
	assert.Contains(t, fields, "is_completed")
}

func TestHistoryRowAbsentTitleIsNull(t *testing.T) {
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.FixedZone("X", 3600))
	row := HistoryToRow(model.HistoryEntry{ID: "h1", Timestamp: at})

	assert.Nil(t, row.TaskTitle)
	assert.Equal(t, time.UTC, row.Timestamp.Location())
	raw, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"task_title":null`)

	titled := HistoryToRow(model.HistoryEntry{ID: "h2", Timestamp: at, TaskTitle: "Write"})
	require.NotNil(t, titled.TaskTitle)
	assert.Equal(t, "Write", titled.Entry().TaskTitle)
	assert.True(t, at.Equal(titled.Entry().Timestamp))
}

func TestSettingsAndSessionConversions(t *testing.T) {
	settings := model.DefaultSettings()
	settings.AutoStartBreaks = true
	assert.Equal(t, settings, SettingsToRow(settings).Settings())

	session := model.Session{Mode: model.ModeLongBreak, TimeLeftSeconds: 42, CompletedPomodoros: 4, ActiveTaskID: "t1"}
	row := SessionToRow(session)
	assert.Equal(t, "long_break", row.Mode)
	require.NotNil(t, row.ActiveTaskID)
	assert.Equal(t, session, row.Session())

	assert.Nil(t, SessionToRow(model.Session{Mode: model.ModeFocus}).ActiveTaskID)
}

func TestUserFromModelDropsPasswordHash(t *testing.T) {
	user := UserFromModel(model.User{ID: "u1", Email: "a@example.com", Name: "A", PasswordHash: "hash"})

	raw, err := json.Marshal(UserEnvelope{User: user})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":"u1","email":"a@example.com","name":"A"}}`, string(raw))
}

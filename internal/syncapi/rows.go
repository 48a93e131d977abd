// Package syncapi defines the JSON rows exchanged with the sync server. Field
// names are snake_case; converting to and from the client model is a pure
// renaming.
package syncapi

import (
	"time"

	"pomflow/internal/model"
)

type TaskRow struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Notes              string    `json:"notes"`
	EstimatedPomodoros int       `json:"estimated_pomodoros"`
	CompletedPomodoros int       `json:"completed_pomodoros"`
	IsCompleted        bool      `json:"is_completed"`
	Position           int       `json:"position"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type HistoryRow struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	TaskTitle *string   `json:"task_title"`
}

type SettingsRow struct {
	FocusMinutes      int       `json:"focus_minutes"`
	ShortBreakMinutes int       `json:"short_break_minutes"`
	LongBreakMinutes  int       `json:"long_break_minutes"`
	AutoStartBreaks   bool      `json:"auto_start_breaks"`
	AutoStartFocus    bool      `json:"auto_start_focus"`
	LongBreakInterval int       `json:"long_break_interval"`
	AlarmSound        string    `json:"alarm_sound"`
	AlarmVolume       float64   `json:"alarm_volume"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type SessionRow struct {
	Mode               string    `json:"mode"`
	TimeLeftSeconds    int       `json:"time_left_seconds"`
	CompletedPomodoros int       `json:"completed_pomodoros"`
	ActiveTaskID       *string   `json:"active_task_id"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type TasksEnvelope struct {
	Tasks []TaskRow `json:"tasks"`
}

type TaskEnvelope struct {
	Task TaskRow `json:"task"`
}

type HistoryEnvelope struct {
	History []HistoryRow `json:"history"`
}

type HistoryEntryEnvelope struct {
	Entry HistoryRow `json:"entry"`
}

type SettingsEnvelope struct {
	Settings SettingsRow `json:"settings"`
}

type SessionEnvelope struct {
	Session SessionRow `json:"session"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type UserEnvelope struct {
	User User `json:"user"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserFromModel is the public view of an account; the password hash never
// leaves the server.
func UserFromModel(user model.User) User {
	return User{ID: user.ID, Email: user.Email, Name: user.Name}
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func TaskRows(tasks []model.Task) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for i, task := range tasks {
		rows = append(rows, TaskToRow(task, i))
	}
	return rows
}

func TaskToRow(task model.Task, position int) TaskRow {
	return TaskRow{
		ID:                 task.ID,
		Title:              task.Title,
		Notes:              task.Notes,
		EstimatedPomodoros: task.EstimatedPomodoros,
		CompletedPomodoros: task.CompletedPomodoros,
		IsCompleted:        task.IsCompleted,
		Position:           position,
	}
}

func (r TaskRow) Task() model.Task {
	return model.Task{
		ID:                 r.ID,
		Title:              r.Title,
		Notes:              r.Notes,
		EstimatedPomodoros: r.EstimatedPomodoros,
		CompletedPomodoros: r.CompletedPomodoros,
		IsCompleted:        r.IsCompleted,
	}
}

// Tasks converts rows in the order given; callers sort by Position first.
func Tasks(rows []TaskRow) []model.Task {
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.Task())
	}
	return tasks
}

func HistoryToRow(entry model.HistoryEntry) HistoryRow {
	row := HistoryRow{ID: entry.ID, Timestamp: entry.Timestamp.UTC()}
	if entry.TaskTitle != "" {
		title := entry.TaskTitle
		row.TaskTitle = &title
	}
	return row
}

func HistoryRows(entries []model.HistoryEntry) []HistoryRow {
	rows := make([]HistoryRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, HistoryToRow(entry))
	}
	return rows
}

func (r HistoryRow) Entry() model.HistoryEntry {
	entry := model.HistoryEntry{ID: r.ID, Timestamp: r.Timestamp}
	if r.TaskTitle != nil {
		entry.TaskTitle = *r.TaskTitle
	}
	return entry
}

func History(rows []HistoryRow) []model.HistoryEntry {
	entries := make([]model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry())
	}
	return entries
}

func SettingsToRow(s model.Settings) SettingsRow {
	return SettingsRow{
		FocusMinutes:      s.FocusMinutes,
		ShortBreakMinutes: s.ShortBreakMinutes,
		LongBreakMinutes:  s.LongBreakMinutes,
		AutoStartBreaks:   s.AutoStartBreaks,
		AutoStartFocus:    s.AutoStartFocus,
		LongBreakInterval: s.LongBreakInterval,
		AlarmSound:        string(s.AlarmSound),
		AlarmVolume:       s.AlarmVolume,
	}
}

func (r SettingsRow) Settings() model.Settings {
	return model.Settings{
		FocusMinutes:      r.FocusMinutes,
		ShortBreakMinutes: r.ShortBreakMinutes,
		LongBreakMinutes:  r.LongBreakMinutes,
		AutoStartBreaks:   r.AutoStartBreaks,
		AutoStartFocus:    r.AutoStartFocus,
		LongBreakInterval: r.LongBreakInterval,
		AlarmSound:        model.AlarmSound(r.AlarmSound),
		AlarmVolume:       r.AlarmVolume,
	}
}

func SessionToRow(s model.Session) SessionRow {
	row := SessionRow{
		Mode:               string(s.Mode),
		TimeLeftSeconds:    s.TimeLeftSeconds,
		CompletedPomodoros: s.CompletedPomodoros,
	}
	if s.ActiveTaskID != "" {
		id := s.ActiveTaskID
		row.ActiveTaskID = &id
	}
	return row
}

func (r SessionRow) Session() model.Session {
	s := model.Session{
		Mode:               model.Mode(r.Mode),
		TimeLeftSeconds:    r.TimeLeftSeconds,
		CompletedPomodoros: r.CompletedPomodoros,
	}
	if r.ActiveTaskID != nil {
		s.ActiveTaskID = *r.ActiveTaskID
	}
	return s
}

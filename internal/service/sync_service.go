package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "pomflow/internal/errors"
	"pomflow/internal/model"
	"pomflow/internal/repository"
	"pomflow/internal/syncapi"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500
)

// SyncService stores each user's client state. Every write is an upsert and
// the latest write wins; there is no version check.
type SyncService struct {
	tasks    *repository.TaskRepository
	history  *repository.HistoryRepository
	settings *repository.SettingsRepository
	sessions *repository.SessionRepository
	now      func() time.Time
}

func NewSyncService(
	tasks *repository.TaskRepository,
	history *repository.HistoryRepository,
	settings *repository.SettingsRepository,
	sessions *repository.SessionRepository,
) *SyncService {
	return &SyncService{
		tasks:    tasks,
		history:  history,
		settings: settings,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *SyncService) ListTasks(ctx context.Context, userID string) ([]syncapi.TaskRow, *apperrors.APIError) {
	tasks, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks")
	}
	return tasks, nil
}

func (s *SyncService) ReplaceTasks(ctx context.Context, userID string, rows []syncapi.TaskRow) ([]syncapi.TaskRow, *apperrors.APIError) {
	now := s.now()
	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		if apiErr := normalizeTask(&rows[i]); apiErr != nil {
			return nil, apiErr
		}
		if _, dup := seen[rows[i].ID]; dup {
			return nil, apperrors.BadRequest("duplicate_task", "task ids must be unique")
		}
		seen[rows[i].ID] = struct{}{}
		rows[i].UpdatedAt = now
	}

	if err := s.tasks.ReplaceAll(ctx, userID, rows); err != nil {
		return nil, apperrors.Internal("failed to replace tasks")
	}
	return s.ListTasks(ctx, userID)
}

// UpsertTask writes one task. An empty body id takes the path id; a
// different one is rejected.
func (s *SyncService) UpsertTask(ctx context.Context, userID, id string, row syncapi.TaskRow) (*syncapi.TaskRow, *apperrors.APIError) {
	if row.ID == "" {
		row.ID = id
	}
	if row.ID != id {
		return nil, apperrors.BadRequest("task_id_mismatch", "task id does not match the path")
	}
	if apiErr := normalizeTask(&row); apiErr != nil {
		return nil, apiErr
	}
	row.UpdatedAt = s.now()

	if err := s.tasks.Upsert(ctx, userID, row); err != nil {
		return nil, apperrors.Internal("failed to save task")
	}
	stored, err := s.tasks.Get(ctx, userID, id)
	if err != nil {
		return nil, apperrors.Internal("failed to read task")
	}
	return stored, nil
}

func (s *SyncService) DeleteTask(ctx context.Context, userID, id string) *apperrors.APIError {
	err := s.tasks.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete task")
	}
	return nil
}

// ListHistory returns up to limit entries, newest first. Out-of-range limits
// fall back to the default.
func (s *SyncService) ListHistory(ctx context.Context, userID string, limit int) ([]syncapi.HistoryRow, *apperrors.APIError) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	entries, err := s.history.List(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to get history")
	}
	return entries, nil
}

func (s *SyncService) AppendHistory(ctx context.Context, userID string, row syncapi.HistoryRow) (*syncapi.HistoryRow, *apperrors.APIError) {
	if apiErr := validateHistory(row); apiErr != nil {
		return nil, apiErr
	}
	if err := s.history.Insert(ctx, userID, row); err != nil {
		return nil, apperrors.Internal("failed to append history")
	}
	return &row, nil
}

func (s *SyncService) ReplaceHistory(ctx context.Context, userID string, rows []syncapi.HistoryRow) *apperrors.APIError {
	for _, row := range rows {
		if apiErr := validateHistory(row); apiErr != nil {
			return apiErr
		}
	}
	if err := s.history.ReplaceAll(ctx, userID, rows); err != nil {
		return apperrors.Internal("failed to replace history")
	}
	return nil
}

func (s *SyncService) ClearHistory(ctx context.Context, userID string) *apperrors.APIError {
	if err := s.history.Clear(ctx, userID); err != nil {
		return apperrors.Internal("failed to clear history")
	}
	return nil
}

func (s *SyncService) GetSettings(ctx context.Context, userID string) (*syncapi.SettingsRow, *apperrors.APIError) {
	settings, err := s.settings.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("settings_not_found", "settings not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get settings")
	}
	return settings, nil
}

func (s *SyncService) PutSettings(ctx context.Context, userID string, row syncapi.SettingsRow) (*syncapi.SettingsRow, *apperrors.APIError) {
	if err := row.Settings().Validate(); err != nil {
		return nil, apperrors.Invalid("invalid_settings", err, model.ErrInvalidSettings)
	}
	row.UpdatedAt = s.now()
	if err := s.settings.Upsert(ctx, userID, row); err != nil {
		return nil, apperrors.Internal("failed to save settings")
	}
	return &row, nil
}

func (s *SyncService) GetSession(ctx context.Context, userID string) (*syncapi.SessionRow, *apperrors.APIError) {
	session, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("session_not_found", "session not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get session")
	}
	return session, nil
}

func (s *SyncService) PutSession(ctx context.Context, userID string, row syncapi.SessionRow) (*syncapi.SessionRow, *apperrors.APIError) {
	if !model.Mode(row.Mode).Valid() {
		return nil, apperrors.BadRequest("invalid_mode", model.ErrInvalidMode.Error())
	}
	if row.TimeLeftSeconds < 0 || row.CompletedPomodoros < 0 {
		return nil, apperrors.BadRequest("invalid_session", "time left and completed pomodoros cannot be negative")
	}
	if row.ActiveTaskID != nil && *row.ActiveTaskID == "" {
		row.ActiveTaskID = nil
	}
	row.UpdatedAt = s.now()
	if err := s.sessions.Upsert(ctx, userID, row); err != nil {
		return nil, apperrors.Internal("failed to save session")
	}
	return &row, nil
}

func normalizeTask(row *syncapi.TaskRow) *apperrors.APIError {
	row.ID = strings.TrimSpace(row.ID)
	row.Title = strings.TrimSpace(row.Title)
	row.Notes = strings.TrimSpace(row.Notes)
	switch {
	case row.ID == "":
		return apperrors.BadRequest("invalid_task", "task id is required")
	case row.Title == "":
		return apperrors.BadRequest("invalid_task", "task title is required")
	case row.EstimatedPomodoros < 1:
		return apperrors.BadRequest("invalid_task", "estimated pomodoros must be at least 1")
	case row.CompletedPomodoros < 0:
		return apperrors.BadRequest("invalid_task", "completed pomodoros cannot be negative")
	}
	return nil
}

func validateHistory(row syncapi.HistoryRow) *apperrors.APIError {
	if strings.TrimSpace(row.ID) == "" {
		return apperrors.BadRequest("invalid_history", "history id is required")
	}
	if row.Timestamp.IsZero() {
		return apperrors.BadRequest("invalid_history", "history timestamp is required")
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pomflow/internal/syncapi"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*syncapi.SessionRow, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT mode, time_left_seconds, completed_pomodoros, active_task_id, updated_at
		 FROM sessions WHERE user_id = ?`,
		userID,
	)

	var session syncapi.SessionRow
	var activeTaskID sql.NullString
	var updatedAt string
	err := row.Scan(
		&session.Mode,
		&session.TimeLeftSeconds,
		&session.CompletedPomodoros,
		&activeTaskID,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if activeTaskID.Valid {
		value := activeTaskID.String
		session.ActiveTaskID = &value
	}

	parsed, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session updated_at: %w", err)
	}
	session.UpdatedAt = parsed
	return &session, nil
}

func (r *SessionRepository) Upsert(ctx context.Context, userID string, session syncapi.SessionRow) error {
	var activeTaskID any
	if session.ActiveTaskID != nil {
		activeTaskID = *session.ActiveTaskID
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
			user_id, mode, time_left_seconds, completed_pomodoros, active_task_id, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			mode = excluded.mode,
			time_left_seconds = excluded.time_left_seconds,
			completed_pomodoros = excluded.completed_pomodoros,
			active_task_id = excluded.active_task_id,
			updated_at = excluded.updated_at`,
		userID,
		session.Mode,
		session.TimeLeftSeconds,
		session.CompletedPomodoros,
		activeTaskID,
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

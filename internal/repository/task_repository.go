package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pomflow/internal/syncapi"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const upsertTaskSQL = `INSERT INTO tasks (
		user_id, id, title, notes, estimated_pomodoros, completed_pomodoros,
		is_completed, position, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, id) DO UPDATE SET
		title = excluded.title,
		notes = excluded.notes,
		estimated_pomodoros = excluded.estimated_pomodoros,
		completed_pomodoros = excluded.completed_pomodoros,
		is_completed = excluded.is_completed,
		position = excluded.position,
		updated_at = excluded.updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *TaskRepository) List(ctx context.Context, userID string) ([]syncapi.TaskRow, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, title, notes, estimated_pomodoros, completed_pomodoros,
		        is_completed, position, updated_at
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY position ASC, updated_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]syncapi.TaskRow, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*syncapi.TaskRow, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, title, notes, estimated_pomodoros, completed_pomodoros,
		        is_completed, position, updated_at
		 FROM tasks
		 WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	return scanTask(row)
}

func (r *TaskRepository) Upsert(ctx context.Context, userID string, task syncapi.TaskRow) error {
	return upsertTask(ctx, r.db, userID, task)
}

// ReplaceAll makes rows the user's complete task list. Rows not present are
// removed; positions follow slice order.
func (r *TaskRepository) ReplaceAll(ctx context.Context, userID string, tasks []syncapi.TaskRow) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		keep := make([]any, 0, len(tasks)+1)
		keep = append(keep, userID)
		for i, task := range tasks {
			task.Position = i
			if err := upsertTask(ctx, tx, userID, task); err != nil {
				return err
			}
			keep = append(keep, task.ID)
		}

		query := `DELETE FROM tasks WHERE user_id = ?`
		if len(tasks) > 0 {
			query += ` AND id NOT IN (?` + strings.Repeat(",?", len(tasks)-1) + `)`
		}
		if _, err := tx.ExecContext(ctx, query, keep...); err != nil {
			return fmt.Errorf("prune tasks: %w", err)
		}
		return nil
	})
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func upsertTask(ctx context.Context, db execer, userID string, task syncapi.TaskRow) error {
	_, err := db.ExecContext(
		ctx,
		upsertTaskSQL,
		userID,
		task.ID,
		task.Title,
		task.Notes,
		task.EstimatedPomodoros,
		task.CompletedPomodoros,
		boolToInt(task.IsCompleted),
		task.Position,
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert task %s: %w", task.ID, err)
	}
	return nil
}

func scanTask(s scanner) (*syncapi.TaskRow, error) {
	var task syncapi.TaskRow
	var isCompleted int
	var updatedAt string
	err := s.Scan(
		&task.ID,
		&task.Title,
		&task.Notes,
		&task.EstimatedPomodoros,
		&task.CompletedPomodoros,
		&isCompleted,
		&task.Position,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.IsCompleted = isCompleted != 0

	parsed, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse task updated_at: %w", err)
	}
	task.UpdatedAt = parsed
	return &task, nil
}

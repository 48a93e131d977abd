package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pomflow/internal/syncapi"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const insertHistorySQL = `INSERT INTO history (user_id, id, timestamp, task_title)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (user_id, id) DO NOTHING`

// List returns the newest entries first.
func (r *HistoryRepository) List(ctx context.Context, userID string, limit int) ([]syncapi.HistoryRow, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, timestamp, task_title
		 FROM history
		 WHERE user_id = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := make([]syncapi.HistoryRow, 0)
	for rows.Next() {
		var entry syncapi.HistoryRow
		var timestamp string
		var title sql.NullString
		if err := rows.Scan(&entry.ID, &timestamp, &title); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		parsed, err := parseTime(timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp: %w", err)
		}
		entry.Timestamp = parsed
		if title.Valid {
			value := title.String
			entry.TaskTitle = &value
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Insert ignores an id that is already stored; entries are immutable.
func (r *HistoryRepository) Insert(ctx context.Context, userID string, entry syncapi.HistoryRow) error {
	return insertHistory(ctx, r.db, userID, entry)
}

func (r *HistoryRepository) ReplaceAll(ctx context.Context, userID string, entries []syncapi.HistoryRow) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		for _, entry := range entries {
			if err := insertHistory(ctx, tx, userID, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *HistoryRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func insertHistory(ctx context.Context, db execer, userID string, entry syncapi.HistoryRow) error {
	var title any
	if entry.TaskTitle != nil {
		title = *entry.TaskTitle
	}
	if _, err := db.ExecContext(ctx, insertHistorySQL, userID, entry.ID, formatTime(entry.Timestamp), title); err != nil {
		return fmt.Errorf("insert history %s: %w", entry.ID, err)
	}
	return nil
}

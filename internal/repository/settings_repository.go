package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pomflow/internal/syncapi"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*syncapi.SettingsRow, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT focus_minutes, short_break_minutes, long_break_minutes,
		        auto_start_breaks, auto_start_focus, long_break_interval,
		        alarm_sound, alarm_volume, updated_at
		 FROM settings WHERE user_id = ?`,
		userID,
	)

	var settings syncapi.SettingsRow
	var autoBreaks, autoFocus int
	var updatedAt string
	err := row.Scan(
		&settings.FocusMinutes,
		&settings.ShortBreakMinutes,
		&settings.LongBreakMinutes,
		&autoBreaks,
		&autoFocus,
		&settings.LongBreakInterval,
		&settings.AlarmSound,
		&settings.AlarmVolume,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	settings.AutoStartBreaks = autoBreaks != 0
	settings.AutoStartFocus = autoFocus != 0

	parsed, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse settings updated_at: %w", err)
	}
	settings.UpdatedAt = parsed
	return &settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, userID string, settings syncapi.SettingsRow) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO settings (
			user_id, focus_minutes, short_break_minutes, long_break_minutes,
			auto_start_breaks, auto_start_focus, long_break_interval,
			alarm_sound, alarm_volume, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			focus_minutes = excluded.focus_minutes,
			short_break_minutes = excluded.short_break_minutes,
			long_break_minutes = excluded.long_break_minutes,
			auto_start_breaks = excluded.auto_start_breaks,
			auto_start_focus = excluded.auto_start_focus,
			long_break_interval = excluded.long_break_interval,
			alarm_sound = excluded.alarm_sound,
			alarm_volume = excluded.alarm_volume,
			updated_at = excluded.updated_at`,
		userID,
		settings.FocusMinutes,
		settings.ShortBreakMinutes,
		settings.LongBreakMinutes,
		boolToInt(settings.AutoStartBreaks),
		boolToInt(settings.AutoStartFocus),
		settings.LongBreakInterval,
		settings.AlarmSound,
		settings.AlarmVolume,
		formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationSeconds(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, 1500, DurationSeconds(ModeFocus, settings))
	assert.Equal(t, 300, DurationSeconds(ModeShortBreak, settings))
	assert.Equal(t, 900, DurationSeconds(ModeLongBreak, settings))
	assert.Equal(t, 1500, DurationSeconds(Mode("nap"), settings))
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{
		"focus":       ModeFocus,
		" Pomodoro ":  ModeFocus,
		"short":       ModeShortBreak,
		"short_break": ModeShortBreak,
		"LONG":        ModeLongBreak,
	} {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseMode("lunch")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	broken := DefaultSettings()
	broken.LongBreakInterval = 0
	assert.ErrorIs(t, broken.Validate(), ErrInvalidSettings)

	broken = DefaultSettings()
	broken.AlarmVolume = 1.5
	assert.ErrorContains(t, broken.Validate(), "alarmVolume")

	broken = DefaultSettings()
	broken.AlarmSound = "gong"
	assert.ErrorIs(t, broken.Validate(), ErrInvalidSettings)
}

func TestSettingsRejectNaNVolume(t *testing.T) {
	s := DefaultSettings()
	s.AlarmVolume = math.NaN()
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	got := s.Normalize()
	assert.Equal(t, DefaultAlarmVolume, got.AlarmVolume)
	_, err := json.Marshal(got)
	require.NoError(t, err)

	s.AlarmVolume = math.Inf(1)
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
}

func TestSettingsNormalizeKeepsValidFields(t *testing.T) {
	s := Settings{
		FocusMinutes:      50,
		ShortBreakMinutes: -1,
		LongBreakInterval: 0,
		AlarmSound:        AlarmBird,
		AlarmVolume:       2,
		AutoStartFocus:    true,
	}

	got := s.Normalize()
	assert.Equal(t, 50, got.FocusMinutes)
	assert.Equal(t, DefaultShortBreakMinutes, got.ShortBreakMinutes)
	assert.Equal(t, DefaultLongBreakMinutes, got.LongBreakMinutes)
	assert.Equal(t, DefaultLongBreakInterval, got.LongBreakInterval)
	assert.Equal(t, AlarmBird, got.AlarmSound)
	assert.Equal(t, DefaultAlarmVolume, got.AlarmVolume)
	assert.True(t, got.AutoStartFocus)
	require.NoError(t, got.Validate())
}

func TestSessionNormalize(t *testing.T) {
	settings := DefaultSettings()

	got := Session{Mode: "bogus", TimeLeftSeconds: 10, CompletedPomodoros: -2}.Normalize(settings)
	assert.Equal(t, ModeFocus, got.Mode)
	assert.Equal(t, 10, got.TimeLeftSeconds)
	assert.Zero(t, got.CompletedPomodoros)

	got = Session{Mode: ModeLongBreak}.Normalize(settings)
	assert.Equal(t, 900, got.TimeLeftSeconds)

	got = Session{Mode: ModeShortBreak, TimeLeftSeconds: 301}.Normalize(settings)
	assert.Equal(t, 300, got.TimeLeftSeconds)
}

func TestRemainingPomodoros(t *testing.T) {
	assert.Equal(t, 2, Task{EstimatedPomodoros: 3, CompletedPomodoros: 1}.RemainingPomodoros())
	assert.Equal(t, 0, Task{EstimatedPomodoros: 1, CompletedPomodoros: 4}.RemainingPomodoros())
}

package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type AlarmSound string

const (
	AlarmDigital AlarmSound = "digital"
	AlarmBell    AlarmSound = "bell"
	AlarmBird    AlarmSound = "bird"
)

const (
	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
	DefaultLongBreakInterval = 4
	DefaultAlarmSound        = AlarmDigital
	DefaultAlarmVolume       = 0.5
)

var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	FocusMinutes      int        `json:"focusMinutes" yaml:"focusMinutes"`
	ShortBreakMinutes int        `json:"shortBreakMinutes" yaml:"shortBreakMinutes"`
	LongBreakMinutes  int        `json:"longBreakMinutes" yaml:"longBreakMinutes"`
	AutoStartBreaks   bool       `json:"autoStartBreaks" yaml:"autoStartBreaks"`
	AutoStartFocus    bool       `json:"autoStartFocus" yaml:"autoStartFocus"`
	LongBreakInterval int        `json:"longBreakInterval" yaml:"longBreakInterval"`
	AlarmSound        AlarmSound `json:"alarmSound" yaml:"alarmSound"`
	AlarmVolume       float64    `json:"alarmVolume" yaml:"alarmVolume"`
}

func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:      DefaultFocusMinutes,
		ShortBreakMinutes: DefaultShortBreakMinutes,
		LongBreakMinutes:  DefaultLongBreakMinutes,
		LongBreakInterval: DefaultLongBreakInterval,
		AlarmSound:        DefaultAlarmSound,
		AlarmVolume:       DefaultAlarmVolume,
	}
}

func ParseAlarmSound(raw string) (AlarmSound, error) {
	sound := AlarmSound(strings.ToLower(strings.TrimSpace(raw)))
	if !sound.Valid() {
		return "", fmt.Errorf("%w: alarm sound must be one of digital, bell, bird", ErrInvalidSettings)
	}
	return sound, nil
}

func (s AlarmSound) Valid() bool {
	return s == AlarmDigital || s == AlarmBell || s == AlarmBird
}

// Validate reports the first field that breaks an invariant.
func (s Settings) Validate() error {
	switch {
	case s.FocusMinutes <= 0:
		return fmt.Errorf("%w: focusMinutes must be positive", ErrInvalidSettings)
	case s.ShortBreakMinutes <= 0:
		return fmt.Errorf("%w: shortBreakMinutes must be positive", ErrInvalidSettings)
	case s.LongBreakMinutes <= 0:
		return fmt.Errorf("%w: longBreakMinutes must be positive", ErrInvalidSettings)
	case s.LongBreakInterval < 1:
		return fmt.Errorf("%w: longBreakInterval must be at least 1", ErrInvalidSettings)
	case !s.AlarmSound.Valid():
		return fmt.Errorf("%w: alarm sound must be one of digital, bell, bird", ErrInvalidSettings)
	case !volumeInRange(s.AlarmVolume):
		return fmt.Errorf("%w: alarmVolume must be between 0 and 1", ErrInvalidSettings)
	}
	return nil
}

// Normalize swaps every invalid field for its default and keeps the rest.
func (s Settings) Normalize() Settings {
	defaults := DefaultSettings()
	if s.FocusMinutes <= 0 {
		s.FocusMinutes = defaults.FocusMinutes
	}
	if s.ShortBreakMinutes <= 0 {
		s.ShortBreakMinutes = defaults.ShortBreakMinutes
	}
	if s.LongBreakMinutes <= 0 {
		s.LongBreakMinutes = defaults.LongBreakMinutes
	}
	if s.LongBreakInterval < 1 {
		s.LongBreakInterval = defaults.LongBreakInterval
	}
	if !s.AlarmSound.Valid() {
		s.AlarmSound = defaults.AlarmSound
	}
	if !volumeInRange(s.AlarmVolume) {
		s.AlarmVolume = defaults.AlarmVolume
	}
	return s
}

// volumeInRange rejects NaN, which compares false against both bounds.
func volumeInRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

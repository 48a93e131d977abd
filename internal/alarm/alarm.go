// Package alarm plays the end-of-interval sound.
package alarm

import (
	"time"

	"pomflow/internal/model"
)

// Player is fire-and-forget; Play must return promptly.
type Player interface {
	Play(kind model.AlarmSound, volume float64)
}

// Tone is one beep of a pattern, starting Offset after the first.
type Tone struct {
	FrequencyHz float64
	Offset      time.Duration
	Length      time.Duration
}

var patterns = map[model.AlarmSound][]Tone{
	model.AlarmDigital: {
		{FrequencyHz: 800, Offset: 0, Length: 500 * time.Millisecond},
		{FrequencyHz: 1000, Offset: 600 * time.Millisecond, Length: 500 * time.Millisecond},
		{FrequencyHz: 1200, Offset: 1200 * time.Millisecond, Length: 500 * time.Millisecond},
	},
	model.AlarmBell: {
		{FrequencyHz: 523, Offset: 0, Length: time.Second},
		{FrequencyHz: 659, Offset: 300 * time.Millisecond, Length: time.Second},
		{FrequencyHz: 784, Offset: 600 * time.Millisecond, Length: time.Second},
		{FrequencyHz: 1047, Offset: 900 * time.Millisecond, Length: time.Second},
	},
	model.AlarmBird: {
		{FrequencyHz: 2000, Offset: 0, Length: 100 * time.Millisecond},
		{FrequencyHz: 2500, Offset: 200 * time.Millisecond, Length: 80 * time.Millisecond},
		{FrequencyHz: 2200, Offset: 380 * time.Millisecond, Length: 120 * time.Millisecond},
		{FrequencyHz: 2800, Offset: 600 * time.Millisecond, Length: 100 * time.Millisecond},
		{FrequencyHz: 2400, Offset: 800 * time.Millisecond, Length: 150 * time.Millisecond},
	},
}

// Pattern returns the tones for kind; unknown kinds use the digital pattern.
func Pattern(kind model.AlarmSound) []Tone {
	tones, ok := patterns[kind]
	if !ok {
		tones = patterns[model.AlarmDigital]
	}
	return append([]Tone(nil), tones...)
}

type Nop struct{}

func (Nop) Play(model.AlarmSound, float64) {}

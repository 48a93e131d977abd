package alarm

import (
	"io"
	"sync"
	"time"

	"pomflow/internal/model"
)

// Bell rings the terminal bell once per tone, keeping the pattern's cadence.
// Terminals have no volume control, so any volume above zero rings.
type Bell struct {
	mu    sync.Mutex
	out   io.Writer
	sleep func(time.Duration)
}

func NewBell(out io.Writer) *Bell {
	return &Bell{out: out, sleep: time.Sleep}
}

func (b *Bell) Play(kind model.AlarmSound, volume float64) {
	go b.Ring(kind, volume)
}

// Ring plays the pattern synchronously.
func (b *Bell) Ring(kind model.AlarmSound, volume float64) {
	if volume <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var elapsed time.Duration
	for _, tone := range Pattern(kind) {
		if wait := tone.Offset - elapsed; wait > 0 {
			b.sleep(wait)
			elapsed = tone.Offset
		}
		_, _ = io.WriteString(b.out, "\a")
	}
}

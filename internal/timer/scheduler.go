package timer

import (
	"context"
	"sync"
	"time"
)

// Scheduler calls fn every interval until the returned cancel func is called.
// Cancel must be safe to call more than once.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// Clock abstracts wall time so the engine can be driven in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// TickerScheduler runs a time.Ticker per schedule. Each tick is handed to post,
// which should move fn onto the goroutine that owns the engine (Loop.Post or
// a TUI message). A nil post calls fn on the ticker goroutine.
type TickerScheduler struct {
	post     func(func())
	interval time.Duration
}

func NewTickerScheduler(post func(func())) *TickerScheduler {
	return &TickerScheduler{post: post}
}

// WithInterval makes every schedule tick at d regardless of the interval the
// caller asks for. A fast clock is handy for demos and end-to-end tests.
func (s *TickerScheduler) WithInterval(d time.Duration) *TickerScheduler {
	s.interval = d
	return s
}

func (s *TickerScheduler) Every(interval time.Duration, fn func()) func() {
	if s.interval > 0 {
		interval = s.interval
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if s.post != nil {
					s.post(fn)
				} else {
					fn()
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualScheduler fires ticks only when Fire is called.
type ManualScheduler struct {
	next    int
	actives map[int]func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{actives: make(map[int]func())}
}

func (s *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	id := s.next
	s.next++
	s.actives[id] = fn
	return func() { delete(s.actives, id) }
}

// Fire invokes every live schedule once per n.
func (s *ManualScheduler) Fire(n int) {
	for i := 0; i < n; i++ {
		for _, fn := range s.snapshot() {
			fn()
		}
	}
}

// Active is the number of schedules that have not been cancelled.
func (s *ManualScheduler) Active() int {
	return len(s.actives)
}

func (s *ManualScheduler) snapshot() []func() {
	fns := make([]func(), 0, len(s.actives))
	for id := 0; id < s.next; id++ {
		if fn, ok := s.actives[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Loop serializes work from many goroutines onto the one that calls Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 1
	}
	return &Loop{queue: make(chan func(), buffer), done: make(chan struct{})}
}

// Post queues fn. It drops fn once Run has returned.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run executes queued functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

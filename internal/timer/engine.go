// Package timer implements the pomodoro session state machine.
//
// An Engine owns the countdown, the current mode, the completed-interval
// counter and the active-task binding. It is not safe for concurrent use: all
// calls, including the tick callbacks produced by its Scheduler, must run on
// one goroutine. Persistence, alarms and notifications are fire-and-forget.
package timer

import (
	"time"

	"pomflow/internal/alarm"
	"pomflow/internal/history"
	"pomflow/internal/model"
	"pomflow/internal/notify"
	"pomflow/internal/persist"
	"pomflow/internal/tasks"
)

const (
	TickInterval        = time.Second
	NotificationTimeout = 5 * time.Second
)

// StateSink receives snapshots of every slice that changed.
type StateSink interface {
	Save(key persist.Key, value any)
}

type Options struct {
	Settings model.Settings
	Session  model.Session
	Tasks    *tasks.Store
	History  *history.Log

	Scheduler Scheduler
	Clock     Clock
	Alarm     alarm.Player
	Notifier  notify.Notifier
	Sink      StateSink
	OnEvent   func(Event)
}

type Engine struct {
	settings  model.Settings
	mode      model.Mode
	timeLeft  int
	running   bool
	completed int
	activeID  string

	tasks   *tasks.Store
	history *history.Log

	scheduler Scheduler
	clock     Clock
	alarm     alarm.Player
	notifier  notify.Notifier
	sink      StateSink
	onEvent   func(Event)

	cancelTick func()
	tickGen    uint64
}

type discardSink struct{}

func (discardSink) Save(persist.Key, any) {}

// New builds an idle engine from restored state. Missing collaborators get
// silent defaults; a nil Scheduler gets a TickerScheduler that ticks on its
// own goroutine, which is only correct if the caller serializes access.
func New(opts Options) *Engine {
	settings := opts.Settings.Normalize()
	session := opts.Session.Normalize(settings)

	e := &Engine{
		settings:  settings,
		mode:      session.Mode,
		timeLeft:  session.TimeLeftSeconds,
		completed: session.CompletedPomodoros,
		tasks:     opts.Tasks,
		history:   opts.History,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		alarm:     opts.Alarm,
		notifier:  opts.Notifier,
		sink:      opts.Sink,
		onEvent:   opts.OnEvent,
	}
	if e.tasks == nil {
		e.tasks = tasks.NewStore(nil)
	}
	if e.history == nil {
		e.history = history.NewLog(nil)
	}
	if e.scheduler == nil {
		e.scheduler = NewTickerScheduler(nil)
	}
	if e.clock == nil {
		e.clock = systemClock{}
	}
	if e.alarm == nil {
		e.alarm = alarm.Nop{}
	}
	if e.notifier == nil {
		e.notifier = notify.Noop{}
	}
	if e.sink == nil {
		e.sink = discardSink{}
	}
	if _, ok := e.tasks.Get(session.ActiveTaskID); ok {
		e.activeID = session.ActiveTaskID
	}
	return e
}

// Start begins counting down. It does nothing while already running or when
// no time is left; callers reset first.
func (e *Engine) Start() {
	if e.running || e.timeLeft <= 0 {
		return
	}
	if e.notifier.Permission() == notify.PermissionDefault {
		go e.notifier.RequestPermission()
	}
	e.startCounting()
	e.saveSession()
	e.emit(EventStateChange, "")
}

func (e *Engine) Pause() {
	if !e.running {
		return
	}
	e.stopCounting()
	e.saveSession()
	e.emit(EventStateChange, "")
}

// Toggle is the start/pause intent bound to a single key.
func (e *Engine) Toggle() {
	if e.running {
		e.Pause()
		return
	}
	e.Start()
}

// Reset stops the timer and refills the current mode. Mode and counter stay.
func (e *Engine) Reset() {
	e.stopCounting()
	e.timeLeft = model.DurationSeconds(e.mode, e.settings)
	e.saveSession()
	e.emit(EventStateChange, "")
}

// SwitchMode stops the timer and loads mode's full duration. Time left in the
// old mode is discarded without credit.
func (e *Engine) SwitchMode(mode model.Mode) {
	e.stopCounting()
	e.enterMode(mode)
	e.saveSession()
	e.emit(EventStateChange, "")
}

// Skip moves to the mode a completion would lead to, without the alarm, the
// history entry or any credit. From focus the long-break rule is applied to
// the count a completion would have produced.
func (e *Engine) Skip() {
	next := model.ModeFocus
	if e.mode == model.ModeFocus {
		next = e.breakAfter(e.completed + 1)
	}
	e.SwitchMode(next)
}

// Tick advances the countdown by one second. Ticks while idle are ignored.
func (e *Engine) Tick() {
	if !e.running {
		return
	}
	if e.timeLeft <= 0 {
		e.timeLeft = 0
		e.complete()
		return
	}
	e.timeLeft--
	if e.timeLeft == 0 {
		e.complete()
		return
	}
	e.emit(EventTick, "")
}

func (e *Engine) complete() {
	finished := e.mode
	e.stopCounting()

	e.alarm.Play(e.settings.AlarmSound, e.settings.AlarmVolume)
	e.notifyCompletion(finished)

	if finished == model.ModeFocus {
		e.completed++

		var title string
		if task, ok := e.ActiveTask(); ok {
			title = task.Title
			e.tasks.IncrementCompleted(task.ID)
			e.sink.Save(persist.KeyTasks, e.tasks.All())
		}
		e.history.Append(e.clock.Now(), title)
		e.sink.Save(persist.KeyHistory, e.history.All())

		e.enterMode(e.breakAfter(e.completed))
		if e.settings.AutoStartBreaks {
			e.startCounting()
		}
	} else {
		e.enterMode(model.ModeFocus)
		if e.settings.AutoStartFocus {
			e.startCounting()
		}
	}

	e.saveSession()
	e.emit(EventComplete, finished)
}

// breakAfter picks the break that follows the count-th completed focus
// interval. Intervals below one are treated as one.
func (e *Engine) breakAfter(count int) model.Mode {
	interval := e.settings.LongBreakInterval
	if interval < 1 {
		interval = 1
	}
	if count%interval == 0 {
		return model.ModeLongBreak
	}
	return model.ModeShortBreak
}

func (e *Engine) notifyCompletion(finished model.Mode) {
	if e.notifier.Permission() != notify.PermissionGranted {
		return
	}
	title, body := completionMessage(finished)
	// Partial failures still return a handle for the notifiers that showed.
	handle, _ := e.notifier.Notify(title, body)
	if handle == nil {
		return
	}
	e.clock.AfterFunc(NotificationTimeout, func() { _ = handle.Close() })
}

func completionMessage(finished model.Mode) (string, string) {
	switch finished {
	case model.ModeShortBreak:
		return "Short break is over", "Time to get back to focus."
	case model.ModeLongBreak:
		return "Long break is over", "Refreshed? Let's start the next focus session."
	default:
		return "Focus session complete", "Nice work! Time for a break."
	}
}

// SelectTask binds id to the timer, or unbinds it when it is already bound.
// Unknown ids are ignored.
func (e *Engine) SelectTask(id string) {
	if id != "" && id == e.activeID {
		e.activeID = ""
	} else if _, ok := e.tasks.Get(id); ok {
		e.activeID = id
	} else {
		return
	}
	e.saveSession()
	e.emit(EventStateChange, "")
}

// ActiveTask resolves the binding at call time. A binding to a task that no
// longer exists reads as no binding.
func (e *Engine) ActiveTask() (model.Task, bool) {
	if e.activeID == "" {
		return model.Task{}, false
	}
	return e.tasks.Get(e.activeID)
}

// ApplySettings replaces the settings. While idle the countdown is refilled
// for the current mode; while running it is left alone unless it now exceeds
// the mode's new duration, in which case it is clamped.
func (e *Engine) ApplySettings(settings model.Settings) {
	e.settings = settings.Normalize()
	duration := model.DurationSeconds(e.mode, e.settings)
	if !e.running || e.timeLeft > duration {
		e.timeLeft = duration
	}
	e.sink.Save(persist.KeySettings, e.settings)
	e.saveSession()
	e.emit(EventStateChange, "")
}

// ResetCounter zeroes the completed focus interval count.
func (e *Engine) ResetCounter() {
	e.completed = 0
	e.saveSession()
	e.emit(EventStateChange, "")
}

// Close stops the tick source and flushes the session. The engine must not
// be used afterwards.
func (e *Engine) Close() {
	e.stopCounting()
	e.saveSession()
}

func (e *Engine) Settings() model.Settings {
	return e.settings
}

func (e *Engine) Snapshot() State {
	return State{
		Mode:               e.mode,
		TimeLeftSeconds:    e.timeLeft,
		DurationSeconds:    model.DurationSeconds(e.mode, e.settings),
		Running:            e.running,
		CompletedPomodoros: e.completed,
		ActiveTaskID:       e.activeID,
		LongBreakInterval:  e.settings.LongBreakInterval,
	}
}

func (e *Engine) Session() model.Session {
	return model.Session{
		Mode:               e.mode,
		TimeLeftSeconds:    e.timeLeft,
		CompletedPomodoros: e.completed,
		ActiveTaskID:       e.activeID,
	}
}

func (e *Engine) enterMode(mode model.Mode) {
	if !mode.Valid() {
		mode = model.ModeFocus
	}
	e.mode = mode
	e.timeLeft = model.DurationSeconds(mode, e.settings)
}

// startCounting schedules ticks tagged with a fresh generation, so a tick
// queued by an earlier schedule cannot land on this run.
func (e *Engine) startCounting() {
	e.running = true
	e.tickGen++
	gen := e.tickGen
	e.cancelTick = e.scheduler.Every(TickInterval, func() {
		if gen != e.tickGen {
			return
		}
		e.Tick()
	})
}

func (e *Engine) stopCounting() {
	e.running = false
	e.tickGen++
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) saveSession() {
	e.sink.Save(persist.KeySession, e.Session())
}

func (e *Engine) emit(kind EventType, finished model.Mode) {
	if e.onEvent == nil {
		return
	}
	e.onEvent(Event{
		Type:     kind,
		State:    e.Snapshot(),
		Finished: finished,
		At:       e.clock.Now(),
	})
}

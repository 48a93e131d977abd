package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"pomflow/internal/alarm"
	"pomflow/internal/config"
	"pomflow/internal/history"
	"pomflow/internal/notify"
	"pomflow/internal/persist"
	"pomflow/internal/remote"
	"pomflow/internal/tasks"
	"pomflow/internal/timer"
)

const logFileName = "pomflow.log"

// app is what every command starts from: config, the state directory and
// whatever was saved there.
type app struct {
	cfg      *config.Client
	store    *persist.FileStore
	state    persist.State
	creds    remote.Credentials
	signedIn bool
	logger   *log.Logger

	closers []func() error
}

func openApp(logOut io.Writer) (*app, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	store, err := persist.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "pomflow: ", log.LstdFlags)

	a := &app{
		cfg:    cfg,
		store:  store,
		state:  persist.LoadState(store, logger),
		logger: logger,
	}

	creds, err := remote.LoadCredentials(store)
	switch {
	case err == nil:
		a.creds = creds
		a.signedIn = true
	case errors.Is(err, remote.ErrNotSignedIn):
	default:
		logger.Printf("load credentials: %v", err)
	}
	return a, nil
}

// openLogFile sends background diagnostics to a file in the data dir, for
// front ends that own the terminal.
func openLogFile() (*os.File, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// sink saves locally and, when signed in, mirrors to the sync server.
func (a *app) sink() persist.Sink {
	local := persist.NewLocalSink(a.store, a.logger)
	if !a.signedIn {
		return local
	}
	return persist.NewMirrorSink(local, a.creds.Client(), a.logger, a.state.History)
}

func (a *app) alarm(out io.Writer) alarm.Player {
	switch a.cfg.Alarm.Player {
	case config.AlarmPlayerNone:
		return alarm.Nop{}
	case config.AlarmPlayerCommand:
		return alarm.NewCommand(a.cfg.Alarm.Command, a.cfg.Alarm.Args, a.logger)
	default:
		return alarm.NewBell(out)
	}
}

// notifier combines the given in-process notifiers with desktop popups as
// configured.
func (a *app) notifier(inApp ...notify.Notifier) notify.Notifier {
	if !a.cfg.Notifications.Enabled {
		return notify.Noop{}
	}
	notifiers := append([]notify.Notifier(nil), inApp...)
	if a.cfg.Notifications.Desktop {
		notifiers = append(notifiers, notify.NewDesktop())
	}
	if len(notifiers) == 0 {
		return notify.Noop{}
	}
	return notify.Fanout(notifiers...)
}

// engine builds a timer around the saved state. opts supplies the front
// end's collaborators; state and persistence come from a. Callers close the
// engine and then the returned sink, which flushes pending writes.
func (a *app) engine(opts timer.Options) (*timer.Engine, persist.Sink) {
	sink := a.sink()
	opts.Settings = a.state.Settings
	opts.Session = a.state.Session
	opts.Tasks = tasks.NewStore(a.state.Tasks)
	opts.History = history.NewLog(a.state.History)
	opts.Sink = sink
	return timer.New(opts), sink
}

// withEngine runs fn against an engine with no tick source, then flushes.
func (a *app) withEngine(fn func(*timer.Engine) error) error {
	engine, sink := a.engine(timer.Options{Scheduler: timer.NewManualScheduler()})
	err := fn(engine)
	engine.Close()
	if closeErr := sink.Close(); err == nil {
		err = closeErr
	}
	return err
}

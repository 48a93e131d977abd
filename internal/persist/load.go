package persist

import (
	"context"
	"fmt"
	"io"
	"log"

	"pomflow/internal/model"
)

// State is everything the client restores at startup.
type State struct {
	Settings model.Settings
	Tasks    []model.Task
	History  []model.HistoryEntry
	Session  model.Session
	DarkMode bool
}

// LoadState reads every slice, falling back to defaults for missing keys and
// for keys that fail to parse. Fields absent from a stored document keep
// their defaults; invalid values are normalized.
func LoadState(store Store, logger *log.Logger) State {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	load := func(key Key, dst any) {
		if _, err := store.Load(key, dst); err != nil {
			logger.Printf("persist: load %s: %v (using defaults)", key, err)
		}
	}

	settings := model.DefaultSettings()
	load(KeySettings, &settings)
	settings = settings.Normalize()

	var tasks []model.Task
	load(KeyTasks, &tasks)

	var history []model.HistoryEntry
	load(KeyHistory, &history)

	session := model.NewSession(settings)
	load(KeySession, &session)
	session = session.Normalize(settings)

	var darkMode bool
	load(KeyDarkMode, &darkMode)

	return State{
		Settings: settings,
		Tasks:    tasks,
		History:  history,
		Session:  session,
		DarkMode: darkMode,
	}
}

// Puller reads the signed-in user's rows from the sync server. found is false
// when the server has no row yet.
type Puller interface {
	GetSettings(ctx context.Context) (settings model.Settings, found bool, err error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListHistory(ctx context.Context) ([]model.HistoryEntry, error)
	GetSession(ctx context.Context) (session model.Session, found bool, err error)
}

// Pull copies the remote state over the local store. The remote copy wins for
// every slice it has.
func Pull(ctx context.Context, remote Puller, store Store) error {
	settings, found, err := remote.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("pull settings: %w", err)
	}
	if found {
		if err := store.Save(KeySettings, settings.Normalize()); err != nil {
			return err
		}
	}

	tasks, err := remote.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("pull tasks: %w", err)
	}
	if err := store.Save(KeyTasks, tasks); err != nil {
		return err
	}

	history, err := remote.ListHistory(ctx)
	if err != nil {
		return fmt.Errorf("pull history: %w", err)
	}
	if err := store.Save(KeyHistory, history); err != nil {
		return err
	}

	session, found, err := remote.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("pull session: %w", err)
	}
	if found {
		if err := store.Save(KeySession, session); err != nil {
			return err
		}
	}
	return nil
}

// Push uploads the local state, e.g. right after signing in on a device that
// has been used offline.
func Push(ctx context.Context, remote Remote, state State) error {
	if err := remote.PutSettings(ctx, state.Settings); err != nil {
		return fmt.Errorf("push settings: %w", err)
	}
	if err := remote.ReplaceTasks(ctx, state.Tasks); err != nil {
		return fmt.Errorf("push tasks: %w", err)
	}
	if err := remote.ReplaceHistory(ctx, state.History); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	if err := remote.PutSession(ctx, state.Session); err != nil {
		return fmt.Errorf("push session: %w", err)
	}
	return nil
}

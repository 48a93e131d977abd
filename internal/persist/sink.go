package persist

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"pomflow/internal/model"
)

// Sink accepts state snapshots without blocking the caller. Values must not
// be mutated after they are handed over.
type Sink interface {
	Save(key Key, value any)
	Close() error
}

// writer coalesces pending values per key and writes them on one goroutine,
// so a burst of saves costs one write per key and the newest value wins.
type writer struct {
	write  func(key Key, value any) error
	logger *log.Logger
	name   string

	mu      sync.Mutex
	pending map[Key]any
	order   []Key
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newWriter(name string, logger *log.Logger, write func(Key, any) error) *writer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &writer{
		write:   write,
		logger:  logger,
		name:    name,
		pending: make(map[Key]any),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) Save(key Key, value any) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	<-w.done
	return nil
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

func (w *writer) flush() {
	w.mu.Lock()
	batch := w.pending
	order := w.order
	w.pending = make(map[Key]any)
	w.order = nil
	w.mu.Unlock()

	for _, key := range order {
		if err := w.write(key, batch[key]); err != nil {
			w.logger.Printf("%s: save %s: %v", w.name, key, err)
		}
	}
}

// LocalSink writes through to a Store in the background.
type LocalSink struct {
	*writer
}

func NewLocalSink(store Store, logger *log.Logger) *LocalSink {
	return &LocalSink{writer: newWriter("persist", logger, store.Save)}
}

// Remote is the subset of the sync client the mirror needs.
type Remote interface {
	PutSettings(ctx context.Context, settings model.Settings) error
	ReplaceTasks(ctx context.Context, tasks []model.Task) error
	ReplaceHistory(ctx context.Context, entries []model.HistoryEntry) error
	PutSession(ctx context.Context, session model.Session) error
}

// MirrorRemote adds the history calls the mirror uses to keep completions
// append-only on the server.
type MirrorRemote interface {
	Remote
	AppendHistory(ctx context.Context, entry model.HistoryEntry) error
	ClearHistory(ctx context.Context) error
}

const remoteTimeout = 10 * time.Second

// MirrorSink saves locally and pushes the same slices to the sync server.
// Remote failures are logged and otherwise ignored; the local copy stays
// authoritative for the running session.
type MirrorSink struct {
	local  Sink
	remote *writer
}

// NewMirrorSink starts a mirror. known is the history the server already
// holds, usually the log loaded at startup.
func NewMirrorSink(local Sink, remote MirrorRemote, logger *log.Logger, known []model.HistoryEntry) *MirrorSink {
	history := newHistoryMirror(remote, known)
	push := func(key Key, value any) error {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		if entries, ok := value.([]model.HistoryEntry); ok {
			return history.push(ctx, entries)
		}
		return pushRemote(ctx, remote, key, value)
	}
	return &MirrorSink{local: local, remote: newWriter("sync", logger, push)}
}

func (m *MirrorSink) Save(key Key, value any) {
	m.local.Save(key, value)
	if mirrored(key) {
		m.remote.Save(key, value)
	}
}

func (m *MirrorSink) Close() error {
	remoteErr := m.remote.Close()
	if err := m.local.Close(); err != nil {
		return err
	}
	return remoteErr
}

func mirrored(key Key) bool {
	switch key {
	case KeySettings, KeyTasks, KeyHistory, KeySession:
		return true
	}
	return false
}

func pushRemote(ctx context.Context, remote Remote, key Key, value any) error {
	switch v := value.(type) {
	case model.Settings:
		return remote.PutSettings(ctx, v)
	case []model.Task:
		return remote.ReplaceTasks(ctx, v)
	case []model.HistoryEntry:
		return remote.ReplaceHistory(ctx, v)
	case model.Session:
		return remote.PutSession(ctx, v)
	}
	return fmt.Errorf("unsupported value %T for %s", value, key)
}

// historyMirror tracks which entries the server has. It runs on the sync
// writer goroutine only.
type historyMirror struct {
	remote MirrorRemote
	pushed map[string]struct{}
}

func newHistoryMirror(remote MirrorRemote, known []model.HistoryEntry) *historyMirror {
	m := &historyMirror{remote: remote}
	m.reset(known)
	return m
}

func (m *historyMirror) reset(entries []model.HistoryEntry) {
	m.pushed = make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		m.pushed[entry.ID] = struct{}{}
	}
}

// push posts entries the server has not seen. An empty log clears the server
// copy; a log that lost entries some other way replaces it.
func (m *historyMirror) push(ctx context.Context, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		if err := m.remote.ClearHistory(ctx); err != nil {
			return err
		}
		m.reset(nil)
		return nil
	}

	present := 0
	for _, entry := range entries {
		if _, ok := m.pushed[entry.ID]; ok {
			present++
		}
	}
	if present < len(m.pushed) {
		if err := m.remote.ReplaceHistory(ctx, entries); err != nil {
			return err
		}
		m.reset(entries)
		return nil
	}

	for _, entry := range entries {
		if _, ok := m.pushed[entry.ID]; ok {
			continue
		}
		if err := m.remote.AppendHistory(ctx, entry); err != nil {
			return err
		}
		m.pushed[entry.ID] = struct{}{}
	}
	return nil
}

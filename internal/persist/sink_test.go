package persist

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomflow/internal/model"
)

type countingStore struct {
	mu     sync.Mutex
	values map[Key]any
	writes map[Key]int
	err    error
}

func newCountingStore() *countingStore {
	return &countingStore{values: map[Key]any{}, writes: map[Key]int{}}
}

func (s *countingStore) Load(Key, any) (bool, error) { return false, nil }

func (s *countingStore) Save(key Key, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes[key]++
	return s.err
}

func (s *countingStore) Delete(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func TestLocalSinkFlushesLatestOnClose(t *testing.T) {
	store := newCountingStore()
	sink := NewLocalSink(store, nil)

	for i := 1; i <= 50; i++ {
		sink.Save(KeySession, model.Session{Mode: model.ModeFocus, TimeLeftSeconds: i})
	}
	sink.Save(KeyDarkMode, true)
	require.NoError(t, sink.Close())

	assert.Equal(t, model.Session{Mode: model.ModeFocus, TimeLeftSeconds: 50}, store.values[KeySession])
	assert.Equal(t, true, store.values[KeyDarkMode])
	assert.LessOrEqual(t, store.writes[KeySession], 50)
}

func TestLocalSinkIgnoresSavesAfterClose(t *testing.T) {
	store := newCountingStore()
	sink := NewLocalSink(store, nil)
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	sink.Save(KeyDarkMode, true)
	_, ok := store.values[KeyDarkMode]
	assert.False(t, ok)
}

func TestLocalSinkLogsWriteErrors(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("disk full")
	var logs bytes.Buffer
	sink := NewLocalSink(store, log.New(&logs, "", 0))

	sink.Save(KeyTasks, []model.Task{})
	require.NoError(t, sink.Close())

	assert.Contains(t, logs.String(), "persist: save tasks: disk full")
}

type recordingRemote struct {
	mu       sync.Mutex
	puts     map[Key]int
	appended []string
	cleared  int
	err      error
}

func (r *recordingRemote) record(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.puts == nil {
		r.puts = map[Key]int{}
	}
	r.puts[key]++
	return r.err
}

func (r *recordingRemote) PutSettings(context.Context, model.Settings) error {
	return r.record(KeySettings)
}

func (r *recordingRemote) ReplaceTasks(context.Context, []model.Task) error {
	return r.record(KeyTasks)
}

func (r *recordingRemote) ReplaceHistory(context.Context, []model.HistoryEntry) error {
	return r.record(KeyHistory)
}

func (r *recordingRemote) PutSession(context.Context, model.Session) error {
	return r.record(KeySession)
}

func (r *recordingRemote) AppendHistory(_ context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.appended = append(r.appended, entry.ID)
	return nil
}

func (r *recordingRemote) ClearHistory(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
	return r.err
}

func TestMirrorSinkPushesStateKeysOnly(t *testing.T) {
	store := newCountingStore()
	remote := &recordingRemote{}
	sink := NewMirrorSink(NewLocalSink(store, nil), remote, nil, nil)

	sink.Save(KeySettings, model.DefaultSettings())
	sink.Save(KeyTasks, []model.Task{})
	sink.Save(KeyHistory, []model.HistoryEntry{{ID: "h1"}, {ID: "h2"}})
	sink.Save(KeySession, model.Session{})
	sink.Save(KeyDarkMode, true)
	sink.Save(KeyAuth, "secret")
	require.NoError(t, sink.Close())

	assert.Len(t, store.values, 6)
	assert.Equal(t, map[Key]int{KeySettings: 1, KeyTasks: 1, KeySession: 1}, remote.puts)
	assert.Equal(t, []string{"h1", "h2"}, remote.appended)
}

func TestMirrorSinkRemoteFailureIsLogged(t *testing.T) {
	store := newCountingStore()
	remote := &recordingRemote{err: errors.New("offline")}
	var logs bytes.Buffer
	sink := NewMirrorSink(NewLocalSink(store, nil), remote, log.New(&logs, "", 0), nil)

	sink.Save(KeyTasks, []model.Task{})
	require.NoError(t, sink.Close())

	assert.Contains(t, logs.String(), "sync: save tasks: offline")
	assert.Contains(t, store.values, KeyTasks)
}

func TestHistoryMirrorAppendsOnlyNewEntries(t *testing.T) {
	remote := &recordingRemote{}
	mirror := newHistoryMirror(remote, []model.HistoryEntry{{ID: "h1"}})
	ctx := context.Background()

	require.NoError(t, mirror.push(ctx, []model.HistoryEntry{{ID: "h1"}, {ID: "h2"}}))
	require.NoError(t, mirror.push(ctx, []model.HistoryEntry{{ID: "h1"}, {ID: "h2"}, {ID: "h3"}}))

	assert.Equal(t, []string{"h2", "h3"}, remote.appended)
	assert.Empty(t, remote.puts)
	assert.Zero(t, remote.cleared)
}

func TestHistoryMirrorClearsAndReplaces(t *testing.T) {
	remote := &recordingRemote{}
	mirror := newHistoryMirror(remote, []model.HistoryEntry{{ID: "h1"}, {ID: "h2"}})
	ctx := context.Background()

	require.NoError(t, mirror.push(ctx, []model.HistoryEntry{{ID: "h2"}}))
	assert.Equal(t, 1, remote.puts[KeyHistory])

	require.NoError(t, mirror.push(ctx, nil))
	assert.Equal(t, 1, remote.cleared)

	require.NoError(t, mirror.push(ctx, []model.HistoryEntry{{ID: "h3"}}))
	assert.Equal(t, []string{"h3"}, remote.appended)
	assert.Equal(t, 1, remote.puts[KeyHistory])
}

func TestHistoryMirrorRetriesFailedAppends(t *testing.T) {
	remote := &recordingRemote{err: errors.New("offline")}
	mirror := newHistoryMirror(remote, nil)
	ctx := context.Background()

	assert.Error(t, mirror.push(ctx, []model.HistoryEntry{{ID: "h1"}}))

	remote.err = nil
	require.NoError(t, mirror.push(ctx, []model.HistoryEntry{{ID: "h1"}, {ID: "h2"}}))
	assert.Equal(t, []string{"h1", "h2"}, remote.appended)
}

func TestPushRemoteRejectsUnknownValue(t *testing.T) {
	err := pushRemote(context.Background(), &recordingRemote{}, KeyTasks, 42)
	assert.ErrorContains(t, err, "unsupported value int")
}

package tasks

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomflow/internal/model"
)

func newTestStore(initial []model.Task) *Store {
	s := NewStore(initial)
	n := 0
	s.newID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return s
}

func ids(list []model.Task) []string {
	out := make([]string, 0, len(list))
	for _, task := range list {
		out = append(out, task.ID)
	}
	return out
}

func TestAddInsertsBeforeCompletedTasks(t *testing.T) {
	s := newTestStore([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 1},
		{ID: "done", Title: "Done", EstimatedPomodoros: 1, IsCompleted: true},
	})

	task, err := s.Add("  New task  ", " note ", 3)
	require.NoError(t, err)
	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "New task", task.Title)
	assert.Equal(t, "note", task.Notes)
	assert.Equal(t, []string{"a", "id-1", "done"}, ids(s.All()))
}

func TestAddValidates(t *testing.T) {
	s := newTestStore(nil)

	_, err := s.Add(" ", "", 1)
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = s.Add("ok", "", 0)
	assert.ErrorIs(t, err, ErrInvalidEstimate)
	assert.Zero(t, s.Len())
}

func TestReplaceDropsInvalidEntries(t *testing.T) {
	s := newTestStore([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 0, CompletedPomodoros: -1},
		{ID: "", Title: "no id"},
		{ID: "b", Title: "  "},
		{ID: "a", Title: "dup"},
	})

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].EstimatedPomodoros)
	assert.Zero(t, all[0].CompletedPomodoros)
}

func TestUpdate(t *testing.T) {
	s := newTestStore([]model.Task{{ID: "a", Title: "A", EstimatedPomodoros: 1}})

	require.NoError(t, s.Update(model.Task{ID: "a", Title: " Renamed ", EstimatedPomodoros: 4, IsCompleted: true}))
	task, _ := s.Get("a")
	assert.Equal(t, "Renamed", task.Title)
	assert.True(t, task.IsCompleted)

	assert.ErrorIs(t, s.Update(model.Task{ID: "a", Title: "", EstimatedPomodoros: 1}), ErrEmptyTitle)
	assert.ErrorIs(t, s.Update(model.Task{ID: "zzz", Title: "x", EstimatedPomodoros: 1}), ErrNotFound)
}

func TestReorderKeepsCompletedAfterActive(t *testing.T) {
	s := newTestStore([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 1},
		{ID: "x", Title: "X", EstimatedPomodoros: 1, IsCompleted: true},
		{ID: "b", Title: "B", EstimatedPomodoros: 1},
		{ID: "y", Title: "Y", EstimatedPomodoros: 1, IsCompleted: true},
		{ID: "c", Title: "C", EstimatedPomodoros: 1},
	})

	require.NoError(t, s.Reorder([]string{"c", "a", "b"}))
	assert.Equal(t, []string{"c", "a", "b", "x", "y"}, ids(s.All()))

	assert.ErrorIs(t, s.Reorder([]string{"a", "b"}), ErrReorderMismatch)
	assert.ErrorIs(t, s.Reorder([]string{"a", "b", "x"}), ErrReorderMismatch)
	assert.ErrorIs(t, s.Reorder([]string{"a", "a", "b"}), ErrReorderMismatch)
}

func TestMove(t *testing.T) {
	s := newTestStore([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 1},
		{ID: "b", Title: "B", EstimatedPomodoros: 1},
		{ID: "c", Title: "C", EstimatedPomodoros: 1},
		{ID: "x", Title: "X", EstimatedPomodoros: 1, IsCompleted: true},
	})

	require.NoError(t, s.Move("a", 2))
	assert.Equal(t, []string{"b", "c", "a", "x"}, ids(s.All()))
	require.NoError(t, s.Move("a", -5))
	assert.Equal(t, []string{"a", "b", "c", "x"}, ids(s.All()))
	require.NoError(t, s.Move("b", 99))
	assert.Equal(t, []string{"a", "c", "b", "x"}, ids(s.All()))

	assert.ErrorIs(t, s.Move("x", 0), ErrMoveCompleted)
	assert.ErrorIs(t, s.Move("nope", 0), ErrNotFound)
}

func TestClearCompletedAndDelete(t *testing.T) {
	s := newTestStore([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 1, IsCompleted: true},
		{ID: "b", Title: "B", EstimatedPomodoros: 1},
		{ID: "c", Title: "C", EstimatedPomodoros: 1, IsCompleted: true},
	})

	assert.Equal(t, []string{"a", "c"}, s.ClearCompleted())
	assert.Equal(t, []string{"b"}, ids(s.All()))
	assert.Empty(t, s.ClearCompleted())

	assert.True(t, s.Delete("b"))
	assert.False(t, s.Delete("b"))
	assert.Zero(t, s.Len())
}

func TestAllReturnsCopy(t *testing.T) {
	s := newTestStore([]model.Task{{ID: "a", Title: "A", EstimatedPomodoros: 1}})

	list := s.All()
	list[0].Title = "mutated"

	task, _ := s.Get("a")
	assert.Equal(t, "A", task.Title)
}

func TestIncrementCompletedIsUnclamped(t *testing.T) {
	s := newTestStore([]model.Task{{ID: "a", Title: "A", EstimatedPomodoros: 1, CompletedPomodoros: 1}})

	assert.True(t, s.IncrementCompleted("a"))
	assert.False(t, s.IncrementCompleted("missing"))
	task, _ := s.Get("a")
	assert.Equal(t, 2, task.CompletedPomodoros)
}

func TestActiveAndCompleted(t *testing.T) {
	s := newTestStore([]model.Task{
		{ID: "a", Title: "A", EstimatedPomodoros: 1},
		{ID: "b", Title: "B", EstimatedPomodoros: 1, IsCompleted: true},
	})

	assert.Equal(t, []string{"a"}, ids(s.Active()))
	assert.Equal(t, []string{"b"}, ids(s.Completed()))
}

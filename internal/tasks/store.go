// Package tasks holds the ordered task list.
package tasks

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"pomflow/internal/model"
)

var (
	ErrEmptyTitle      = errors.New("task title is required")
	ErrInvalidEstimate = errors.New("estimated pomodoros must be at least 1")
	ErrNotFound        = errors.New("task not found")
	ErrReorderMismatch = errors.New("reorder must list every active task exactly once")
	ErrMoveCompleted   = errors.New("completed tasks cannot be moved")
)

// Store is not safe for concurrent use; the timer engine is its only mutator.
type Store struct {
	tasks []model.Task
	newID func() string
}

func NewStore(initial []model.Task) *Store {
	s := &Store{newID: uuid.NewString}
	s.Replace(initial)
	return s
}

// Replace swaps the whole list, dropping entries without an id or title.
func (s *Store) Replace(tasks []model.Task) {
	s.tasks = make([]model.Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		task.Title = strings.TrimSpace(task.Title)
		if task.ID == "" || task.Title == "" {
			continue
		}
		if _, dup := seen[task.ID]; dup {
			continue
		}
		seen[task.ID] = struct{}{}
		if task.EstimatedPomodoros < 1 {
			task.EstimatedPomodoros = 1
		}
		if task.CompletedPomodoros < 0 {
			task.CompletedPomodoros = 0
		}
		s.tasks = append(s.tasks, task)
	}
}

// Add creates a task and places it right after the existing active tasks.
func (s *Store) Add(title, notes string, estimate int) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if estimate < 1 {
		return model.Task{}, ErrInvalidEstimate
	}

	task := model.Task{
		ID:                 s.newID(),
		Title:              title,
		Notes:              strings.TrimSpace(notes),
		EstimatedPomodoros: estimate,
	}

	position := s.countActive()
	s.tasks = append(s.tasks, model.Task{})
	copy(s.tasks[position+1:], s.tasks[position:])
	s.tasks[position] = task
	return task, nil
}

// Update replaces the task with the same id.
func (s *Store) Update(task model.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return ErrEmptyTitle
	}
	if task.EstimatedPomodoros < 1 {
		return ErrInvalidEstimate
	}
	if task.CompletedPomodoros < 0 {
		task.CompletedPomodoros = 0
	}
	idx := s.indexOf(task.ID)
	if idx < 0 {
		return ErrNotFound
	}
	task.Notes = strings.TrimSpace(task.Notes)
	s.tasks[idx] = task
	return nil
}

func (s *Store) Delete(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true
}

// Reorder takes the new order of the active tasks. Completed tasks keep their
// relative order and follow the active ones.
func (s *Store) Reorder(activeIDs []string) error {
	active := make(map[string]model.Task)
	completed := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.IsCompleted {
			completed = append(completed, task)
			continue
		}
		active[task.ID] = task
	}
	if len(activeIDs) != len(active) {
		return ErrReorderMismatch
	}

	ordered := make([]model.Task, 0, len(s.tasks))
	for _, id := range activeIDs {
		task, ok := active[id]
		if !ok {
			return ErrReorderMismatch
		}
		delete(active, id)
		ordered = append(ordered, task)
	}
	s.tasks = append(ordered, completed...)
	return nil
}

// Move shifts an active task to index within the active subset, clamping the
// index into range.
func (s *Store) Move(id string, index int) error {
	activeIDs := make([]string, 0, len(s.tasks))
	from := -1
	for _, task := range s.tasks {
		if task.IsCompleted {
			if task.ID == id {
				return ErrMoveCompleted
			}
			continue
		}
		if task.ID == id {
			from = len(activeIDs)
		}
		activeIDs = append(activeIDs, task.ID)
	}
	if from < 0 {
		return ErrNotFound
	}
	if index < 0 {
		index = 0
	}
	if index >= len(activeIDs) {
		index = len(activeIDs) - 1
	}

	moved := activeIDs[from]
	activeIDs = append(activeIDs[:from], activeIDs[from+1:]...)
	activeIDs = append(activeIDs[:index], append([]string{moved}, activeIDs[index:]...)...)
	return s.Reorder(activeIDs)
}

// ClearCompleted removes finished tasks and returns their ids.
func (s *Store) ClearCompleted() []string {
	kept := s.tasks[:0]
	var removed []string
	for _, task := range s.tasks {
		if task.IsCompleted {
			removed = append(removed, task.ID)
			continue
		}
		kept = append(kept, task)
	}
	s.tasks = kept
	return removed
}

// IncrementCompleted credits one focus interval to the task. The count is not
// capped at the estimate.
func (s *Store) IncrementCompleted(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.tasks[idx].CompletedPomodoros++
	return true
}

func (s *Store) Get(id string) (model.Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx], true
}

func (s *Store) All() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Active() []model.Task {
	return s.filter(false)
}

func (s *Store) Completed() []model.Task {
	return s.filter(true)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) filter(completed bool) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.IsCompleted == completed {
			out = append(out, task)
		}
	}
	return out
}

func (s *Store) countActive() int {
	count := 0
	for _, task := range s.tasks {
		if !task.IsCompleted {
			count++
		}
	}
	return count
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

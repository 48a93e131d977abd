package timer

import (
	"pomflow/internal/model"
	"pomflow/internal/persist"
	"pomflow/internal/tasks"
)

func (e *Engine) Tasks() []model.Task {
	return e.tasks.All()
}

func (e *Engine) Task(id string) (model.Task, bool) {
	return e.tasks.Get(id)
}

func (e *Engine) History() []model.HistoryEntry {
	return e.history.All()
}

// TodayHistory is today's completions in the clock's location, newest first.
func (e *Engine) TodayHistory() []model.HistoryEntry {
	return e.history.Today(e.clock.Now())
}

// Budget renders the focus time left across active tasks.
func (e *Engine) Budget() string {
	return tasks.FormatBudget(e.tasks.RemainingMinutes(e.settings.FocusMinutes))
}

func (e *Engine) AddTask(title, notes string, estimate int) (model.Task, error) {
	task, err := e.tasks.Add(title, notes, estimate)
	if err != nil {
		return model.Task{}, err
	}
	e.tasksChanged()
	return task, nil
}

func (e *Engine) UpdateTask(task model.Task) error {
	if err := e.tasks.Update(task); err != nil {
		return err
	}
	e.tasksChanged()
	return nil
}

// ToggleTaskCompleted flips the completion flag of id.
func (e *Engine) ToggleTaskCompleted(id string) error {
	task, ok := e.tasks.Get(id)
	if !ok {
		return tasks.ErrNotFound
	}
	task.IsCompleted = !task.IsCompleted
	return e.UpdateTask(task)
}

// DeleteTask removes id and drops the timer binding if it pointed there.
func (e *Engine) DeleteTask(id string) bool {
	if !e.tasks.Delete(id) {
		return false
	}
	if e.activeID == id {
		e.activeID = ""
		e.saveSession()
	}
	e.tasksChanged()
	return true
}

func (e *Engine) ReorderTasks(activeIDs []string) error {
	if err := e.tasks.Reorder(activeIDs); err != nil {
		return err
	}
	e.tasksChanged()
	return nil
}

func (e *Engine) MoveTask(id string, index int) error {
	if err := e.tasks.Move(id, index); err != nil {
		return err
	}
	e.tasksChanged()
	return nil
}

// ClearCompletedTasks returns how many tasks were removed.
func (e *Engine) ClearCompletedTasks() int {
	removed := e.tasks.ClearCompleted()
	if len(removed) == 0 {
		return 0
	}
	for _, id := range removed {
		if id == e.activeID {
			e.activeID = ""
			e.saveSession()
			break
		}
	}
	e.tasksChanged()
	return len(removed)
}

// ReplaceTasks installs a list loaded from elsewhere. It is not written back.
func (e *Engine) ReplaceTasks(list []model.Task) {
	e.tasks.Replace(list)
	if _, ok := e.tasks.Get(e.activeID); !ok && e.activeID != "" {
		e.activeID = ""
		e.saveSession()
	}
	e.emit(EventStateChange, "")
}

// ReplaceHistory installs a history loaded from elsewhere. It is not written
// back.
func (e *Engine) ReplaceHistory(entries []model.HistoryEntry) {
	e.history.Replace(entries)
	e.emit(EventStateChange, "")
}

func (e *Engine) ClearHistory() {
	e.history.Clear()
	e.sink.Save(persist.KeyHistory, e.history.All())
	e.emit(EventStateChange, "")
}

func (e *Engine) tasksChanged() {
	e.sink.Save(persist.KeyTasks, e.tasks.All())
	e.emit(EventStateChange, "")
}

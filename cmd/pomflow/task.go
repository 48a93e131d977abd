package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pomflow/internal/model"
	"pomflow/internal/timer"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Manage the task list",
	Long: `Manage the task list.

Tasks are referred to by their position in "pomflow task list" or by a
prefix of their id.`,
}

// task add
var taskAddCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var (
	taskAddEstimate int
	taskAddNotes    string
)

// task list
var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, active first",
	Args:    cobra.NoArgs,
	RunE:    runTaskList,
}

var taskListIDs bool

// task edit
var taskEditCmd = &cobra.Command{
	Use:   "edit <task>",
	Short: "Change a task's title, notes or estimate",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var (
	taskEditTitle    string
	taskEditNotes    string
	taskEditEstimate int
)

// task done
var taskDoneCmd = &cobra.Command{
	Use:   "done <task>...",
	Short: "Mark tasks as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskDone,
}

var taskDoneUndo bool

// task rm
var taskRemoveCmd = &cobra.Command{
	Use:     "rm <task>...",
	Aliases: []string{"delete"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTaskRemove,
}

// task clear
var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runTaskClear,
}

// task select
var taskSelectCmd = &cobra.Command{
	Use:   "select [task]",
	Short: "Bind a task to the timer, or unbind it",
	Long: `Bind a task to the timer so finished focus intervals count towards it.
Selecting the bound task again, or passing no task, unbinds it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTaskSelect,
}

// task move
var taskMoveCmd = &cobra.Command{
	Use:   "move <task> <position>",
	Short: "Move an active task to a position in the list",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var estimateFlagAliases = map[string]string{
	"est":       "estimate",
	"pomodoros": "estimate",
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskEditCmd, taskDoneCmd, taskRemoveCmd,
		taskClearCmd, taskSelectCmd, taskMoveCmd)

	taskAddCmd.Flags().IntVarP(&taskAddEstimate, "estimate", "e", 1, "Estimated pomodoros")
	taskAddCmd.Flags().StringVar(&taskAddNotes, "notes", "", "Notes")

	taskListCmd.Flags().BoolVar(&taskListIDs, "ids", false, "Show task ids")

	taskEditCmd.Flags().StringVar(&taskEditTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&taskEditNotes, "notes", "", "New notes")
	taskEditCmd.Flags().IntVarP(&taskEditEstimate, "estimate", "e", 0, "New estimate")

	taskDoneCmd.Flags().BoolVar(&taskDoneUndo, "undo", false, "Mark as not completed instead")

	setFlagAliases(taskAddCmd.Flags(), estimateFlagAliases)
	setFlagAliases(taskEditCmd.Flags(), estimateFlagAliases)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		task, err := engine.AddTask(strings.Join(args, " "), taskAddNotes, taskAddEstimate)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d pomodoros)\n", task.Title, task.EstimatedPomodoros)
		return nil
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		printTasks(cmd.OutOrStdout(), engine, taskListIDs)
		return nil
	})
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("notes") && !flags.Changed("estimate") {
		return fmt.Errorf("nothing to change; pass --title, --notes or --estimate")
	}
	return withApp(cmd, func(engine *timer.Engine) error {
		task, err := resolveTask(engine, args[0])
		if err != nil {
			return err
		}
		if flags.Changed("title") {
			task.Title = taskEditTitle
		}
		if flags.Changed("notes") {
			task.Notes = taskEditNotes
		}
		if flags.Changed("estimate") {
			task.EstimatedPomodoros = taskEditEstimate
		}
		if err := engine.UpdateTask(task); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", strings.TrimSpace(task.Title))
		return nil
	})
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		// Resolve every ref first. Positions shift as tasks change state.
		list, err := resolveTasks(engine, args)
		if err != nil {
			return err
		}
		for _, task := range list {
			if task.IsCompleted == !taskDoneUndo {
				continue
			}
			if err := engine.ToggleTaskCompleted(task.ID); err != nil {
				return err
			}
			verb := "Completed"
			if taskDoneUndo {
				verb = "Reopened"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, task.Title)
		}
		return nil
	})
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		list, err := resolveTasks(engine, args)
		if err != nil {
			return err
		}
		for _, task := range list {
			if engine.DeleteTask(task.ID) {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", task.Title)
			}
		}
		return nil
	})
}

func runTaskClear(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		removed := engine.ClearCompletedTasks()
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed %s\n", removed, plural(removed, "task", "tasks"))
		return nil
	})
}

func runTaskSelect(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			active, ok := engine.ActiveTask()
			if !ok {
				fmt.Fprintln(out, "No task selected")
				return nil
			}
			engine.SelectTask(active.ID)
			fmt.Fprintf(out, "Unselected %s\n", active.Title)
			return nil
		}

		task, err := resolveTask(engine, args[0])
		if err != nil {
			return err
		}
		engine.SelectTask(task.ID)
		if active, ok := engine.ActiveTask(); ok && active.ID == task.ID {
			fmt.Fprintf(out, "Working on %s\n", task.Title)
		} else {
			fmt.Fprintf(out, "Unselected %s\n", task.Title)
		}
		return nil
	})
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	position, err := strconv.Atoi(args[1])
	if err != nil || position < 1 {
		return fmt.Errorf("invalid position %q", args[1])
	}
	return withApp(cmd, func(engine *timer.Engine) error {
		task, err := resolveTask(engine, args[0])
		if err != nil {
			return err
		}
		if err := engine.MoveTask(task.ID, position-1); err != nil {
			return err
		}
		printTasks(cmd.OutOrStdout(), engine, false)
		return nil
	})
}

// withApp opens the saved state for a one-shot command.
func withApp(cmd *cobra.Command, fn func(*timer.Engine) error) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return a.withEngine(fn)
}

func printTasks(w io.Writer, engine *timer.Engine, showIDs bool) {
	list := orderedTasks(engine)
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks yet. Add one with: pomflow task add <title>")
		return
	}

	active, _ := engine.ActiveTask()
	for i, task := range list {
		check := " "
		if task.IsCompleted {
			check = "x"
		}
		line := fmt.Sprintf("%d. [%s] %s (%d/%d)", i+1, check, task.Title, task.CompletedPomodoros, task.EstimatedPomodoros)
		if showIDs {
			line += "  " + task.ID
		}
		if task.ID == active.ID {
			line += "  <- active"
		}
		fmt.Fprintln(w, line)
	}
	if budget := engine.Budget(); budget != "" {
		fmt.Fprintln(w, budget)
	}
}

// orderedTasks is the display order: active tasks first, then completed.
func orderedTasks(engine *timer.Engine) []model.Task {
	all := engine.Tasks()
	ordered := make([]model.Task, 0, len(all))
	for _, completed := range []bool{false, true} {
		for _, task := range all {
			if task.IsCompleted == completed {
				ordered = append(ordered, task)
			}
		}
	}
	return ordered
}

// resolveTask accepts a 1-based position from the listing or an id prefix.
// A ref that parses as a number is only ever a position.
func resolveTask(engine *timer.Engine, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, errors.New("task reference is empty")
	}

	list := orderedTasks(engine)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return model.Task{}, fmt.Errorf("no task at position %d", n)
		}
		return list[n-1], nil
	}

	var match *model.Task
	for i := range list {
		if !strings.HasPrefix(list[i].ID, ref) {
			continue
		}
		if match != nil {
			return model.Task{}, fmt.Errorf("task id %q is ambiguous", ref)
		}
		match = &list[i]
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("no task matches %q", ref)
	}
	return *match, nil
}

func resolveTasks(engine *timer.Engine, refs []string) ([]model.Task, error) {
	list := make([]model.Task, 0, len(refs))
	for _, ref := range refs {
		task, err := resolveTask(engine, ref)
		if err != nil {
			return nil, err
		}
		list = append(list, task)
	}
	return list, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"pomflow/internal/timer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed focus intervals",
	Long: `Show the focus intervals completed today, newest first. Use --all for the
whole log or --clear to erase it.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyAll   bool
	historyClear bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVarP(&historyAll, "all", "a", false, "Show every entry, not just today's")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the whole history")
	historyCmd.MarkFlagsMutuallyExclusive("all", "clear")
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		out := cmd.OutOrStdout()
		if historyClear {
			n := len(engine.History())
			engine.ClearHistory()
			fmt.Fprintf(out, "Cleared %d history %s\n", n, plural(n, "entry", "entries"))
			return nil
		}

		entries := engine.TodayHistory()
		layout := "15:04"
		if historyAll {
			entries = engine.History()
			slices.Reverse(entries)
			layout = "2006-01-02 15:04"
		} else {
			fmt.Fprintf(out, "Today (%d)\n", len(entries))
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No completed pomodoros yet.")
			return nil
		}
		for _, entry := range entries {
			title := entry.TaskTitle
			if title == "" {
				title = "No task"
			}
			fmt.Fprintf(out, "%s  %s\n", entry.Timestamp.Local().Format(layout), title)
		}
		return nil
	})
}

// Package main implements the pomflow CLI: a Pomodoro timer with a task list,
// a terminal UI and optional sync.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pomflow:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "pomflow",
	Short:         "A Pomodoro timer with tasks, history and sync",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

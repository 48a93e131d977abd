package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pomflow/internal/model"
	"pomflow/internal/timer"
)

var (
	runMode   string
	runCycles int
	runTick   time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the timer without the full-screen UI",
	Long: `Run the timer in the foreground, printing a line as each interval starts and
finishes. The saved session is resumed unless --mode picks another mode.
After each of the --cycles intervals the next one is started automatically.`,
	Args: cobra.NoArgs,
	RunE: runHeadless,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runMode, "mode", "", "Start in this mode (focus, short, long)")
	runCmd.Flags().IntVarP(&runCycles, "cycles", "n", 1, "Number of intervals to run; 0 runs until interrupted")
	runCmd.Flags().DurationVar(&runTick, "tick", 0, "Wall-clock length of one timer second")
	_ = runCmd.Flags().MarkHidden("tick")
}

func runHeadless(cmd *cobra.Command, args []string) error {
	var mode model.Mode
	if runMode != "" {
		parsed, err := model.ParseMode(runMode)
		if err != nil {
			return err
		}
		mode = parsed
	}
	if runCycles < 0 {
		return errors.New("--cycles cannot be negative")
	}

	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	live := isTerminal(out)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loop := timer.NewLoop(16)
	var engine *timer.Engine
	finished := 0
	onEvent := func(ev timer.Event) {
		switch ev.Type {
		case timer.EventTick:
			if live {
				fmt.Fprintf(out, "\r%s %s ", ev.State.Mode.Label(), timer.FormatClock(ev.State.TimeLeftSeconds))
			}
		case timer.EventComplete:
			if live {
				fmt.Fprintln(out)
			}
			finished++
			fmt.Fprintf(out, "%s finished, %d completed\n", ev.Finished.Label(), ev.State.CompletedPomodoros)
			if runCycles > 0 && finished >= runCycles {
				engine.Pause()
				fmt.Fprintf(out, "Next: %s %s\n", ev.State.Mode.Label(), timer.FormatClock(ev.State.TimeLeftSeconds))
				cancel()
				return
			}
			if !ev.State.Running {
				startInterval(out, engine)
				return
			}
			printStarted(out, engine)
		}
	}

	engine, sink := a.engine(timer.Options{
		Scheduler: timer.NewTickerScheduler(loop.Post).WithInterval(runTick),
		Alarm:     a.alarm(os.Stderr),
		Notifier:  a.notifier(),
		OnEvent:   onEvent,
	})

	loop.Post(func() {
		if mode != "" {
			engine.SwitchMode(mode)
		}
		startInterval(out, engine)
	})
	runErr := loop.Run(ctx)

	engine.Close()
	closeErr := sink.Close()
	if live {
		fmt.Fprintln(out)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return closeErr
}

func startInterval(out io.Writer, engine *timer.Engine) {
	if engine.Snapshot().TimeLeftSeconds <= 0 {
		engine.Reset()
	}
	engine.Start()
	printStarted(out, engine)
}

func printStarted(out io.Writer, engine *timer.Engine) {
	state := engine.Snapshot()
	line := fmt.Sprintf("%s started: %s", state.Mode.Label(), timer.FormatClock(state.TimeLeftSeconds))
	if task, ok := engine.ActiveTask(); ok && state.Mode == model.ModeFocus {
		line += fmt.Sprintf(" (working on %s)", task.Title)
	}
	fmt.Fprintln(out, line)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pomflow/internal/persist"
	"pomflow/internal/tui"
	"pomflow/internal/timer"
)

var errNoTerminal = errors.New("the timer UI needs a terminal; use pomflow run instead")

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := openApp(logFile)
	if err != nil {
		return err
	}

	bridge := tui.NewBridge()
	engine, sink := a.engine(timer.Options{
		Scheduler: timer.NewTickerScheduler(bridge.Post),
		Alarm:     a.alarm(os.Stderr),
		Notifier:  a.notifier(bridge.Notifier()),
	})

	account := ""
	if a.signedIn {
		account = a.creds.Email
	}
	model := tui.New(tui.Options{
		Engine:   engine,
		Store:    a.store,
		Sink:     sink,
		DarkMode: a.state.DarkMode,
		Account:  account,
		Logger:   a.logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(program)
	go func() {
		if err := persist.Watch(ctx, a.store, a.logger, bridge.Reload); err != nil {
			a.logger.Printf("watch state dir: %v", err)
		}
	}()

	_, runErr := program.Run()
	bridge.Detach()
	cancel()

	engine.Close()
	if err := sink.Close(); err != nil {
		a.logger.Printf("flush state: %v", err)
	}
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return runErr
}

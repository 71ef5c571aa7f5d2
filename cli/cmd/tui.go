package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/abacus/cli/tui"
)

// TUICommand returns the interactive calculator command.
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Start the interactive calculator",
		Flags:  StorageFlags(),
		Action: tuiAction,
	}
}

func tuiAction(c *cli.Context) error {
	if !isTerminal(os.Stdout) {
		return cli.Exit("tui requires a terminal; use eval for scripted input", exitUsage)
	}

	// The screen belongs to the calculator: logs go to log.file or nowhere.
	s, err := openSession(c, sessionOptions{logOut: io.Discard})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	p, err := s.repo.LoadPreferences(c.Context)
	if err != nil {
		return storageExit(err)
	}
	engine, err := s.newEngine(c.Context)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	s.logger.Info("calculator started", map[string]any{
		"theme":    p.Theme,
		"keyboard": p.UseKeyboardInput,
		"history":  len(engine.History()),
	})

	if _, err := tui.Run(ctx, engine, p, s, s.logger); err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	snap := s.metrics.Snapshot()
	s.logger.Info("calculator stopped", map[string]any{
		"events_applied":      snap.EventsApplied,
		"calculations":        snap.Calculations,
		"store_write_failure": snap.StoreWriteFailure,
	})
	return nil
}

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/abacus/calc"
	"github.com/pithecene-io/abacus/log"
	"github.com/pithecene-io/abacus/prefs"
)

// Run starts the calculator in the alternate screen and blocks until the
// user quits or ctx is cancelled. It returns the preferences in effect at
// exit. Pending writes are flushed to sink before Run returns.
func Run(ctx context.Context, engine *calc.Engine, p prefs.Preferences, sink Sink, logger *log.Logger) (prefs.Preferences, error) {
	model := NewModel(ctx, engine, p, sink, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	final, runErr := program.Run()

	// Quitting or a cancelled ctx must not drop the last calculation.
	if flushErr := model.Flush(context.WithoutCancel(ctx)); flushErr != nil {
		model.logger.Error("flush failed", map[string]any{"error": flushErr.Error()})
	}

	if runErr != nil {
		return p, fmt.Errorf("TUI error: %w", runErr)
	}
	if m, ok := final.(Model); ok {
		return m.Preferences(), nil
	}
	return p, nil
}

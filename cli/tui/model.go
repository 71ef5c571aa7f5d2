package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/abacus/calc"
	"github.com/pithecene-io/abacus/log"
	"github.com/pithecene-io/abacus/prefs"
)

// Sink persists what the session changes. Methods are called from tea.Cmds,
// one at a time, in the order the changes were made.
type Sink interface {
	SaveHistory(ctx context.Context, entries []string) error
	ClearHistory(ctx context.Context) error
	SavePreferences(ctx context.Context, p prefs.Preferences) error
	RecordCalculation(ctx context.Context, entry string) error
}

// savedMsg reports the outcome of a Sink call.
type savedMsg struct {
	op  string
	err error
}

// Model is the calculator Bubble Tea model.
type Model struct {
	ctx      context.Context
	engine   *calc.Engine
	prefs    prefs.Preferences
	styles   Styles
	sink     Sink
	writes   *writeQueue
	logger   *log.Logger
	keys     keyMap
	help     help.Model
	focus    focus
	status   string
	failed   bool
	quitting bool
}

// NewModel creates a model over engine. A nil sink disables persistence and
// a nil logger discards log output.
func NewModel(ctx context.Context, engine *calc.Engine, p prefs.Preferences, sink Sink, logger *log.Logger) Model {
	if logger == nil {
		logger = log.NewNop()
	}
	p, _ = prefs.Normalize(p)
	return Model{
		ctx:    ctx,
		engine: engine,
		prefs:  p,
		styles: StylesFor(p.Theme),
		sink:   sink,
		writes: &writeQueue{},
		logger: logger,
		keys:   keys,
		help:   help.New(),
		focus:  focus{row: 4, col: 0},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Preferences returns the current preferences.
func (m Model) Preferences() prefs.Preferences {
	return m.prefs
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
			m.failed = true
			m.logger.Error("persist failed", map[string]any{
				"op":    msg.op,
				"error": msg.err.Error(),
			})
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.ToggleHistory):
		m.prefs.ShowHistory = !m.prefs.ShowHistory
		return m, m.savePreferences()

	case key.Matches(msg, m.keys.ToggleTheme):
		m.prefs = prefs.ToggleTheme(m.prefs)
		m.styles = StylesFor(m.prefs.Theme)
		return m, m.savePreferences()

	case key.Matches(msg, m.keys.ToggleInput):
		m.prefs.UseKeyboardInput = !m.prefs.UseKeyboardInput
		if m.prefs.UseKeyboardInput {
			m.setStatus("keyboard input")
		} else {
			m.setStatus("keypad input: arrows to move, enter to press")
		}
		return m, m.savePreferences()

	case key.Matches(msg, m.keys.ClearHistory):
		m.engine.ClearHistory()
		m.setStatus("history cleared")
		return m, m.persist("clear history", func(ctx context.Context) error {
			return m.sink.ClearHistory(ctx)
		})
	}

	if !m.prefs.UseKeyboardInput {
		return m.handleKeypad(msg)
	}

	ev, err := calc.ParseKey(msg.String())
	if err != nil {
		return m, nil
	}
	return m.apply(ev)
}

func (m Model) handleKeypad(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.focus = m.focus.move(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.focus = m.focus.move(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.focus = m.focus.move(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.focus = m.focus.move(0, 1)
	case key.Matches(msg, m.keys.Press):
		return m.apply(m.focus.button().event)
	}
	return m, nil
}

func (m Model) apply(ev calc.Event) (tea.Model, tea.Cmd) {
	res := m.engine.Apply(ev)
	m.status = ""
	m.failed = false
	if res.Failure != calc.FailureNone {
		m.status = strings.ReplaceAll(res.Failure.String(), "_", " ")
		m.failed = true
	}
	if res.Recorded == "" {
		return m, nil
	}

	entries := m.engine.History()
	entry := res.Recorded
	return m, m.persist("save history", func(ctx context.Context) error {
		if err := m.sink.SaveHistory(ctx, entries); err != nil {
			return err
		}
		return m.sink.RecordCalculation(ctx, entry)
	})
}

func (m Model) savePreferences() tea.Cmd {
	p := m.prefs
	return m.persist("save preferences", func(ctx context.Context) error {
		return m.sink.SavePreferences(ctx, p)
	})
}

// persist queues fn and returns a tea.Cmd that drains the write queue.
// It returns nil when there is no sink.
func (m Model) persist(op string, fn func(context.Context) error) tea.Cmd {
	if m.sink == nil {
		return nil
	}
	m.writes.push(write{op: op, fn: fn})
	ctx, q := m.ctx, m.writes
	return func() tea.Msg {
		return q.drain(ctx)
	}
}

// Flush runs writes whose Cmds have not run yet and waits for those in
// flight. Call it after the program exits, before closing the Sink.
func (m Model) Flush(ctx context.Context) error {
	if m.writes == nil {
		return nil
	}
	if msg := m.writes.drain(ctx); msg.err != nil {
		return fmt.Errorf("%s: %w", msg.op, msg.err)
	}
	return nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("abacus"))
	b.WriteString("\n")

	calculator := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Pending.Render(m.engine.Pending()),
		m.renderDisplay(),
		m.renderKeypad(),
	)
	if m.prefs.ShowHistory {
		calculator = lipgloss.JoinHorizontal(lipgloss.Top, calculator, m.renderHistory())
	}
	b.WriteString(calculator)
	b.WriteString("\n")

	if m.status != "" {
		style := m.styles.Status
		if m.failed {
			style = m.styles.StatusError
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderDisplay() string {
	if m.engine.State().ErrorState {
		return m.styles.DisplayError.Render(m.engine.Display())
	}
	return m.styles.Display.Render(m.engine.Display())
}

func (m Model) renderKeypad() string {
	rows := make([]string, 0, len(keypad))
	for r, row := range keypad {
		cells := make([]string, 0, len(row))
		for c, btn := range row {
			style := m.styles.Button
			if btn.operator {
				style = m.styles.OperatorKey
			}
			if !m.prefs.UseKeyboardInput && m.focus == (focus{row: r, col: c}) {
				style = m.styles.FocusedButton
			}
			cells = append(cells, style.Render(btn.label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderHistory() string {
	lines := []string{m.styles.HistoryTitle.Render("History"), ""}
	entries := m.engine.History()
	if len(entries) == 0 {
		lines = append(lines, m.styles.Muted.Render("No calculations yet"))
	}
	for i := len(entries) - 1; i >= 0; i-- {
		lines = append(lines, m.styles.HistoryEntry.Render(entries[i]))
	}
	return m.styles.History.Render(strings.Join(lines, "\n"))
}

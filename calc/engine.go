package calc

import (
	"github.com/pithecene-io/abacus/history"
	"github.com/pithecene-io/abacus/metrics"
)

// Engine owns the calculator state and history log of one session.
// It is not safe for concurrent use: events are applied one at a time.
type Engine struct {
	state   State
	history *history.Log
	metrics *metrics.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory uses log as the engine's history.
func WithHistory(log *history.Log) Option {
	return func(e *Engine) {
		if log != nil {
			e.history = log
		}
	}
}

// WithMetrics records session counters into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// NewEngine creates an engine in the initial state with an empty history.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:   NewState(),
		history: history.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result reports what one Apply did.
type Result struct {
	// Display is the display string after the event.
	Display string `json:"display" yaml:"display"`
	// Recorded is the history entry appended by the event, if any.
	Recorded string `json:"recorded,omitempty" yaml:"recorded,omitempty"`
	// Failure is set when the event ended in the error state.
	Failure FailureKind `json:"failure,omitempty" yaml:"failure,omitempty"`
	// Ignored is true when the event was a no-op.
	Ignored bool `json:"ignored" yaml:"ignored"`
}

// Apply processes one event.
func (e *Engine) Apply(ev Event) Result {
	t := Step(e.state, ev)
	e.state = t.State

	if t.Entry != "" {
		e.history.Record(t.Entry)
		e.metrics.IncCalculation()
	}
	switch t.Failure {
	case FailureDivisionByZero:
		e.metrics.IncDivisionByZero()
	case FailureInvalidResult:
		e.metrics.IncInvalidResult()
	case FailureNone:
	}
	if _, ok := ev.(Clear); ok {
		e.metrics.IncClear()
	}
	e.metrics.IncEvent(EventKind(ev), t.Ignored)

	return Result{
		Display:  e.state.Current,
		Recorded: t.Entry,
		Failure:  t.Failure,
		Ignored:  t.Ignored,
	}
}

// ApplyAll processes events in order and returns the last result.
func (e *Engine) ApplyAll(events []Event) Result {
	res := Result{Display: e.Display(), Ignored: true}
	for _, ev := range events {
		res = e.Apply(ev)
	}
	return res
}

// Display returns the current display string.
func (e *Engine) Display() string {
	return e.state.Current
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// Pending returns the pending "<operand> <operator>" expression, or empty
// when no operator is pending.
func (e *Engine) Pending() string {
	if !e.state.Pending() {
		return ""
	}
	return e.state.Previous + " " + e.state.Op.String()
}

// History returns the history entries, oldest first.
func (e *Engine) History() []string {
	return e.history.Entries()
}

// ClearHistory empties the history without touching the calculator state.
func (e *Engine) ClearHistory() {
	e.history.Clear()
	e.metrics.IncHistoryClear()
}

// Restore replaces the history with persisted entries (oldest first).
func (e *Engine) Restore(entries []string) {
	e.history.Replace(entries)
}

// EventKind returns the metric name of an event kind.
func EventKind(ev Event) string {
	switch ev.(type) {
	case Digit:
		return "digit"
	case Decimal:
		return "decimal"
	case OperatorEvent:
		return "operator"
	case Equals:
		return "equals"
	case Clear:
		return "clear"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

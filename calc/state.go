package calc

import (
	"fmt"
	"strings"
)

// ErrorDisplay is the display sentinel shown after a failed operation.
const ErrorDisplay = "Error"

// State is the calculator state for one session.
//
// Invariants: Current holds a numeric literal of at most MaxDigits entered
// characters with at most one decimal point, or ErrorDisplay. Op is OpNone
// exactly when Previous is empty. ErrorState implies no pending operation.
type State struct {
	// Current is the operand being entered or the last computed result.
	Current string `json:"current_value" yaml:"current_value"`
	// Previous is the left-hand operand captured when Op was chosen.
	Previous string `json:"previous_value,omitempty" yaml:"previous_value,omitempty"`
	// Op is the pending operator.
	Op Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	// EntryMode means the next digit starts a fresh operand.
	EntryMode bool `json:"entry_mode" yaml:"entry_mode"`
	// ErrorState blocks every event except Clear.
	ErrorState bool `json:"error_state" yaml:"error_state"`
}

// NewState returns the initial state: display "0", nothing pending.
func NewState() State {
	return State{Current: "0"}
}

// Pending reports whether an operator is waiting for its second operand.
func (s State) Pending() bool {
	return s.Op != OpNone
}

// Transition is the outcome of applying one event to a state.
type Transition struct {
	// State is the next state.
	State State
	// Entry is the history entry produced by a completed calculation, or
	// empty when the event completed none.
	Entry string
	// Failure is set when the event ended in the error state.
	Failure FailureKind
	// Ignored is true when the event left the state untouched.
	Ignored bool
}

// Step applies ev to s and returns the resulting transition. It never
// mutates its input and never fails: arithmetic failures become the error
// state, and events that are not valid in the current state are ignored.
func Step(s State, ev Event) Transition {
	if _, ok := ev.(Clear); ok {
		return Transition{State: NewState()}
	}
	if s.ErrorState {
		return ignore(s)
	}

	switch e := ev.(type) {
	case Digit:
		return stepDigit(s, e)
	case Decimal:
		return stepDecimal(s)
	case OperatorEvent:
		return stepOperator(s, e)
	case Equals:
		return stepEquals(s)
	case Delete:
		return stepDelete(s)
	default:
		return ignore(s)
	}
}

func stepDigit(s State, e Digit) Transition {
	if e.Value > 9 {
		return ignore(s)
	}
	d := string(rune('0' + e.Value))

	switch {
	case s.EntryMode:
		s.Current = d
		s.EntryMode = false
	case len(s.Current) >= MaxDigits:
		return ignore(s)
	case s.Current == "0":
		s.Current = d
	default:
		s.Current += d
	}
	return Transition{State: s}
}

func stepDecimal(s State) Transition {
	if s.EntryMode {
		s.Current = "0."
		s.EntryMode = false
		return Transition{State: s}
	}
	if strings.Contains(s.Current, ".") || len(s.Current) >= MaxDigits {
		return ignore(s)
	}
	s.Current += "."
	return Transition{State: s}
}

func stepOperator(s State, e OperatorEvent) Transition {
	if e.Op == OpNone {
		return ignore(s)
	}

	var entry string
	if s.Pending() && !s.EntryMode {
		// Chain: evaluate left to right before taking the new operator.
		t := evaluate(s)
		if t.Failure != FailureNone {
			return t
		}
		s, entry = t.State, t.Entry
	}

	s.Op = e.Op
	s.Previous = s.Current
	s.EntryMode = true
	return Transition{State: s, Entry: entry}
}

func stepEquals(s State) Transition {
	// Nothing to do without a pending operator and a second operand.
	if !s.Pending() || s.EntryMode {
		return ignore(s)
	}
	return evaluate(s)
}

func stepDelete(s State) Transition {
	if s.EntryMode || s.Current == "0" {
		return ignore(s)
	}
	s.Current = s.Current[:len(s.Current)-1]
	if s.Current == "" {
		s.Current = "0"
	}
	return Transition{State: s}
}

// evaluate applies the pending operator of s.
func evaluate(s State) Transition {
	result, err := Compute(s.Previous, s.Current, s.Op)
	if err != nil {
		return Transition{
			State:   State{Current: ErrorDisplay, ErrorState: true},
			Failure: failureKind(err),
		}
	}

	display := Format(result)
	return Transition{
		State: State{Current: display, EntryMode: true},
		Entry: fmt.Sprintf("%s %s %s = %s", s.Previous, s.Op, s.Current, display),
	}
}

func ignore(s State) Transition {
	return Transition{State: s, Ignored: true}
}

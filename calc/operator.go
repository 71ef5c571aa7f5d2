// Package calc implements the calculator engine: a small state machine that
// turns a stream of key events into a display value and history entries.
//
// Transitions are pure functions of (State, Event). The Engine type owns one
// State for a session together with its bounded history log.
package calc

import "fmt"

// Operator is a pending binary operator.
type Operator int

// Operators. OpNone marks the absence of a pending operator.
const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the display symbol used in history entries.
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	case OpNone:
		return ""
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// ParseOperator maps a symbol to an Operator.
// ASCII aliases are accepted for multiplication (*, x) and division (/).
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSubtract, nil
	case "×", "*", "x", "X":
		return OpMultiply, nil
	case "÷", "/":
		return OpDivide, nil
	default:
		return OpNone, fmt.Errorf("unknown operator: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so operators render as
// symbols in json and yaml output.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

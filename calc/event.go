package calc

import "fmt"

// Event is one calculator input. The set of events is closed: only the
// types declared in this file implement it.
type Event interface {
	fmt.Stringer
	isEvent()
}

// Digit enters one decimal digit (0-9).
type Digit struct {
	Value byte
}

// Decimal enters a decimal point.
type Decimal struct{}

// OperatorEvent selects a pending binary operator.
type OperatorEvent struct {
	Op Operator
}

// Equals applies the pending operator.
type Equals struct{}

// Clear resets the calculator. History survives.
type Clear struct{}

// Delete removes the last entered character.
type Delete struct{}

func (Digit) isEvent()         {}
func (Decimal) isEvent()       {}
func (OperatorEvent) isEvent() {}
func (Equals) isEvent()        {}
func (Clear) isEvent()         {}
func (Delete) isEvent()        {}

func (d Digit) String() string         { return fmt.Sprintf("digit(%d)", d.Value) }
func (Decimal) String() string         { return "decimal" }
func (e OperatorEvent) String() string { return "operator(" + e.Op.String() + ")" }
func (Equals) String() string          { return "equals" }
func (Clear) String() string           { return "clear" }
func (Delete) String() string          { return "delete" }

// NewDigit returns a Digit event for d, or an error if d is not 0-9.
func NewDigit(d int) (Digit, error) {
	if d < 0 || d > 9 {
		return Digit{}, fmt.Errorf("digit out of range: %d", d)
	}
	return Digit{Value: byte(d)}, nil
}

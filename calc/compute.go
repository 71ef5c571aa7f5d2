package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// FailureKind classifies an arithmetic failure.
type FailureKind int

const (
	// FailureNone means the event did not fail.
	FailureNone FailureKind = iota
	// FailureDivisionByZero means the divisor of ÷ was exactly zero.
	FailureDivisionByZero
	// FailureInvalidResult means the computed result was not finite.
	FailureInvalidResult
)

// String returns the failure kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureDivisionByZero:
		return "division_by_zero"
	case FailureInvalidResult:
		return "invalid_result"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinel errors for errors.Is checks against *Error.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidResult  = errors.New("result is not finite")
)

// Error is an arithmetic failure with its classification.
type Error struct {
	Kind FailureKind
	Op   Operator
	A, B string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.A, e.Op, e.B, e.sentinel())
}

// Is reports whether target is the sentinel for this failure kind.
func (e *Error) Is(target error) bool {
	return e.sentinel() == target
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case FailureDivisionByZero:
		return ErrDivisionByZero
	case FailureInvalidResult:
		return ErrInvalidResult
	default:
		return nil
	}
}

// Compute applies op to the decimal operands a and b as IEEE-754 doubles.
// It fails with FailureDivisionByZero when dividing by exactly zero and
// with FailureInvalidResult when the result is infinite or NaN.
func Compute(a, b string, op Operator) (float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, fmt.Errorf("parse left operand %q: %w", a, err)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, fmt.Errorf("parse right operand %q: %w", b, err)
	}

	var result float64
	switch op {
	case OpAdd:
		result = x + y
	case OpSubtract:
		result = x - y
	case OpMultiply:
		result = x * y
	case OpDivide:
		if y == 0 {
			return 0, &Error{Kind: FailureDivisionByZero, Op: op, A: a, B: b}
		}
		result = x / y
	default:
		return 0, fmt.Errorf("no operator to apply: %v", op)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, &Error{Kind: FailureInvalidResult, Op: op, A: a, B: b}
	}
	return result, nil
}

// failureKind extracts the failure kind from a Compute error. Any error that
// is not an *Error (an unparsable operand) counts as an invalid result.
func failureKind(err error) FailureKind {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr.Kind
	}
	return FailureInvalidResult
}

package tui

import "github.com/pithecene-io/abacus/calc"

// button is one keypad key.
type button struct {
	label    string
	event    calc.Event
	operator bool
}

// keypad is the button grid, row by row. Rows may be shorter than others.
var keypad = [][]button{
	{
		{label: "C", event: calc.Clear{}},
		{label: "⌫", event: calc.Delete{}},
		{label: "÷", event: calc.OperatorEvent{Op: calc.OpDivide}, operator: true},
		{label: "×", event: calc.OperatorEvent{Op: calc.OpMultiply}, operator: true},
	},
	{digitButton(7), digitButton(8), digitButton(9), {label: "-", event: calc.OperatorEvent{Op: calc.OpSubtract}, operator: true}},
	{digitButton(4), digitButton(5), digitButton(6), {label: "+", event: calc.OperatorEvent{Op: calc.OpAdd}, operator: true}},
	{digitButton(1), digitButton(2), digitButton(3), {label: "=", event: calc.Equals{}, operator: true}},
	{digitButton(0), {label: ".", event: calc.Decimal{}}},
}

func digitButton(d byte) button {
	return button{label: string('0' + d), event: calc.Digit{Value: d}}
}

// focus is a position on the keypad.
type focus struct {
	row, col int
}

// move returns f shifted by (dr, dc), clamped to the grid.
func (f focus) move(dr, dc int) focus {
	f.row = clamp(f.row+dr, 0, len(keypad)-1)
	f.col = clamp(f.col+dc, 0, len(keypad[f.row])-1)
	return f
}

func (f focus) button() button {
	return keypad[f.row][f.col]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

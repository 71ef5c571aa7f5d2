package calc

import (
	"fmt"
	"strings"
)

// Named keys, matching browser and terminal key names.
const (
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
)

// ParseKey maps one key to an event.
//
// Digits and "." map to themselves, "+", "-", "*", "x", "×", "/", "÷" to
// operators, "=" and Enter to Equals, Escape and "c" to Clear, and
// Backspace to Delete. Key names are matched case-insensitively.
func ParseKey(key string) (Event, error) {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return Digit{Value: key[0] - '0'}, nil
	}

	switch strings.ToLower(key) {
	case ".", ",":
		return Decimal{}, nil
	case "=", "enter", "return":
		return Equals{}, nil
	case "escape", "esc", "c":
		return Clear{}, nil
	case "backspace", "delete", "del":
		return Delete{}, nil
	}

	if op, err := ParseOperator(key); err == nil {
		return OperatorEvent{Op: op}, nil
	}
	return nil, fmt.Errorf("unmapped key: %q", key)
}

// ParseKeys maps command-line tokens to events. A token that names a key
// (Enter, Escape, Backspace, ...) is one event; any other token is split
// into its characters, so "12+3=" yields five events. Whitespace is skipped.
func ParseKeys(tokens []string) ([]Event, error) {
	var events []Event
	for _, tok := range tokens {
		if len([]rune(tok)) > 1 {
			if ev, err := ParseKey(tok); err == nil {
				events = append(events, ev)
				continue
			}
		}
		for _, r := range tok {
			if r == ' ' || r == '\t' {
				continue
			}
			ev, err := ParseKey(string(r))
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

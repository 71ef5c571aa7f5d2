// Package prefs holds the user preferences of the calculator.
//
// Preferences change how the terminal front end looks and takes input.
// They never change calculation results.
package prefs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// MaxDecimalPlaces bounds Preferences.DecimalPlaces.
const MaxDecimalPlaces = 10

// Preferences are the persisted user settings.
// Field names on the wire follow the historical calculator_preferences payload.
type Preferences struct {
	Theme              string `json:"theme" msgpack:"theme" yaml:"theme"`
	DecimalPlaces      int    `json:"decimalPlaces" msgpack:"decimalPlaces" yaml:"decimal_places"`
	ShowHistory        bool   `json:"showHistory" msgpack:"showHistory" yaml:"show_history"`
	UseKeyboardInput   bool   `json:"useKeyboardInput" msgpack:"useKeyboardInput" yaml:"use_keyboard_input"`
	ScientificNotation bool   `json:"scientificNotation" msgpack:"scientificNotation" yaml:"scientific_notation"`
}

// Defaults returns the first-run preferences.
func Defaults() Preferences {
	return Preferences{
		Theme:              ThemeLight,
		DecimalPlaces:      8,
		ShowHistory:        true,
		UseKeyboardInput:   true,
		ScientificNotation: false,
	}
}

// Update is a partial change. Nil fields are left untouched.
type Update struct {
	Theme              *string
	DecimalPlaces      *int
	ShowHistory        *bool
	UseKeyboardInput   *bool
	ScientificNotation *bool
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Theme == nil && u.DecimalPlaces == nil && u.ShowHistory == nil &&
		u.UseKeyboardInput == nil && u.ScientificNotation == nil
}

// ErrInvalidPreference is returned by Validate and ParseUpdate.
var ErrInvalidPreference = errors.New("invalid preference")

// Validate checks an update without applying it.
func (u Update) Validate() error {
	if u.Theme != nil && !validTheme(*u.Theme) {
		return fmt.Errorf("%w: theme must be %q or %q, got %q", ErrInvalidPreference, ThemeLight, ThemeDark, *u.Theme)
	}
	if u.DecimalPlaces != nil && !validDecimalPlaces(*u.DecimalPlaces) {
		return fmt.Errorf("%w: decimal places must be 0..%d, got %d", ErrInvalidPreference, MaxDecimalPlaces, *u.DecimalPlaces)
	}
	return nil
}

// Apply merges u into p. An update with any invalid field is rejected as a
// whole: p is returned unchanged with ok=false.
func Apply(p Preferences, u Update) (Preferences, bool) {
	if u.Validate() != nil {
		return p, false
	}
	if u.Theme != nil {
		p.Theme = *u.Theme
	}
	if u.DecimalPlaces != nil {
		p.DecimalPlaces = *u.DecimalPlaces
	}
	if u.ShowHistory != nil {
		p.ShowHistory = *u.ShowHistory
	}
	if u.UseKeyboardInput != nil {
		p.UseKeyboardInput = *u.UseKeyboardInput
	}
	if u.ScientificNotation != nil {
		p.ScientificNotation = *u.ScientificNotation
	}
	return p, true
}

// ToggleTheme switches between the light and dark themes.
func ToggleTheme(p Preferences) Preferences {
	if p.Theme == ThemeDark {
		p.Theme = ThemeLight
	} else {
		p.Theme = ThemeDark
	}
	return p
}

// Normalize replaces out-of-range stored values with their defaults.
// It reports whether anything was repaired.
func Normalize(p Preferences) (Preferences, bool) {
	def := Defaults()
	repaired := false
	if !validTheme(p.Theme) {
		p.Theme = def.Theme
		repaired = true
	}
	if !validDecimalPlaces(p.DecimalPlaces) {
		p.DecimalPlaces = def.DecimalPlaces
		repaired = true
	}
	return p, repaired
}

// ParseUpdate builds an Update from key=value assignments as given on the
// command line. Keys accept the wire name or its snake_case form.
func ParseUpdate(assignments []string) (Update, error) {
	var u Update
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return Update{}, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidPreference, a)
		}
		key = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", ""))
		value = strings.TrimSpace(value)

		switch key {
		case "theme":
			v := strings.ToLower(value)
			u.Theme = &v
		case "decimalplaces":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Update{}, fmt.Errorf("%w: decimal places: %q is not an integer", ErrInvalidPreference, value)
			}
			u.DecimalPlaces = &n
		case "showhistory":
			b, err := parseBool(key, value)
			if err != nil {
				return Update{}, err
			}
			u.ShowHistory = &b
		case "usekeyboardinput":
			b, err := parseBool(key, value)
			if err != nil {
				return Update{}, err
			}
			u.UseKeyboardInput = &b
		case "scientificnotation":
			b, err := parseBool(key, value)
			if err != nil {
				return Update{}, err
			}
			u.ScientificNotation = &b
		default:
			return Update{}, fmt.Errorf("%w: unknown key %q", ErrInvalidPreference, key)
		}
	}
	return u, u.Validate()
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidPreference, key, value)
	}
	return b, nil
}

func validTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

func validDecimalPlaces(n int) bool {
	return n >= 0 && n <= MaxDecimalPlaces
}

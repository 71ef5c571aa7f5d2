// Package tui provides the interactive Bubble Tea calculator for the abacus CLI.
//
// The model owns one calc.Engine for the session. Persistence happens
// through a Sink, invoked from tea.Cmds so the update loop never blocks on
// storage.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/abacus/prefs"
)

// palette is one theme's colors.
type palette struct {
	primary   lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	error     lipgloss.Color
	operator  lipgloss.Color
	highlight lipgloss.Color
	border    lipgloss.Color
}

var (
	lightPalette = palette{
		primary:   lipgloss.Color("#7C3AED"), // Purple
		text:      lipgloss.Color("#111827"),
		muted:     lipgloss.Color("#6B7280"), // Gray
		error:     lipgloss.Color("#DC2626"), // Red
		operator:  lipgloss.Color("#D97706"), // Amber
		highlight: lipgloss.Color("#3B82F6"), // Blue
		border:    lipgloss.Color("#D1D5DB"),
	}
	darkPalette = palette{
		primary:   lipgloss.Color("#A78BFA"),
		text:      lipgloss.Color("#F9FAFB"),
		muted:     lipgloss.Color("#9CA3AF"),
		error:     lipgloss.Color("#F87171"),
		operator:  lipgloss.Color("#FBBF24"),
		highlight: lipgloss.Color("#60A5FA"),
		border:    lipgloss.Color("#4B5563"),
	}
)

// Styles are the lipgloss styles for one theme.
type Styles struct {
	Title         lipgloss.Style
	Display       lipgloss.Style
	DisplayError  lipgloss.Style
	Pending       lipgloss.Style
	Button        lipgloss.Style
	OperatorKey   lipgloss.Style
	FocusedButton lipgloss.Style
	History       lipgloss.Style
	HistoryTitle  lipgloss.Style
	HistoryEntry  lipgloss.Style
	Muted         lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
}

// StylesFor returns the styles of the named theme. Unknown names fall back
// to the light theme.
func StylesFor(theme string) Styles {
	p := lightPalette
	if theme == prefs.ThemeDark {
		p = darkPalette
	}

	button := lipgloss.NewStyle().
		Foreground(p.text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Width(5).
		Align(lipgloss.Center)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			MarginBottom(1),
		Display: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1).
			Width(29).
			Align(lipgloss.Right),
		DisplayError: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.error).
			Padding(0, 1).
			Width(29).
			Align(lipgloss.Right),
		Pending: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(31).
			Align(lipgloss.Right),
		Button:      button,
		OperatorKey: button.Foreground(p.operator),
		FocusedButton: button.
			Bold(true).
			Foreground(p.highlight).
			BorderForeground(p.highlight),
		History: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 2).
			MarginLeft(2).
			Width(28),
		HistoryTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		HistoryEntry: lipgloss.NewStyle().
			Foreground(p.text),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
		Status: lipgloss.NewStyle().
			Foreground(p.muted).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().
			Foreground(p.error).
			MarginTop(1),
	}
}

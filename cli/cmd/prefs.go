package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/abacus/cli/render"
	"github.com/pithecene-io/abacus/prefs"
)

// PrefsCommand returns the prefs command with subcommands.
func PrefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show or change the stored preferences",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the stored preferences",
				Flags:  outputFlags(),
				Action: prefsShowAction,
			},
			{
				Name:      "set",
				Usage:     "Change preferences",
				ArgsUsage: "KEY=VALUE... (theme, decimal_places, show_history, use_keyboard_input, scientific_notation)",
				Flags:     outputFlags(),
				Action:    prefsSetAction,
			},
			{
				Name:   "reset",
				Usage:  "Restore the default preferences",
				Flags:  outputFlags(),
				Action: prefsResetAction,
			},
			{
				Name:   "toggle-theme",
				Usage:  "Switch between the light and dark themes",
				Flags:  outputFlags(),
				Action: prefsToggleThemeAction,
			},
		},
	}
}

// withPrefs opens a session, loads the stored preferences, and renders the
// preferences returned by fn.
func withPrefs(c *cli.Context, fn func(*session, prefs.Preferences) (prefs.Preferences, error)) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	s, err := openSession(c, sessionOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	current, err := s.repo.LoadPreferences(c.Context)
	if err != nil {
		return storageExit(err)
	}
	next, err := fn(s, current)
	if err != nil {
		return err
	}
	return r.Render(next)
}

func prefsShowAction(c *cli.Context) error {
	return withPrefs(c, func(_ *session, p prefs.Preferences) (prefs.Preferences, error) {
		return p, nil
	})
}

func prefsSetAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("prefs set requires at least one KEY=VALUE", exitUsage)
	}
	update, err := prefs.ParseUpdate(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	return withPrefs(c, func(s *session, p prefs.Preferences) (prefs.Preferences, error) {
		next, ok := prefs.Apply(p, update)
		if !ok {
			return p, cli.Exit(fmt.Sprintf("rejected update: %v", update.Validate()), exitUsage)
		}
		if err := s.repo.SavePreferences(c.Context, next); err != nil {
			return p, storageExit(err)
		}
		return next, nil
	})
}

func prefsResetAction(c *cli.Context) error {
	return withPrefs(c, func(s *session, p prefs.Preferences) (prefs.Preferences, error) {
		defaults, err := s.repo.ResetPreferences(c.Context)
		if err != nil {
			return p, storageExit(err)
		}
		return defaults, nil
	})
}

func prefsToggleThemeAction(c *cli.Context) error {
	return withPrefs(c, func(s *session, p prefs.Preferences) (prefs.Preferences, error) {
		next := prefs.ToggleTheme(p)
		if err := s.repo.SavePreferences(c.Context, next); err != nil {
			return p, storageExit(err)
		}
		return next, nil
	})
}

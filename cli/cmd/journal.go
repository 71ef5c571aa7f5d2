package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/abacus/cli/render"
	"github.com/pithecene-io/abacus/journal"
)

// JournalCommand returns the journal command with subcommands.
func JournalCommand() *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Browse the journal of completed calculations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List journal entries, newest first",
				Flags: outputFlags(
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to return",
						Value: journal.DefaultListLimit,
					},
				),
				Action: journalListAction,
			},
		},
	}
}

func journalListAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if c.Int("limit") < 0 {
		return cli.Exit("--limit must not be negative", exitUsage)
	}

	s, err := openSession(c, sessionOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if s.journal == nil {
		return cli.Exit("journal is disabled (journal.enabled=false or --no-journal)", exitUsage)
	}

	entries, err := s.journal.List(c.Context, c.Int("limit"))
	if err != nil {
		return storageExit(err)
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return r.Render(entries)
}

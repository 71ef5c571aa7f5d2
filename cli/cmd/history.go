package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/abacus/cli/render"
)

// StatusResponse acknowledges a command that changes stored state.
type StatusResponse struct {
	Status string `json:"status" yaml:"status"`
}

// HistoryCommand returns the history command with subcommands.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show or clear the stored calculation history",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List stored history entries, newest first",
				Flags:  outputFlags(),
				Action: historyListAction,
			},
			{
				Name:   "clear",
				Usage:  "Delete the stored history",
				Flags:  outputFlags(),
				Action: historyClearAction,
			},
		},
	}
}

func historyListAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	s, err := openSession(c, sessionOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	entries, err := s.repo.LoadHistory(c.Context)
	if err != nil {
		return storageExit(err)
	}

	newest := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		newest = append(newest, entries[i])
	}
	return r.Render(newest)
}

func historyClearAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	s, err := openSession(c, sessionOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.repo.ClearHistory(c.Context); err != nil {
		return storageExit(err)
	}
	s.logger.Info("history cleared", nil)
	return r.Render(StatusResponse{Status: "history cleared"})
}

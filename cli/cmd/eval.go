package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/abacus/calc"
	"github.com/pithecene-io/abacus/cli/render"
	"github.com/pithecene-io/abacus/metrics"
)

// EvalResponse is the response for the eval command.
type EvalResponse struct {
	Display  string           `json:"display" yaml:"display"`
	Pending  string           `json:"pending,omitempty" yaml:"pending,omitempty"`
	Failure  string           `json:"failure,omitempty" yaml:"failure,omitempty"`
	Recorded []string         `json:"recorded" yaml:"recorded"`
	History  []string         `json:"history" yaml:"history"`
	State    calc.State       `json:"state" yaml:"state"`
	Metrics  metrics.Snapshot `json:"metrics" yaml:"metrics"`
}

// evalSummary is the "Result" section of table output.
type evalSummary struct {
	Display string `json:"display"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

// EvalCommand returns the eval command.
// Keys are applied in order; by default nothing is read from or written to
// storage.
func EvalCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Apply a key sequence to the calculator and show the result",
		ArgsUsage: "KEYS... (e.g. 12+3= or 7 x 6 Enter)",
		Flags: outputFlags(
			&cli.BoolFlag{
				Name:  "persist",
				Usage: "Start from the stored history and save the results",
			},
		),
		Action: evalAction,
	}
}

func evalAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	if c.NArg() == 0 {
		return cli.Exit("eval requires at least one key", exitUsage)
	}
	events, err := calc.ParseKeys(c.Args().Slice())
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid keys: %v", err), exitUsage)
	}

	persist := c.Bool("persist")
	s, err := openSession(c, sessionOptions{ephemeral: !persist})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	engine, err := s.newEngine(c.Context)
	if err != nil {
		return err
	}

	var recorded []string
	var last calc.Result
	for _, ev := range events {
		last = engine.Apply(ev)
		if last.Recorded != "" {
			recorded = append(recorded, last.Recorded)
		}
	}

	if persist && len(recorded) > 0 {
		if err := s.SaveHistory(c.Context, engine.History()); err != nil {
			return storageExit(err)
		}
		for _, entry := range recorded {
			if err := s.RecordCalculation(c.Context, entry); err != nil {
				return storageExit(err)
			}
		}
	}

	resp := EvalResponse{
		Display:  engine.Display(),
		Pending:  engine.Pending(),
		Recorded: nonNil(recorded),
		History:  nonNil(engine.History()),
		State:    engine.State(),
		Metrics:  s.metrics.Snapshot(),
	}
	if last.Failure != calc.FailureNone {
		resp.Failure = last.Failure.String()
	}

	s.logger.Debug("eval complete", map[string]any{
		"events":   len(events),
		"recorded": len(recorded),
		"display":  resp.Display,
	})

	if r.Format() != render.FormatTable {
		return r.Render(resp)
	}
	return renderEvalTable(r, resp)
}

func renderEvalTable(r *render.Renderer, resp EvalResponse) error {
	r.Section("Result")
	if err := r.Render(evalSummary{Display: resp.Display, Pending: resp.Pending, Failure: resp.Failure}); err != nil {
		return err
	}
	r.Section("History")
	if err := r.Render(resp.History); err != nil {
		return err
	}
	r.Section("Session")
	return r.Render(resp.Metrics)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

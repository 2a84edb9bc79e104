package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/nest"
	"github.com/colonyops/nest/pkg/iojson"
)

// shortIDLength is how much of a checklist ID the table shows. Any unique
// prefix is accepted wherever an ID is expected.
const shortIDLength = 8

type LsCmd struct {
	flags *Flags
	app   *nest.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *nest.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List all checklists",
		UsageText: "nest ls [--json]",
		Description: `Displays a table of all checklists, most recently updated first, with
their completion progress.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	summaries, err := cmd.app.Checklists.List(ctx)
	if err != nil {
		return fmt.Errorf("list checklists: %w", err)
	}

	out := c.Root().Writer

	if len(summaries) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No checklists found. Run 'nest new <title>' to create one\n")
		}
		return nil
	}

	if cmd.jsonOutput {
		for _, s := range summaries {
			if err := iojson.WriteLine(out, s); err != nil {
				return fmt.Errorf("encode checklist: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tDONE")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d/%d\n", shortID(s.ID), s.Title, s.Completed, s.Total)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

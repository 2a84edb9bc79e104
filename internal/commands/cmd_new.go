package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/core/validate"
	"github.com/colonyops/nest/internal/nest"
	"github.com/colonyops/nest/pkg/iojson"
)

type NewCmd struct {
	flags *Flags
	app   *nest.App

	// flags
	jsonOutput bool
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags, app *nest.App) *NewCmd {
	return &NewCmd{flags: flags, app: app}
}

// Register adds the new and rename commands to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "new",
			Usage:     "Create an empty checklist",
			UsageText: "nest new [--json] <title>",
			Description: `Creates an empty checklist and prints its ID.

When the title is omitted and stdin is a terminal, an interactive form
prompts for it.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output the created checklist as JSON",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.run,
		},
		&cli.Command{
			Name:          "rename",
			Usage:         "Change the title of a checklist",
			UsageText:     "nest rename <id> <title>",
			ShellComplete: ChecklistIDCompleter(cmd.app),
			Action:        cmd.runRename,
		},
	)

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	title := strings.Join(c.Args().Slice(), " ")

	if strings.TrimSpace(title) == "" && isTerminal(os.Stdin) {
		if err := cmd.runForm(&title); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	created, err := cmd.app.Checklists.Create(ctx, title)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, created)
	}

	newPrinter(out).Successf("Created %q (%s)", created.Title, created.ID)
	return nil
}

func (cmd *NewCmd) runForm(title *string) error {
	return huh.NewInput().
		Title("Checklist title").
		Validate(validate.Title).
		Value(title).
		Run()
}

func (cmd *NewCmd) runRename(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: nest rename <id> <title>")
	}

	title := strings.Join(c.Args().Slice()[1:], " ")
	renamed, err := cmd.app.Checklists.Rename(ctx, c.Args().Get(0), title)
	if err != nil {
		return err
	}

	newPrinter(c.Root().Writer).Successf("Renamed %s to %q", renamed.ID, renamed.Title)
	return nil
}

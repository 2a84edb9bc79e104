package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/nest"
)

type RmCmd struct {
	flags *Flags
	app   *nest.App

	// flags
	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *nest.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a checklist",
		UsageText: "nest rm [--yes] <id>",
		Description: `Deletes a checklist and all of its items.

Asks for confirmation when stdin is a terminal. Use --yes to skip the prompt
in scripts.`,
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "delete without asking",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: nest rm <id>")
	}

	cl, err := cmd.app.Checklists.Get(ctx, c.Args().Get(0))
	if err != nil {
		return err
	}

	p := newPrinter(c.Root().Writer)

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("Delete %q?", cl.Title), fmt.Sprintf("%d item(s) will be removed", len(cl.Items)))
		if errors.Is(err, errNotConfirmed) {
			p.Infof("Delete cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("refusing to delete %q without confirmation; pass --yes", cl.Title)
		}
	}

	if err := cmd.app.Checklists.Delete(ctx, cl.ID); err != nil {
		return err
	}

	p.Successf("Deleted %q", cl.Title)
	return nil
}

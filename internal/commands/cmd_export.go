package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/core/markdown"
	"github.com/colonyops/nest/internal/nest"
)

type ExportCmd struct {
	flags *Flags
	app   *nest.App

	// flags
	meta        bool
	frontmatter bool
	output      string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *nest.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Write a checklist as markdown",
		UsageText: "nest export [options] <id>",
		Description: `Writes a checklist as a markdown task list to stdout or to --output.

Use --meta to keep item IDs, priorities, due dates and collapse state in
HTML comments so that 'nest import' restores them exactly.`,
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "meta",
				Usage:       "embed item metadata comments",
				Destination: &cmd.meta,
			},
			&cli.BoolFlag{
				Name:        "frontmatter",
				Usage:       "prepend YAML front matter with the checklist ID and title",
				Destination: &cmd.frontmatter,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: nest export <id>")
	}

	md, err := cmd.app.Checklists.Export(ctx, c.Args().Get(0), markdown.RenderOptions{
		Frontmatter: cmd.frontmatter,
		Metadata:    cmd.meta,
	})
	if err != nil {
		return err
	}

	if cmd.output == "" {
		_, err := fmt.Fprint(c.Root().Writer, md)
		return err
	}

	if err := os.WriteFile(cmd.output, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/nest"
	"github.com/colonyops/nest/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *nest.App
	input iojson.FileReader[checklist.Checklist]

	// flags
	title      string
	format     string
	jsonOutput bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *nest.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Create a checklist from a markdown or JSON file",
		UsageText: "nest import [options] [file]",
		Description: `Reads a markdown task list and stores it as a new checklist. Reads from
stdin when no file is given.

Bullet nesting becomes item indentation (two spaces or one tab per level),
"- [x]" marks an item completed and the first "# " heading becomes the title.
Metadata comments written by 'nest export --meta' are restored.

Use --format json to import the output of 'nest show --json'.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "title for the checklist (overrides the document heading)",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "input format (markdown, json)",
				Value:       "markdown",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created checklist as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() > 0 {
		cmd.input.SetPath(c.Args().Get(0))
	}

	data, err := cmd.input.ReadBytes()
	if err != nil {
		return err
	}

	var created checklist.Checklist
	switch cmd.format {
	case "markdown", "md":
		created, err = cmd.app.Checklists.Import(ctx, string(data), cmd.title)
	case "json":
		var src checklist.Checklist
		if err := json.Unmarshal(data, &src); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		created, err = cmd.app.Checklists.ImportChecklist(ctx, src, cmd.title)
	default:
		return fmt.Errorf("unknown format %q (available: markdown, json)", cmd.format)
	}
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, created)
	}

	newPrinter(out).Successf("Imported %q with %d item(s) (%s)", created.Title, len(created.Items), created.ID)
	return nil
}

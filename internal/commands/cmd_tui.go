package commands

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/nest"
	"github.com/colonyops/nest/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *nest.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *nest.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Edit a checklist interactively",
		UsageText: "nest tui [id]",
		Description: `Opens the interactive editor. Without an id the checklist opened last is
resumed, falling back to the most recently updated one.

Press ? inside the editor for the key bindings.`,
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	cl, err := cmd.resolve(ctx, c.Args().First())
	if err != nil {
		return err
	}

	cmd.app.Checklists.RememberOpened(ctx, cl.ID)
	log.Debug().Str("checklist_id", cl.ID).Msg("opening editor")

	m := tui.New(tui.Deps{Service: cmd.app.Checklists}, cl)
	finalModel, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if model, ok := finalModel.(tui.Model); ok && model.Dirty() {
		newPrinter(c.Root().ErrWriter).Errorf("Quit with unsaved changes to %q", cl.Title)
	}
	return nil
}

// resolve picks the checklist to open: the given reference, then the last
// opened checklist, then the most recently updated one.
func (cmd *TuiCmd) resolve(ctx context.Context, ref string) (checklist.Checklist, error) {
	if ref != "" {
		return cmd.app.Checklists.Get(ctx, ref)
	}

	if id, ok := cmd.app.Checklists.LastOpened(ctx); ok {
		cl, err := cmd.app.Checklists.Get(ctx, id)
		switch {
		case err == nil:
			return cl, nil
		case !errors.Is(err, checklist.ErrNotFound):
			return checklist.Checklist{}, err
		}
		log.Debug().Str("checklist_id", id).Msg("last opened checklist is gone")
	}

	summaries, err := cmd.app.Checklists.List(ctx)
	if err != nil {
		return checklist.Checklist{}, fmt.Errorf("list checklists: %w", err)
	}
	if len(summaries) == 0 {
		return checklist.Checklist{}, errors.New("no checklists yet, run 'nest new <title>' to create one")
	}
	return cmd.app.Checklists.Get(ctx, summaries[0].ID)
}

package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/nest"
)

// ChecklistIDCompleter returns a ShellCompleteFunc that suggests checklist
// IDs, with their titles, as positional completions. Set this as the
// ShellComplete field on any cli.Command whose first argument is a checklist.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ChecklistIDCompleter(app *nest.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		summaries, err := app.Checklists.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, s := range summaries {
			_, _ = fmt.Fprintf(w, "%s:%s\n", s.ID, s.Title)
		}
	}
}

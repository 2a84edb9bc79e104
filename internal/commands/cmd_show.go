package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/markdown"
	"github.com/colonyops/nest/internal/core/styles"
	"github.com/colonyops/nest/internal/nest"
	"github.com/colonyops/nest/pkg/iojson"
)

const defaultRenderWidth = 80

type ShowCmd struct {
	flags *Flags
	app   *nest.App

	// flags
	all        bool
	render     bool
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *nest.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print a checklist",
		UsageText: "nest show [--all] [--render] [--json] <id>",
		Description: `Prints the items of a checklist with their list positions. Positions are
what the item commands accept.

Items under a collapsed parent are hidden unless --all is given.
--render prints the checklist as styled markdown.`,
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "include items hidden by collapsed parents",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "render",
				Aliases:     []string{"r"},
				Usage:       "render as markdown",
				Destination: &cmd.render,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the checklist as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: nest show <id>")
	}

	cl, err := cmd.app.Checklists.Get(ctx, c.Args().Get(0))
	if err != nil {
		return err
	}

	out := c.Root().Writer

	switch {
	case cmd.jsonOutput:
		return iojson.WriteLine(out, cl)
	case cmd.render:
		_, err := fmt.Fprint(out, renderMarkdown(cl, out))
		return err
	default:
		writeTree(newPrinter(out), cl, cmd.all)
		return nil
	}
}

// renderMarkdown styles the checklist with glamour when out is a terminal
// and returns plain markdown otherwise.
func renderMarkdown(cl checklist.Checklist, w io.Writer) string {
	md := markdown.Render(cl, markdown.RenderOptions{})
	if !isTerminal(w) {
		return md
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(terminalWidth(w, defaultRenderWidth)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return rendered
}

// writeTree prints one line per item: its 1-based position, indentation, a
// checkbox and the item's annotations.
func writeTree(p *printer, cl checklist.Checklist, all bool) {
	progress := cl.Progress()
	p.Printf("%s  %s", p.render(styles.TitleStyle, cl.Title), p.render(styles.ProgressStyle, fmt.Sprintf("%d/%d", progress.Completed, progress.Total)))

	if len(cl.Items) == 0 {
		p.Infof("No items. Add one with 'nest item add %s <text>'", shortID(cl.ID))
		return
	}

	indices := checklist.VisibleIndices(cl.Items)
	if all {
		indices = make([]int, len(cl.Items))
		for i := range cl.Items {
			indices[i] = i
		}
	}

	width := len(fmt.Sprint(len(cl.Items)))
	for _, i := range indices {
		p.Printf("%*d  %s", width, i+1, treeLine(p, cl.Items, i))
	}
}

func treeLine(p *printer, list checklist.List, i int) string {
	it := list[i]

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", it.Indent))

	stats := checklist.CompletionStats(list, i)
	box := styles.IconBox
	switch {
	case it.Completed:
		box = styles.IconBoxDone
	case stats.Completed > 0:
		box = styles.IconBoxPartly
	}
	b.WriteString(box)
	b.WriteString(" ")

	text := it.Text
	if it.Completed {
		text = p.render(styles.ItemDoneStyle, text)
	}
	b.WriteString(text)

	if marker := priorityMarker(p, it.Priority); marker != "" {
		b.WriteString(" " + marker)
	}
	if it.DueDate != nil {
		b.WriteString(" " + p.render(styles.DueStyle, "due "+it.DueDate.Format(time.DateOnly)))
	}
	if stats.Total > 0 {
		badge := fmt.Sprintf("(%d/%d)", stats.Completed, stats.Total)
		if it.Collapsed {
			badge = fmt.Sprintf("%s (%d/%d hidden)", styles.IconCollapsed, stats.Completed, stats.Total)
		}
		b.WriteString(" " + p.render(styles.ProgressStyle, badge))
	}
	return b.String()
}

func priorityMarker(p *printer, pr checklist.Priority) string {
	switch pr {
	case checklist.PriorityHigh:
		return p.render(styles.PriorityHighStyle, styles.IconPriorityHigh)
	case checklist.PriorityMedium:
		return p.render(styles.PriorityMediumStyle, styles.IconPriorityMedium)
	case checklist.PriorityLow:
		return p.render(styles.PriorityLowStyle, styles.IconPriorityLow)
	}
	return ""
}

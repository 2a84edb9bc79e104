package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/editor"
	"github.com/colonyops/nest/internal/nest"
)

type ItemCmd struct {
	flags *Flags
	app   *nest.App

	// add flags
	after  string
	indent int

	// toggle flags
	all bool

	// rm flags
	yes bool

	// edit flags
	text     string
	priority string
	due      string
	clearDue bool
}

// NewItemCmd creates a new item command
func NewItemCmd(flags *Flags, app *nest.App) *ItemCmd {
	return &ItemCmd{flags: flags, app: app}
}

// Register adds the item command group to the application
func (cmd *ItemCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "item",
		Usage: "Edit the items of a checklist",
		Description: `Item commands address items by their 1-based position as printed by
'nest show --all', or by item ID.

Every change goes through the same editing rules as the TUI: indents stay
within one level of the previous item, toggling a parent with --all updates
its whole subtree, and moves carry the subtree along.`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.toggleCmd(),
			cmd.indentCmd("indent", "Indent an item and its subtree", 1),
			cmd.indentCmd("outdent", "Outdent an item and its subtree", -1),
			cmd.collapseCmd(),
			cmd.mvCmd(),
			cmd.rmCmd(),
			cmd.editCmd(),
		},
	})

	return app
}

func (cmd *ItemCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:          "add",
		Usage:         "Add an item",
		UsageText:     "nest item add [--after N] [--indent N] <list> <text>",
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "after",
				Usage:       "insert after this item (default: append at the end)",
				Destination: &cmd.after,
			},
			&cli.IntFlag{
				Name:        "indent",
				Usage:       "nesting level, clamped to what the position allows",
				Destination: &cmd.indent,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *ItemCmd) toggleCmd() *cli.Command {
	return &cli.Command{
		Name:          "toggle",
		Usage:         "Toggle an item between open and done",
		UsageText:     "nest item toggle [--all] <list> <item>",
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "apply to the whole subtree",
				Destination: &cmd.all,
			},
		},
		Action: cmd.runToggle,
	}
}

func (cmd *ItemCmd) indentCmd(name, usage string, delta int) *cli.Command {
	return &cli.Command{
		Name:          name,
		Usage:         usage,
		UsageText:     fmt.Sprintf("nest item %s <list> <item>", name),
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.runIndent(ctx, c, delta)
		},
	}
}

func (cmd *ItemCmd) collapseCmd() *cli.Command {
	return &cli.Command{
		Name:          "collapse",
		Usage:         "Collapse or expand an item with children",
		UsageText:     "nest item collapse <list> <item>",
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Action:        cmd.runCollapse,
	}
}

func (cmd *ItemCmd) mvCmd() *cli.Command {
	return &cli.Command{
		Name:      "mv",
		Usage:     "Move an item and its subtree",
		UsageText: "nest item mv <list> <from> <to>",
		Description: `Moves the item at position <from>, with its subtree, to position <to>.
Moving down places the block after the item at <to>. A block cannot be
dropped inside itself.`,
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Action:        cmd.runMv,
	}
}

func (cmd *ItemCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete an item and its subtree",
		UsageText: "nest item rm [--yes] <list> <item>",
		Description: `Deletes an item. Deleting an item with children removes its subtree
too and asks for confirmation when stdin is a terminal. Without a terminal
--yes is required.`,
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "delete the subtree without asking",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.runRm,
	}
}

func (cmd *ItemCmd) editCmd() *cli.Command {
	return &cli.Command{
		Name:          "edit",
		Usage:         "Change the text, priority or due date of an item",
		UsageText:     "nest item edit [options] <list> <item>",
		ShellComplete: ChecklistIDCompleter(cmd.app),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Usage:       "new item text",
				Destination: &cmd.text,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (high, medium, low, none)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "clear-due",
				Usage:       "remove the due date",
				Destination: &cmd.clearDue,
			},
		},
		Action: cmd.runEdit,
	}
}

// itemArgs returns the checklist reference and the remaining arguments,
// requiring at least n of them.
func itemArgs(c *cli.Command, n int) (string, []string, error) {
	args := c.Args().Slice()
	if len(args) < n+1 {
		return "", nil, fmt.Errorf("usage: %s", c.UsageText)
	}
	return args[0], args[1:], nil
}

// apply runs fn against the checklist named by ref and reports msg on
// success.
func (cmd *ItemCmd) apply(ctx context.Context, c *cli.Command, ref string, fn func(s *editor.Session) (string, error)) error {
	var msg string
	_, err := cmd.app.Checklists.Apply(ctx, ref, func(s *editor.Session) error {
		var err error
		msg, err = fn(s)
		return err
	})

	p := newPrinter(c.Root().Writer)
	if errors.Is(err, errNotConfirmed) {
		p.Infof("Delete cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	if msg != "" {
		p.Successf("%s", msg)
	}
	return nil
}

func (cmd *ItemCmd) runAdd(ctx context.Context, c *cli.Command) error {
	ref, rest, err := itemArgs(c, 1)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(rest, " "))
	if text == "" {
		return errors.New("item text cannot be empty")
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		list := s.List()

		afterID := ""
		switch {
		case cmd.after != "":
			afterID, err = cmd.app.Checklists.ItemID(list, cmd.after)
			if err != nil {
				return "", err
			}
		case cmd.indent > 0 && len(list) > 0:
			afterID = list[len(list)-1].ID
		}

		id := s.Insert(afterID, cmd.indent)
		s.SetText(id, text)
		return fmt.Sprintf("Added item %d", checklist.IndexOf(s.List(), id)+1), nil
	})
}

func (cmd *ItemCmd) runToggle(ctx context.Context, c *cli.Command) error {
	ref, rest, err := itemArgs(c, 1)
	if err != nil {
		return err
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		id, err := cmd.app.Checklists.ItemID(s.List(), rest[0])
		if err != nil {
			return "", err
		}

		if cmd.all {
			s.BulkToggle(id, nil)
		} else {
			s.Toggle(id)
		}

		list := s.List()
		state := "open"
		if list[checklist.IndexOf(list, id)].Completed {
			state = "done"
		}
		return fmt.Sprintf("Marked %q %s", itemText(list, id), state), nil
	})
}

func (cmd *ItemCmd) runIndent(ctx context.Context, c *cli.Command, delta int) error {
	ref, rest, err := itemArgs(c, 1)
	if err != nil {
		return err
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		id, err := cmd.app.Checklists.ItemID(s.List(), rest[0])
		if err != nil {
			return "", err
		}

		var changed bool
		if delta > 0 {
			changed = s.Indent(id)
		} else {
			changed = s.Outdent(id)
		}
		if !changed {
			return fmt.Sprintf("%q is already at the limit", itemText(s.List(), id)), nil
		}
		return fmt.Sprintf("Moved %q to level %d", itemText(s.List(), id), s.List()[checklist.IndexOf(s.List(), id)].Indent), nil
	})
}

func (cmd *ItemCmd) runCollapse(ctx context.Context, c *cli.Command) error {
	ref, rest, err := itemArgs(c, 1)
	if err != nil {
		return err
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		id, err := cmd.app.Checklists.ItemID(s.List(), rest[0])
		if err != nil {
			return "", err
		}
		if !s.ToggleCollapsed(id) {
			return "", fmt.Errorf("%q has no children to collapse", itemText(s.List(), id))
		}

		state := "Expanded"
		if s.List()[checklist.IndexOf(s.List(), id)].Collapsed {
			state = "Collapsed"
		}
		return fmt.Sprintf("%s %q", state, itemText(s.List(), id)), nil
	})
}

func (cmd *ItemCmd) runMv(ctx context.Context, c *cli.Command) error {
	ref, rest, err := itemArgs(c, 2)
	if err != nil {
		return err
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		list := s.List()
		id, err := cmd.app.Checklists.ItemID(list, rest[0])
		if err != nil {
			return "", err
		}
		to, err := strconv.Atoi(rest[1])
		if err != nil {
			return "", fmt.Errorf("target must be a position: %w", err)
		}

		from := checklist.IndexOf(list, id)
		s.DragStart(id)
		if !s.DragEnd(from, to-1) {
			return "", fmt.Errorf("cannot move item %d to position %d", from+1, to)
		}
		return fmt.Sprintf("Moved %q to position %d", itemText(s.List(), id), checklist.IndexOf(s.List(), id)+1), nil
	})
}

func (cmd *ItemCmd) runRm(ctx context.Context, c *cli.Command) error {
	ref, rest, err := itemArgs(c, 1)
	if err != nil {
		return err
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		id, err := cmd.app.Checklists.ItemID(s.List(), rest[0])
		if err != nil {
			return "", err
		}
		text := itemText(s.List(), id)

		plan := s.RequestDelete(id)
		if plan.DirectDelete {
			return fmt.Sprintf("Deleted %q", text), nil
		}

		if !cmd.yes {
			ok, err := confirm(fmt.Sprintf("Delete %q?", text), fmt.Sprintf("Its %d nested item(s) will be deleted too", plan.ChildCount))
			if err != nil {
				s.CancelDelete()
				return "", err
			}
			if !ok {
				s.CancelDelete()
				return "", fmt.Errorf("%w: %q has %d nested item(s); pass --yes", checklist.ErrConfirmationRequired, text, plan.ChildCount)
			}
		}

		return confirmDelete(s, text, plan.ChildCount)
	})
}

// confirmDelete removes the subtree pending on s and reports what went.
func confirmDelete(s *editor.Session, text string, children int) (string, error) {
	if !s.ConfirmDelete() {
		return "", fmt.Errorf("delete %q: nothing was removed", text)
	}
	return fmt.Sprintf("Deleted %q and %d nested item(s)", text, children), nil
}

func (cmd *ItemCmd) runEdit(ctx context.Context, c *cli.Command) error {
	ref, rest, err := itemArgs(c, 1)
	if err != nil {
		return err
	}

	if cmd.due != "" && cmd.clearDue {
		return errors.New("--due and --clear-due cannot be combined")
	}

	var (
		priority    *checklist.Priority
		due         *time.Time
		changeEmpty = !c.IsSet("text") && cmd.priority == "" && cmd.due == "" && !cmd.clearDue
	)
	if changeEmpty {
		return errors.New("nothing to change; pass --text, --priority, --due or --clear-due")
	}
	if cmd.priority != "" {
		p, err := parsePriority(cmd.priority)
		if err != nil {
			return err
		}
		priority = &p
	}
	if cmd.due != "" {
		d, err := time.Parse(time.DateOnly, cmd.due)
		if err != nil {
			return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", cmd.due)
		}
		due = &d
	}

	return cmd.apply(ctx, c, ref, func(s *editor.Session) (string, error) {
		id, err := cmd.app.Checklists.ItemID(s.List(), rest[0])
		if err != nil {
			return "", err
		}

		if c.IsSet("text") {
			s.SetText(id, strings.TrimSpace(cmd.text))
		}
		if priority != nil {
			s.SetPriority(id, *priority)
		}
		if due != nil || cmd.clearDue {
			s.SetDueDate(id, due)
		}

		if !s.Dirty() {
			return fmt.Sprintf("%q unchanged", itemText(s.List(), id)), nil
		}
		return fmt.Sprintf("Updated %q", itemText(s.List(), id)), nil
	})
}

func parsePriority(v string) (checklist.Priority, error) {
	switch strings.ToLower(v) {
	case "none", "":
		return checklist.PriorityNone, nil
	case "high", "h", "1":
		return checklist.PriorityHigh, nil
	case "medium", "m", "2":
		return checklist.PriorityMedium, nil
	case "low", "l", "3":
		return checklist.PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q (available: high, medium, low, none)", v)
}

func itemText(list checklist.List, id string) string {
	if i := checklist.IndexOf(list, id); i >= 0 {
		return list[i].Text
	}
	return id
}

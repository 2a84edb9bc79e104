package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/nest/internal/tui/components"
)

// KeyMap holds the editor key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	Toggle     key.Binding
	BulkToggle key.Binding
	Indent     key.Binding
	Outdent    key.Binding
	Insert     key.Binding
	Edit       key.Binding
	Collapse   key.Binding
	Delete     key.Binding

	MoveDown  key.Binding
	MoveUp    key.Binding
	Drag      key.Binding
	Drop      key.Binding
	DragAbort key.Binding

	PriorityHigh   key.Binding
	PriorityMedium key.Binding
	PriorityLow    key.Binding
	PriorityNone   key.Binding

	Undo key.Binding
	Redo key.Binding

	Save key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default editor key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first item")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last item")),

		Toggle:     key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle")),
		BulkToggle: key.NewBinding(key.WithKeys("shift+space", "x"), key.WithHelp("x", "toggle with subtree")),
		Indent:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "indent")),
		Outdent:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "outdent")),
		Insert:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("o", "insert below")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit text")),
		Collapse:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "collapse/expand")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),

		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		Drag:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up item")),
		Drop:      key.NewBinding(key.WithKeys("enter", "m", "space"), key.WithHelp("enter", "drop")),
		DragAbort: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel move")),

		PriorityHigh:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "high priority")),
		PriorityMedium: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "medium priority")),
		PriorityLow:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "low priority")),
		PriorityNone:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear priority")),

		Undo: key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+r", "ctrl+y"), key.WithHelp("ctrl+r", "redo")),

		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save and quit")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Insert, k.Edit, k.Indent, k.Delete, k.Undo, k.Help, k.Quit}
}

// HelpSections groups every binding for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	section := func(title string, bindings ...key.Binding) components.HelpDialogSection {
		s := components.HelpDialogSection{Title: title}
		for _, b := range bindings {
			h := b.Help()
			s.Entries = append(s.Entries, components.HelpEntry{Key: h.Key, Desc: h.Desc})
		}
		return s
	}

	return []components.HelpDialogSection{
		section("Navigation", k.Up, k.Down, k.Top, k.Bottom),
		section("Editing", k.Toggle, k.BulkToggle, k.Insert, k.Edit, k.Indent, k.Outdent, k.Collapse, k.Delete),
		section("Priority", k.PriorityHigh, k.PriorityMedium, k.PriorityLow, k.PriorityNone),
		section("Moving", k.MoveDown, k.MoveUp, k.Drag, k.Drop, k.DragAbort),
		section("General", k.Undo, k.Redo, k.Save, k.Help, k.Quit),
	}
}

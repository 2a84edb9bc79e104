// Package editor holds the state of one open checklist and dispatches user
// intents to the pure checklist operations, recording undo history around
// every structural change.
package editor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/history"
	"github.com/colonyops/nest/internal/core/logging"
	"github.com/colonyops/nest/pkg/randid"
)

// DefaultIDLength is the length of generated item IDs.
const DefaultIDLength = 8

// Options configures a Session. Zero values select defaults.
type Options struct {
	// AutoSort moves completed root subtrees to the end after each
	// completion change.
	AutoSort bool
	// HistoryLimit caps each undo stack. Defaults to history.DefaultLimit.
	HistoryLimit int
	// Clock supplies timestamps for CompletedAt. Defaults to time.Now.
	Clock func() time.Time
	// NewID supplies IDs for inserted items. Defaults to randid.
	NewID func() string
	// OnAllComplete is called when auto-sort finds every item completed.
	OnAllComplete func(checklist.List)
}

// Session is the state container for one editing session. It is driven
// from a single goroutine and holds the current list, undo history, drag
// state and any pending delete confirmation.
type Session struct {
	list    checklist.List
	history *history.History
	opts    Options
	log     zerolog.Logger

	dirty         bool
	dragging      string
	pendingDelete string
}

// NewSession starts a session over list.
func NewSession(list checklist.List, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = randid.Generator(DefaultIDLength)
	}
	if opts.OnAllComplete == nil {
		opts.OnAllComplete = func(checklist.List) {}
	}

	return &Session{
		list:    list.Clone(),
		history: history.New(opts.HistoryLimit),
		opts:    opts,
		log:     logging.Component("editor"),
	}
}

// List returns the current list. Callers must treat it as read-only.
func (s *Session) List() checklist.List { return s.list }

// Visible returns the visible projection of the current list.
func (s *Session) Visible() checklist.List { return checklist.VisibleProjection(s.list) }

// Dirty reports whether the list changed since the session started or was
// last marked saved.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag after the host persisted the list.
func (s *Session) MarkSaved() { s.dirty = false }

// CanUndo reports whether Undo would change the list.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the list.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// apply commits next as the new state, pushing the current list onto the
// undo stack first. It reports false when next is the unchanged input.
func (s *Session) apply(op string, next checklist.List) bool {
	if same(s.list, next) {
		s.log.Debug().Str("op", op).Msg("no change")
		return false
	}
	s.history.Push(s.list)
	s.list = next
	s.dirty = true
	s.log.Debug().Str("op", op).Int("items", len(next)).Msg("applied")
	return true
}

// same reports whether b is the very list a, which is how the checklist
// operations signal a no-op.
func same(a, b checklist.List) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// afterCompletion runs auto-sort when enabled and fires the completion
// notifier when everything is done.
func (s *Session) afterCompletion() {
	if !s.opts.AutoSort {
		return
	}
	sorted, all := checklist.AutoSort(s.list)
	s.list = sorted
	if all {
		s.log.Debug().Msg("all items complete")
		s.opts.OnAllComplete(s.list)
	}
}

// Toggle flips the completed state of a single item.
func (s *Session) Toggle(id string) bool {
	i := checklist.IndexOf(s.list, id)
	if i < 0 {
		return false
	}
	v := !s.list[i].Completed
	if !s.apply("toggle", checklist.SetItemFields(s.list, id, checklist.Patch{Completed: &v}, s.opts.Clock())) {
		return false
	}
	s.afterCompletion()
	return true
}

// BulkToggle sets completed on the item and its whole subtree. A nil value
// negates the item's current state.
func (s *Session) BulkToggle(id string, value *bool) bool {
	if !s.apply("bulk-toggle", checklist.BulkToggle(s.list, id, value, s.opts.Clock())) {
		return false
	}
	s.afterCompletion()
	return true
}

// Indent moves the item and its subtree one level deeper.
func (s *Session) Indent(id string) bool {
	return s.apply("indent", checklist.IndentChange(s.list, id, 1))
}

// Outdent moves the item and its subtree one level shallower.
func (s *Session) Outdent(id string) bool {
	return s.apply("outdent", checklist.IndentChange(s.list, id, -1))
}

// Insert adds an empty item after the item afterID at the given indent and
// returns the new item's ID for the host to focus. An empty afterID appends
// a root item at the end.
func (s *Session) Insert(afterID string, indent int) string {
	after := -1
	if afterID != "" {
		after = checklist.IndexOf(s.list, afterID)
	}
	next, id := checklist.InsertItem(s.list, after, indent, s.opts.NewID())
	s.apply("insert", next)
	return id
}

// SetText replaces the text of an item.
func (s *Session) SetText(id, text string) bool {
	i := checklist.IndexOf(s.list, id)
	if i < 0 || s.list[i].Text == text {
		return false
	}
	return s.apply("set-text", checklist.SetItemFields(s.list, id, checklist.Patch{Text: &text}, s.opts.Clock()))
}

// SetPriority replaces the priority of an item.
func (s *Session) SetPriority(id string, p checklist.Priority) bool {
	i := checklist.IndexOf(s.list, id)
	if i < 0 || !p.IsValid() || s.list[i].Priority == p {
		return false
	}
	return s.apply("set-priority", checklist.SetItemFields(s.list, id, checklist.Patch{Priority: &p}, s.opts.Clock()))
}

// SetDueDate sets or, with a nil due, clears the due date of an item.
func (s *Session) SetDueDate(id string, due *time.Time) bool {
	i := checklist.IndexOf(s.list, id)
	if i < 0 {
		return false
	}
	if cur := s.list[i].DueDate; (cur == nil && due == nil) || (cur != nil && due != nil && cur.Equal(*due)) {
		return false
	}
	patch := checklist.Patch{DueDate: due, ClearDueDate: due == nil}
	return s.apply("set-due", checklist.SetItemFields(s.list, id, patch, s.opts.Clock()))
}

// ToggleCollapsed collapses or expands an item with children. Collapse state
// is persisted but not recorded in the undo history.
func (s *Session) ToggleCollapsed(id string) bool {
	next := checklist.ToggleCollapsed(s.list, id)
	if same(s.list, next) {
		return false
	}
	s.list = next
	s.dirty = true
	return true
}

// Undo restores the previous snapshot.
func (s *Session) Undo() bool {
	prev, ok := s.history.Undo(s.list)
	if !ok {
		return false
	}
	s.list = prev
	s.dirty = true
	s.pendingDelete = ""
	s.log.Debug().Msg("undo")
	return true
}

// Revert rolls back the last recorded edit and forgets it. Unlike Undo the
// edit is not offered for redo.
func (s *Session) Revert() bool {
	prev, ok := s.history.Discard(s.list)
	if !ok {
		return false
	}
	s.list = prev
	s.dirty = true
	s.pendingDelete = ""
	s.log.Debug().Msg("revert")
	return true
}

// Redo reapplies the most recently undone snapshot.
func (s *Session) Redo() bool {
	next, ok := s.history.Redo(s.list)
	if !ok {
		return false
	}
	s.list = next
	s.dirty = true
	s.pendingDelete = ""
	s.log.Debug().Msg("redo")
	return true
}

// Package history provides snapshot-based undo and redo for checklist edits.
package history

import "github.com/colonyops/nest/internal/core/checklist"

// DefaultLimit is the number of snapshots kept on each stack.
const DefaultLimit = 50

// History holds bounded past and future stacks of full list snapshots.
// It belongs to a single editing session and is not safe for concurrent use.
type History struct {
	past   []checklist.List
	future []checklist.List
	limit  int
}

// New creates a History that keeps at most limit snapshots per stack.
// A limit below 1 uses DefaultLimit.
func New(limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push records current as the state to return to on undo. It must be called
// before applying a destructive edit. Any pending redo is discarded.
func (h *History) Push(current checklist.List) {
	h.past = push(h.past, current.Clone(), h.limit)
	h.future = nil
}

// Undo returns the most recent snapshot and stores current for redo.
// When there is nothing to undo it returns current and false.
func (h *History) Undo(current checklist.List) (checklist.List, bool) {
	if len(h.past) == 0 {
		return current, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = push(h.future, current.Clone(), h.limit)
	return prev.Clone(), true
}

// Redo reapplies the most recently undone snapshot and stores current for undo.
// When there is nothing to redo it returns current and false.
func (h *History) Redo(current checklist.List) (checklist.List, bool) {
	if len(h.future) == 0 {
		return current, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = push(h.past, current.Clone(), h.limit)
	return next.Clone(), true
}

// Discard returns the most recent snapshot without storing current for
// redo, so the dropped state cannot come back.
func (h *History) Discard(current checklist.List) (checklist.List, bool) {
	if len(h.past) == 0 {
		return current, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return prev.Clone(), true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Len returns the sizes of the past and future stacks.
func (h *History) Len() (past, future int) { return len(h.past), len(h.future) }

// Reset drops all snapshots.
func (h *History) Reset() {
	h.past = nil
	h.future = nil
}

// push appends s, evicting the oldest entries beyond limit.
func push(stack []checklist.List, s checklist.List, limit int) []checklist.List {
	stack = append(stack, s)
	if over := len(stack) - limit; over > 0 {
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}

package editor

import "github.com/colonyops/nest/internal/core/checklist"

// DragStart records the item being dragged and returns the IDs of the block
// that moves with it (the item followed by its subtree) so the host can group
// them visually. The list is not modified.
func (s *Session) DragStart(id string) []string {
	i := checklist.IndexOf(s.list, id)
	if i < 0 {
		s.dragging = ""
		return nil
	}
	s.dragging = id
	return s.list[i : i+checklist.SubtreeSize(s.list, i)+1].IDs()
}

// Dragging returns the ID of the item being dragged, if a drag is active.
func (s *Session) Dragging() (string, bool) {
	return s.dragging, s.dragging != ""
}

// DragCancel ends a drag without a drop.
func (s *Session) DragCancel() {
	s.dragging = ""
}

// DragEnd completes a drag by moving the block at from to the position of
// to. Drops onto the block itself, out of range positions, and drops whose
// source does not match the dragged item are rejected without change.
func (s *Session) DragEnd(from, to int) bool {
	dragged := s.dragging
	s.dragging = ""

	if dragged != "" && checklist.IndexOf(s.list, dragged) != from {
		s.log.Debug().Str("id", dragged).Int("from", from).Msg("drop source does not match drag")
		return false
	}
	if to < 0 || to >= len(s.list) || checklist.IsInvalidDropTarget(s.list, from, to) {
		s.log.Debug().Int("from", from).Int("to", to).Msg("drop rejected")
		return false
	}
	return s.apply("move", checklist.MoveSubtree(s.list, from, to))
}

// MoveUp moves the item's block above its previous sibling block, or above
// its parent when it is the first child.
func (s *Session) MoveUp(id string) bool {
	from := checklist.IndexOf(s.list, id)
	if from <= 0 {
		return false
	}

	to := from - 1
	for j := from - 1; j >= 0; j-- {
		if s.list[j].Indent < s.list[from].Indent {
			break
		}
		if s.list[j].Indent == s.list[from].Indent {
			to = j
			break
		}
	}

	s.DragStart(id)
	return s.DragEnd(from, to)
}

// MoveDown moves the item's block below the block that follows it.
func (s *Session) MoveDown(id string) bool {
	from := checklist.IndexOf(s.list, id)
	if from < 0 {
		return false
	}

	next := from + checklist.SubtreeSize(s.list, from) + 1
	if next >= len(s.list) {
		return false
	}
	to := next + checklist.SubtreeSize(s.list, next)

	s.DragStart(id)
	return s.DragEnd(from, to)
}

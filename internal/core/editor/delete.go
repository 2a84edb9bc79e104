package editor

import "github.com/colonyops/nest/internal/core/checklist"

// RequestDelete starts deleting an item. Items without children are removed
// immediately. For an item with a subtree the deletion is held pending until
// ConfirmDelete or CancelDelete, and the returned plan carries the number of
// descendants to show in the confirmation prompt.
func (s *Session) RequestDelete(id string) checklist.DeletePlan {
	s.pendingDelete = ""
	if checklist.IndexOf(s.list, id) < 0 {
		return checklist.DeletePlan{DirectDelete: true}
	}

	plan := checklist.PlanDelete(s.list, id)
	if plan.DirectDelete {
		s.apply("delete", checklist.DeleteCascade(s.list, id))
		return plan
	}

	s.pendingDelete = id
	s.log.Debug().Str("id", id).Int("children", plan.ChildCount).Msg("delete awaiting confirmation")
	return plan
}

// PendingDelete returns the item awaiting delete confirmation, if any.
func (s *Session) PendingDelete() (string, bool) {
	return s.pendingDelete, s.pendingDelete != ""
}

// ConfirmDelete removes the pending item and its entire subtree.
func (s *Session) ConfirmDelete() bool {
	id := s.pendingDelete
	if id == "" {
		return false
	}
	s.pendingDelete = ""
	return s.apply("delete-cascade", checklist.DeleteCascade(s.list, id))
}

// CancelDelete drops the pending deletion without changing the list.
func (s *Session) CancelDelete() {
	s.pendingDelete = ""
}

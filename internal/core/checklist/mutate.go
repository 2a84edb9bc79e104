package checklist

import (
	"slices"
	"time"
)

// Patch holds optional replacements for the user-editable fields of an item.
// Nil fields are left untouched.
type Patch struct {
	Text         *string
	Completed    *bool
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// DeletePlan tells the host whether an item can be removed immediately or
// needs the user to confirm removal of its subtree first.
type DeletePlan struct {
	DirectDelete bool `json:"direct_delete"`
	ChildCount   int  `json:"child_count"`
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// SetItemFields applies patch to the item with the given ID. Ordering and all
// other items are untouched. CompletedAt is set to now when the item becomes
// completed and cleared when it becomes incomplete.
func SetItemFields(list List, id string, patch Patch, now time.Time) List {
	i := IndexOf(list, id)
	if i < 0 {
		return list
	}

	out := list.Clone()
	it := &out[i]
	if patch.Text != nil {
		it.Text = *patch.Text
	}
	if patch.Priority != nil && patch.Priority.IsValid() {
		it.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		it.DueDate = nil
	} else if patch.DueDate != nil {
		due := *patch.DueDate
		it.DueDate = &due
	}
	if patch.Completed != nil {
		it.setCompleted(*patch.Completed, now)
	}
	return out
}

// InsertItem inserts a new empty item with the given ID right after position
// after. A negative after appends a root item at the end of the list.
//
// The indent is clamped so the new item has a parent and does not orphan the
// item that follows it. The returned ID is the item the host should focus.
func InsertItem(list List, after, indent int, id string) (List, string) {
	item := Item{ID: id}

	if after < 0 || len(list) == 0 {
		out := make(List, 0, len(list)+1)
		out = append(out, list...)
		return append(out, item), id
	}

	after = min(after, len(list)-1)
	lo := 0
	if next := after + 1; next < len(list) {
		lo = list[next].Indent - 1
	}
	hi := min(list[after].Indent+1, MaxIndent)
	item.Indent = clamp(indent, max(lo, 0), hi)

	out := make(List, 0, len(list)+1)
	out = append(out, list[:after+1]...)
	out = append(out, item)
	out = append(out, list[after+1:]...)
	return out, id
}

// IndentChange shifts the item and its whole subtree by delta (+1 indents,
// -1 outdents). The new indent is clamped to [0, MaxIndent] and to one level
// below the preceding item. When a descendant would be pushed past MaxIndent
// or the clamp leaves the indent unchanged, the input list is returned.
func IndentChange(list List, id string, delta int) List {
	i := IndexOf(list, id)
	if i < 0 || delta == 0 {
		return list
	}

	limit := 0
	if i > 0 {
		limit = list[i-1].Indent + 1
	}
	target := clamp(list[i].Indent+delta, 0, min(limit, MaxIndent))
	shift := target - list[i].Indent
	if shift == 0 {
		return list
	}

	end := subtreeEnd(list, i)
	for j := i + 1; j < end; j++ {
		if list[j].Indent+shift > MaxIndent {
			return list
		}
	}

	out := list.Clone()
	for j := i; j < end; j++ {
		out[j].Indent += shift
	}
	return out
}

// ToggleCollapsed flips the collapsed flag on the item. Items without
// children are left alone.
func ToggleCollapsed(list List, id string) List {
	i := IndexOf(list, id)
	if i < 0 || !HasChildren(list, i) {
		return list
	}
	out := list.Clone()
	out[i].Collapsed = !out[i].Collapsed
	return out
}

// BulkToggle sets completed on the item and every descendant. A nil value
// means the negation of the item's current state.
func BulkToggle(list List, id string, value *bool, now time.Time) List {
	i := IndexOf(list, id)
	if i < 0 {
		return list
	}

	v := !list[i].Completed
	if value != nil {
		v = *value
	}

	out := list.Clone()
	end := subtreeEnd(out, i)
	for j := i; j < end; j++ {
		out[j].setCompleted(v, now)
	}
	return out
}

// PlanDelete reports whether the item can be deleted without confirmation.
// Unknown IDs yield a direct delete of nothing.
func PlanDelete(list List, id string) DeletePlan {
	i := IndexOf(list, id)
	if n := SubtreeSize(list, i); n > 0 {
		return DeletePlan{DirectDelete: false, ChildCount: n}
	}
	return DeletePlan{DirectDelete: true}
}

// DeleteCascade removes the item and its entire subtree as one block.
func DeleteCascade(list List, id string) List {
	i := IndexOf(list, id)
	if i < 0 {
		return list
	}
	return slices.Concat(list[:i], list[subtreeEnd(list, i):])
}

// AutoSort moves root-level subtrees whose root item is completed to the end
// of the list. Both groups keep their relative order and every subtree keeps
// its internal structure. The boolean result reports whether every item in
// the list is completed.
func AutoSort(list List) (List, bool) {
	open := make(List, 0, len(list))
	done := make(List, 0, len(list))

	for i := 0; i < len(list); {
		end := subtreeEnd(list, i)
		if list[i].Indent == 0 && list[i].Completed {
			done = append(done, list[i:end]...)
		} else {
			open = append(open, list[i:end]...)
		}
		i = end
	}

	out := append(open, done...)
	return out, out.AllCompleted()
}

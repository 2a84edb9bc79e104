package checklist

// Stats is a completion roll-up over a subtree.
type Stats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// IndexOf returns the position of the item with the given ID, or -1.
func IndexOf(list List, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func inRange(list List, i int) bool {
	return i >= 0 && i < len(list)
}

// subtreeEnd returns the exclusive end of the block rooted at i.
func subtreeEnd(list List, i int) int {
	end := i + 1
	for end < len(list) && list[end].Indent > list[i].Indent {
		end++
	}
	return end
}

// SubtreeIndices returns the indices of every descendant of item i, in order.
// The result is always the contiguous run i+1, i+2, ... and is empty when i
// has no children or is out of range.
func SubtreeIndices(list List, i int) []int {
	if !inRange(list, i) {
		return nil
	}
	end := subtreeEnd(list, i)
	if end == i+1 {
		return nil
	}
	out := make([]int, 0, end-i-1)
	for j := i + 1; j < end; j++ {
		out = append(out, j)
	}
	return out
}

// SubtreeSize returns the number of descendants of item i.
func SubtreeSize(list List, i int) int {
	if !inRange(list, i) {
		return 0
	}
	return subtreeEnd(list, i) - i - 1
}

// HasChildren reports whether item i has at least one descendant.
func HasChildren(list List, i int) bool {
	return SubtreeSize(list, i) > 0
}

// CompletionStats counts completed items across the full subtree of i, at
// every depth, not only direct children.
func CompletionStats(list List, i int) Stats {
	var s Stats
	if !inRange(list, i) {
		return s
	}
	end := subtreeEnd(list, i)
	for j := i + 1; j < end; j++ {
		s.Total++
		if list[j].Completed {
			s.Completed++
		}
	}
	return s
}

// ParentIndex returns the index of the parent of item i, or -1 for root items.
func ParentIndex(list List, i int) int {
	if !inRange(list, i) {
		return -1
	}
	indent := list[i].Indent
	for j := i - 1; j >= 0; j-- {
		if list[j].Indent < indent {
			return j
		}
	}
	return -1
}

// IsHiddenByCollapsedAncestor reports whether any ancestor of item i, not
// just its parent, is collapsed.
func IsHiddenByCollapsedAncestor(list List, i int) bool {
	for a := ParentIndex(list, i); a >= 0; a = ParentIndex(list, a) {
		if list[a].Collapsed {
			return true
		}
	}
	return false
}

// VisibleIndices returns the list positions of the visible projection.
// Hosts use it to map a cursor on the rendered rows back to list indices.
func VisibleIndices(list List) []int {
	out := make([]int, 0, len(list))
	for i := 0; i < len(list); {
		out = append(out, i)
		if list[i].Collapsed {
			i = subtreeEnd(list, i)
			continue
		}
		i++
	}
	return out
}

// VisibleProjection returns the items not hidden by a collapsed ancestor.
// The input list is not modified.
func VisibleProjection(list List) List {
	idx := VisibleIndices(list)
	out := make(List, len(idx))
	for k, i := range idx {
		out[k] = list[i]
	}
	return out
}

package checklist

import "slices"

// IsInvalidDropTarget reports whether to lies inside the block formed by the
// item at from and its subtree, i.e. the item would be dropped onto itself
// or one of its own descendants. Hosts must check this before MoveSubtree.
func IsInvalidDropTarget(list List, from, to int) bool {
	if !inRange(list, from) {
		return true
	}
	return to >= from && to <= from+SubtreeSize(list, from)
}

// MoveSubtree relocates the item at from, together with its subtree, so the
// block takes the place of the item currently at to. Moving down places the
// block after that item; moving up places it before. The block keeps its
// internal order and relative indents.
//
// The result is always well formed: when the block root would have no parent
// at its new position the whole block is lifted, and items right after the
// block that lose their ancestor chain are lifted with their subtrees. Invalid
// drops return the input list unchanged.
func MoveSubtree(list List, from, to int) List {
	if !inRange(list, from) || !inRange(list, to) || IsInvalidDropTarget(list, from, to) {
		return list
	}

	end := subtreeEnd(list, from)
	block := slices.Clone(list[from:end])
	rest := slices.Concat(list[:from], list[end:])

	at := to
	if to > from {
		at = to - len(block) + 1
	}

	out := slices.Concat(rest[:at], block, rest[at:])

	lift(out, at, at+len(block))
	heal(out, at+len(block))
	return out
}

// lift lowers the indents of out[start:end] uniformly so the first item of
// the range has a parent.
func lift(out List, start, end int) {
	limit := 0
	if start > 0 {
		limit = out[start-1].Indent + 1
	}
	excess := out[start].Indent - limit
	if excess <= 0 {
		return
	}
	for j := start; j < end; j++ {
		out[j].Indent = max(out[j].Indent-excess, 0)
	}
}

// heal walks forward from start lifting any item, with its subtree, that is
// deeper than one level below its predecessor. It stops at the first item
// that already fits, since everything after it was well formed before.
func heal(out List, start int) {
	for i := start; i < len(out) && i > 0; {
		if out[i].Indent <= out[i-1].Indent+1 {
			return
		}
		end := subtreeEnd(out, i)
		lift(out, i, end)
		i = end
	}
}

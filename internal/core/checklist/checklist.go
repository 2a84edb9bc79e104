// Package checklist implements a nested to-do tree stored as a flat, ordered
// list of items annotated with an indent depth.
//
// Parent and child relationships are derived from order and indent, never
// stored. Item i is a child of the nearest preceding item whose indent is
// exactly one less, and the descendants of i are the contiguous run of items
// following it with a strictly greater indent. Every operation in this
// package is a pure function from a List to a new List; inputs are never
// modified.
package checklist

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// MaxIndent is the deepest nesting level an item may have.
const MaxIndent = 3

var (
	// ErrNotFound is returned when a checklist or item does not exist.
	ErrNotFound = errors.New("checklist not found")
	// ErrMalformed is returned when a list violates the tree encoding.
	ErrMalformed = errors.New("malformed checklist")
	// ErrConfirmationRequired is returned when deleting a non-empty subtree
	// without explicit confirmation.
	ErrConfirmationRequired = errors.New("deleting a subtree requires confirmation")
	// ErrAmbiguous is returned when an ID prefix matches more than one
	// checklist.
	ErrAmbiguous = errors.New("checklist id is ambiguous")
	// ErrBusy is returned when another process kept the store locked
	// until the write gave up.
	ErrBusy = errors.New("checklist store is busy")
)

// Priority is an optional importance marker on an item.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether p is a known priority (including unset).
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Item is one row of the flat tree encoding.
type Item struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Indent      int        `json:"indent"`
	Collapsed   bool       `json:"collapsed,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// setCompleted updates Completed and keeps CompletedAt in step with the
// transition.
func (it *Item) setCompleted(v bool, now time.Time) {
	if it.Completed == v {
		return
	}
	it.Completed = v
	if v {
		t := now
		it.CompletedAt = &t
	} else {
		it.CompletedAt = nil
	}
}

// List is an ordered sequence of items. The sequence is the tree.
type List []Item

// Clone returns a copy of the list that shares no backing array with l.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}

// IDs returns the item IDs in list order.
func (l List) IDs() []string {
	ids := make([]string, len(l))
	for i, it := range l {
		ids[i] = it.ID
	}
	return ids
}

// AllCompleted reports whether the list is non-empty and every item is
// completed.
func (l List) AllCompleted() bool {
	if len(l) == 0 {
		return false
	}
	for _, it := range l {
		if !it.Completed {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants of the encoding: indents are in
// range, every indented item has an ancestor chain, and IDs are unique and
// non-empty. All violations are reported, each wrapping ErrMalformed.
func (l List) Validate() error {
	var errs []error
	seen := make(map[string]int, len(l))

	for i, it := range l {
		if it.ID == "" {
			errs = append(errs, fmt.Errorf("%w: item %d has an empty id", ErrMalformed, i))
		} else if prev, ok := seen[it.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: item %d reuses id %q from item %d", ErrMalformed, i, it.ID, prev))
		} else {
			seen[it.ID] = i
		}

		if it.Indent < 0 || it.Indent > MaxIndent {
			errs = append(errs, fmt.Errorf("%w: item %d indent %d outside [0, %d]", ErrMalformed, i, it.Indent, MaxIndent))
			continue
		}

		limit := 0
		if i > 0 {
			limit = l[i-1].Indent + 1
		}
		if it.Indent > limit {
			errs = append(errs, fmt.Errorf("%w: item %d indent %d has no parent (max %d)", ErrMalformed, i, it.Indent, limit))
		}

		if !it.Priority.IsValid() {
			errs = append(errs, fmt.Errorf("%w: item %d has unknown priority %q", ErrMalformed, i, it.Priority))
		}
	}

	return errors.Join(errs...)
}

// Checklist is a titled, persisted list owned by one editing session.
type Checklist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Items     List      `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress returns how many items in the whole checklist are completed.
func (c Checklist) Progress() Stats {
	s := Stats{Total: len(c.Items)}
	for _, it := range c.Items {
		if it.Completed {
			s.Completed++
		}
	}
	return s
}

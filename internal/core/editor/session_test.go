package editor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/nest/internal/core/checklist"
)

var testNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func build(layout string) checklist.List {
	var list checklist.List
	for _, tok := range strings.Fields(layout) {
		it := checklist.Item{}
		if strings.HasPrefix(tok, "+") {
			it.Completed = true
			tok = tok[1:]
		}
		it.ID = tok[:len(tok)-1]
		it.Text = "item " + it.ID
		it.Indent = int(tok[len(tok)-1] - '0')
		list = append(list, it)
	}
	return list
}

func shape(list checklist.List) string {
	parts := make([]string, len(list))
	for i, it := range list {
		prefix := ""
		if it.Completed {
			prefix = "+"
		}
		parts[i] = fmt.Sprintf("%s%s%d", prefix, it.ID, it.Indent)
	}
	return strings.Join(parts, " ")
}

func newSession(layout string, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return testNow }
	}
	if opts.NewID == nil {
		n := 0
		opts.NewID = func() string {
			n++
			return fmt.Sprintf("n%d", n)
		}
	}
	return NewSession(build(layout), opts)
}

func TestSession_ToggleAndUndo(t *testing.T) {
	s := newSession("A0 B1", Options{})

	require.True(t, s.Toggle("B"))
	assert.Equal(t, "A0 +B1", shape(s.List()))
	assert.True(t, s.Dirty())
	require.NotNil(t, s.List()[1].CompletedAt)
	assert.Equal(t, testNow, *s.List()[1].CompletedAt)

	require.True(t, s.Undo())
	assert.Equal(t, "A0 B1", shape(s.List()))

	require.True(t, s.Redo())
	assert.Equal(t, "A0 +B1", shape(s.List()))

	assert.False(t, s.Toggle("missing"))
}

func TestSession_NoOpDoesNotRecordHistory(t *testing.T) {
	s := newSession("A0 B1", Options{})

	assert.False(t, s.Indent("A"), "first item cannot be indented")
	assert.False(t, s.Outdent("A"))
	assert.False(t, s.Indent("B"), "B is already one below A")
	assert.False(t, s.CanUndo())
	assert.False(t, s.Dirty())
}

func TestSession_IndentOutdent(t *testing.T) {
	s := newSession("A0 B0 C1", Options{})

	require.True(t, s.Indent("B"))
	assert.Equal(t, "A0 B1 C2", shape(s.List()))

	require.True(t, s.Outdent("B"))
	assert.Equal(t, "A0 B0 C1", shape(s.List()))

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	assert.False(t, s.Undo())
	assert.Equal(t, "A0 B0 C1", shape(s.List()))
}

func TestSession_Insert(t *testing.T) {
	s := newSession("A0 B1", Options{})

	id := s.Insert("A", 1)
	assert.Equal(t, "n1", id)
	assert.Equal(t, "A0 n11 B1", shape(s.List()))

	id = s.Insert("", 3)
	assert.Equal(t, "n2", id)
	assert.Equal(t, "A0 n11 B1 n20", shape(s.List()))

	require.True(t, s.Undo())
	assert.Equal(t, "A0 n11 B1", shape(s.List()))
}

func TestSession_RevertSkipsRedo(t *testing.T) {
	s := newSession("A0", Options{})

	require.True(t, s.Toggle("A"))
	s.Insert("A", 1)
	require.True(t, s.Revert())
	assert.Equal(t, "+A0", shape(s.List()))
	assert.False(t, s.CanRedo())

	require.True(t, s.Revert())
	assert.Equal(t, "A0", shape(s.List()))
	assert.False(t, s.Revert())
}

func TestSession_FieldEdits(t *testing.T) {
	s := newSession("A0", Options{})

	require.True(t, s.SetText("A", "buy milk"))
	assert.False(t, s.SetText("A", "buy milk"), "same text is a no-op")
	assert.Equal(t, "buy milk", s.List()[0].Text)

	require.True(t, s.SetPriority("A", checklist.PriorityHigh))
	assert.False(t, s.SetPriority("A", checklist.Priority("urgent")))
	assert.Equal(t, checklist.PriorityHigh, s.List()[0].Priority)

	due := testNow.Add(24 * time.Hour)
	require.True(t, s.SetDueDate("A", &due))
	assert.False(t, s.SetDueDate("A", &due))
	require.True(t, s.SetDueDate("A", nil))
	assert.Nil(t, s.List()[0].DueDate)

	require.True(t, s.Undo())
	require.NotNil(t, s.List()[0].DueDate)
	assert.Equal(t, due, *s.List()[0].DueDate)
}

func TestSession_ToggleCollapsedSkipsHistory(t *testing.T) {
	s := newSession("A0 B1 C0", Options{})

	require.True(t, s.ToggleCollapsed("A"))
	assert.True(t, s.Dirty())
	assert.False(t, s.CanUndo())
	assert.Equal(t, "A0 C0", shape(s.Visible()))

	assert.False(t, s.ToggleCollapsed("C"), "leaf items do not collapse")
}

func TestSession_Delete(t *testing.T) {
	t.Run("leaf deletes directly", func(t *testing.T) {
		s := newSession("A0 B1 C0", Options{})

		plan := s.RequestDelete("C")
		assert.True(t, plan.DirectDelete)
		assert.Equal(t, "A0 B1", shape(s.List()))
		_, pending := s.PendingDelete()
		assert.False(t, pending)
	})

	t.Run("subtree needs confirmation", func(t *testing.T) {
		s := newSession("A0 B1 C2 D0", Options{})

		plan := s.RequestDelete("A")
		assert.False(t, plan.DirectDelete)
		assert.Equal(t, 2, plan.ChildCount)
		assert.Equal(t, "A0 B1 C2 D0", shape(s.List()))

		id, pending := s.PendingDelete()
		require.True(t, pending)
		assert.Equal(t, "A", id)

		require.True(t, s.ConfirmDelete())
		assert.Equal(t, "D0", shape(s.List()))
		assert.False(t, s.ConfirmDelete())

		require.True(t, s.Undo())
		assert.Equal(t, "A0 B1 C2 D0", shape(s.List()))
	})

	t.Run("cancel keeps list", func(t *testing.T) {
		s := newSession("A0 B1", Options{})

		s.RequestDelete("A")
		s.CancelDelete()
		assert.False(t, s.ConfirmDelete())
		assert.Equal(t, "A0 B1", shape(s.List()))
		assert.False(t, s.Dirty())
	})
}

func TestSession_Drag(t *testing.T) {
	s := newSession("A0 B1 C1 D0", Options{})

	ids := s.DragStart("A")
	assert.Equal(t, []string{"A", "B", "C"}, ids)
	dragged, ok := s.Dragging()
	require.True(t, ok)
	assert.Equal(t, "A", dragged)

	require.True(t, s.DragEnd(0, 3))
	assert.Equal(t, "D0 A0 B1 C1", shape(s.List()))
	_, ok = s.Dragging()
	assert.False(t, ok)

	require.True(t, s.Undo())
	assert.Equal(t, "A0 B1 C1 D0", shape(s.List()))
}

func TestSession_DragRejected(t *testing.T) {
	tests := []struct {
		name     string
		dragID   string
		from, to int
	}{
		{name: "onto itself", dragID: "A", from: 0, to: 0},
		{name: "into own subtree", dragID: "A", from: 0, to: 2},
		{name: "out of range", dragID: "A", from: 0, to: 9},
		{name: "source mismatch", dragID: "D", from: 0, to: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession("A0 B1 C1 D0", Options{})
			s.DragStart(tt.dragID)

			assert.False(t, s.DragEnd(tt.from, tt.to))
			assert.Equal(t, "A0 B1 C1 D0", shape(s.List()))
			assert.False(t, s.CanUndo())
			_, ok := s.Dragging()
			assert.False(t, ok)
		})
	}
}

func TestSession_DragCancel(t *testing.T) {
	s := newSession("A0 B0", Options{})

	s.DragStart("A")
	s.DragCancel()
	_, ok := s.Dragging()
	assert.False(t, ok)
	assert.Nil(t, s.DragStart("missing"))
}

func TestSession_MoveUpDown(t *testing.T) {
	tests := []struct {
		name string
		list string
		id   string
		up   bool
		want string
		ok   bool
	}{
		{name: "up over sibling", list: "A0 B0 C0", id: "C", up: true, want: "A0 C0 B0", ok: true},
		{name: "up over sibling block", list: "A0 B1 C0", id: "C", up: true, want: "C0 A0 B1", ok: true},
		{name: "first child leaves parent", list: "A0 B1 C1", id: "B", up: true, want: "B0 A0 C1", ok: true},
		{name: "top stays", list: "A0 B0", id: "A", up: true, want: "A0 B0"},
		{name: "down past block", list: "A0 B1 C0 D0", id: "A", want: "C0 A0 B1 D0", ok: true},
		{name: "down past sibling block", list: "A0 B0 C1 D0", id: "A", want: "B0 C1 A0 D0", ok: true},
		{name: "bottom stays", list: "A0 B1", id: "A", want: "A0 B1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(tt.list, Options{})

			var got bool
			if tt.up {
				got = s.MoveUp(tt.id)
			} else {
				got = s.MoveDown(tt.id)
			}

			assert.Equal(t, tt.ok, got)
			assert.Equal(t, tt.want, shape(s.List()))
			require.NoError(t, s.List().Validate())
		})
	}
}

func TestSession_AutoSort(t *testing.T) {
	notified := 0
	s := newSession("A0 B1 C0", Options{
		AutoSort:      true,
		OnAllComplete: func(checklist.List) { notified++ },
	})

	require.True(t, s.BulkToggle("A", nil))
	assert.Equal(t, "C0 +A0 +B1", shape(s.List()))
	assert.Equal(t, 0, notified)

	require.True(t, s.Toggle("C"))
	assert.Equal(t, "+C0 +A0 +B1", shape(s.List()))
	assert.Equal(t, 1, notified)

	require.True(t, s.Undo())
	assert.Equal(t, "C0 +A0 +B1", shape(s.List()))
}

func TestSession_HistoryLimit(t *testing.T) {
	s := newSession("A0", Options{HistoryLimit: 2})

	for i := range 5 {
		require.True(t, s.SetText("A", fmt.Sprintf("v%d", i)))
	}

	undone := 0
	for s.Undo() {
		undone++
	}
	assert.Equal(t, 2, undone)
	assert.Equal(t, "v2", s.List()[0].Text)
}

func TestSession_MarkSaved(t *testing.T) {
	s := newSession("A0", Options{})

	s.Toggle("A")
	require.True(t, s.Dirty())
	s.MarkSaved()
	assert.False(t, s.Dirty())
}

func TestNewSession_DefaultIDs(t *testing.T) {
	s := NewSession(build("A0"), Options{})

	id := s.Insert("A", 0)
	assert.Len(t, id, DefaultIDLength)
	assert.Equal(t, id, s.List()[1].ID)
}

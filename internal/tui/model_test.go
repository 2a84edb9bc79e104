package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/editor"
	"github.com/colonyops/nest/pkg/tuitest"
)

var fixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type fakeService struct {
	autoSort bool
	saveErr  error
	saved    []checklist.Checklist
}

func (f *fakeService) NewSession(c checklist.Checklist, onAllComplete func(checklist.List)) *editor.Session {
	n := 0
	return editor.NewSession(c.Items, editor.Options{
		AutoSort: f.autoSort,
		Clock:    func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("n%d", n)
		},
		OnAllComplete: onAllComplete,
	})
}

func (f *fakeService) Save(_ context.Context, c *checklist.Checklist) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *c)
	return nil
}

func item(id, text string, indent int) checklist.Item {
	return checklist.Item{ID: id, Text: text, Indent: indent}
}

// tripList is:
//
//	a Pack
//	  b Socks
//	  c Passport
//	d Book hotel
func tripList() checklist.List {
	return checklist.List{
		item("a", "Pack", 0),
		item("b", "Socks", 1),
		item("c", "Passport", 1),
		item("d", "Book hotel", 0),
	}
}

func newModel(t *testing.T, svc *fakeService, items checklist.List) Model {
	t.Helper()
	m := New(Deps{Service: svc, Clock: func() time.Time { return fixedNow }}, checklist.Checklist{
		ID:    "list-1",
		Title: "Trip",
		Items: items,
	})
	updated, _ := m.Update(tuitest.WindowSize(100, 30))
	return updated.(Model)
}

// press sends keys in order and returns the model with the command produced
// by the last key.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(tuitest.Key(k))
		m = updated.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, msg := range tuitest.Type(text) {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func ids(m Model) []string {
	return m.session.List().IDs()
}

func TestModel_CursorMovement(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())
	assert.Equal(t, "a", m.cursorID)

	m, _ = press(t, m, "j", "j")
	assert.Equal(t, "c", m.cursorID)

	m, _ = press(t, m, "j", "j", "j")
	assert.Equal(t, "d", m.cursorID, "cursor stops at the last row")

	m, _ = press(t, m, "g")
	assert.Equal(t, "a", m.cursorID)

	m, _ = press(t, m, "G")
	assert.Equal(t, "d", m.cursorID)
}

func TestModel_ToggleAndUndo(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "j", "space")
	assert.True(t, m.session.List()[1].Completed)
	assert.True(t, m.Dirty())

	m, _ = press(t, m, "u")
	assert.False(t, m.session.List()[1].Completed)

	m, _ = press(t, m, "ctrl+r")
	assert.True(t, m.session.List()[1].Completed)
}

func TestModel_BulkToggle(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "x")
	list := m.session.List()
	for _, i := range []int{0, 1, 2} {
		assert.True(t, list[i].Completed, "item %d", i)
	}
	assert.False(t, list[3].Completed)
}

func TestModel_IndentOutdent(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "G", "tab")
	assert.Equal(t, 1, m.session.List()[3].Indent)

	m, _ = press(t, m, "shift+tab")
	assert.Equal(t, 0, m.session.List()[3].Indent)
}

func TestModel_InsertAndEdit(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	// "o" on the last root item adds a sibling below it.
	m, _ = press(t, m, "G", "o")
	require.Equal(t, stateEditing, m.state)
	m = typeText(t, m, "Buy tickets")
	m, _ = press(t, m, "enter")

	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, []string{"a", "b", "c", "d", "n1"}, ids(m))
	assert.Equal(t, "Buy tickets", m.session.List()[4].Text)
	assert.Equal(t, "n1", m.cursorID)
}

func TestModel_InsertUnderExpandedParentAddsChild(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "o")
	m = typeText(t, m, "Charger")
	m, _ = press(t, m, "enter")

	list := m.session.List()
	assert.Equal(t, []string{"a", "n1", "b", "c", "d"}, list.IDs())
	assert.Equal(t, 1, list[1].Indent)
}

func TestModel_InsertCancelledRemovesBlankItem(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "G", "o", "esc")
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(m))
	assert.Equal(t, "d", m.cursorID)
}

func TestModel_CancelledInsertCannotBeRedone(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "G", "space", "o", "esc", "ctrl+r")
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(m))
	assert.True(t, m.session.List()[3].Completed)

	// Undo still reaches the toggle made before the insert.
	m, _ = press(t, m, "u")
	assert.False(t, m.session.List()[3].Completed)
	assert.False(t, m.session.CanUndo())
}

func TestModel_EditExistingText(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "G", "e")
	m = typeText(t, m, " now")
	m, _ = press(t, m, "enter")
	assert.Equal(t, "Book hotel now", m.session.List()[3].Text)

	// Escape leaves the text alone.
	m, _ = press(t, m, "e")
	m = typeText(t, m, "!!")
	m, _ = press(t, m, "esc")
	assert.Equal(t, "Book hotel now", m.session.List()[3].Text)
}

func TestModel_InsertIntoEmptyChecklist(t *testing.T) {
	m := newModel(t, &fakeService{}, checklist.List{})
	assert.Empty(t, m.cursorID)

	m, _ = press(t, m, "x", "space", "d")
	assert.Empty(t, ids(m), "item keys are ignored without items")

	m, _ = press(t, m, "o")
	m = typeText(t, m, "First")
	m, _ = press(t, m, "enter")
	assert.Equal(t, []string{"n1"}, ids(m))
}

func TestModel_DeleteLeafIsImmediate(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "G", "d")
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, []string{"a", "b", "c"}, ids(m))
	assert.Equal(t, "c", m.cursorID, "cursor falls back to the nearest row")
}

func TestModel_DeleteSubtreeAsksFirst(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		m := newModel(t, &fakeService{}, tripList())

		m, _ = press(t, m, "d")
		require.Equal(t, stateConfirmDelete, m.state)
		assert.Contains(t, m.confirm.View(), "2 nested item(s)")

		m, _ = press(t, m, "y")
		assert.Equal(t, stateNormal, m.state)
		assert.Equal(t, []string{"d"}, ids(m))
	})

	t.Run("cancel", func(t *testing.T) {
		m := newModel(t, &fakeService{}, tripList())

		m, _ = press(t, m, "d", "n")
		assert.Equal(t, stateNormal, m.state)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(m))
		_, pending := m.session.PendingDelete()
		assert.False(t, pending)
	})
}

func TestModel_CollapseHidesChildren(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "z", "j")
	assert.True(t, m.session.List()[0].Collapsed)
	assert.Equal(t, "d", m.cursorID, "collapsed children are skipped")

	view := m.render()
	assert.NotContains(t, view, "Socks")
	assert.Contains(t, view, "Book hotel")
}

func TestModel_MoveSubtree(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "J")
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids(m))
	assert.Equal(t, "a", m.cursorID, "cursor follows the moved item")

	m, _ = press(t, m, "K")
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(m))
}

func TestModel_DragAndDrop(t *testing.T) {
	t.Run("drop below", func(t *testing.T) {
		m := newModel(t, &fakeService{}, tripList())

		m, _ = press(t, m, "m")
		require.Equal(t, stateDragging, m.state)
		assert.Len(t, m.dragBlock, 3)

		m, _ = press(t, m, "j", "j", "j", "enter")
		assert.Equal(t, stateNormal, m.state)
		assert.Equal(t, []string{"d", "a", "b", "c"}, ids(m))
	})

	t.Run("drop inside itself is rejected", func(t *testing.T) {
		m := newModel(t, &fakeService{}, tripList())

		m, _ = press(t, m, "m", "j", "enter")
		assert.Equal(t, stateNormal, m.state)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(m))
		assert.True(t, m.toasts.HasToasts())
	})

	t.Run("escape cancels", func(t *testing.T) {
		m := newModel(t, &fakeService{}, tripList())

		m, _ = press(t, m, "m", "j", "j", "j", "esc")
		assert.Equal(t, stateNormal, m.state)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(m))
		_, dragging := m.session.Dragging()
		assert.False(t, dragging)
	})
}

func TestModel_Priority(t *testing.T) {
	tests := []struct {
		key  string
		want checklist.Priority
	}{
		{"1", checklist.PriorityHigh},
		{"2", checklist.PriorityMedium},
		{"3", checklist.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newModel(t, &fakeService{}, tripList())

			m, _ = press(t, m, tt.key)
			assert.Equal(t, tt.want, m.session.List()[0].Priority)

			m, _ = press(t, m, "0")
			assert.Equal(t, checklist.PriorityNone, m.session.List()[0].Priority)
		})
	}
}

func TestModel_SaveMarksClean(t *testing.T) {
	svc := &fakeService{}
	m := newModel(t, svc, tripList())

	m, _ = press(t, m, "space")
	m, cmd := press(t, m, "ctrl+s")
	require.NotNil(t, cmd)
	assert.True(t, m.saving)

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	require.Len(t, svc.saved, 1)
	assert.True(t, svc.saved[0].Items[0].Completed)
	assert.False(t, m.Dirty())
	assert.False(t, m.saving)
}

func TestModel_SaveKeepsDirtyWhenEditedMeanwhile(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "space")
	m, cmd := press(t, m, "ctrl+s")
	m, _ = press(t, m, "j", "space")

	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.True(t, m.Dirty())
}

func TestModel_BusySaveCanBeRetried(t *testing.T) {
	svc := &fakeService{saveErr: fmt.Errorf("save checklist: %w", checklist.ErrBusy)}
	m := newModel(t, svc, tripList())

	m, cmd := press(t, m, "space", "ctrl+s")
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	require.True(t, m.toasts.HasToasts())
	assert.Equal(t, ToastError, m.toasts.Toasts()[0].Level)
	assert.Equal(t, "Database is busy, press ctrl+s to retry", m.toasts.Toasts()[0].Message)
	assert.True(t, m.Dirty())

	svc.saveErr = nil
	m, cmd = press(t, m, "ctrl+s")
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	require.Len(t, svc.saved, 1)
	assert.False(t, m.Dirty())
}

func TestModel_QuitSavesWhenDirty(t *testing.T) {
	t.Run("clean quits immediately", func(t *testing.T) {
		svc := &fakeService{}
		m := newModel(t, svc, tripList())

		_, cmd := press(t, m, "q")
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, svc.saved)
	})

	t.Run("dirty saves then quits", func(t *testing.T) {
		svc := &fakeService{}
		m := newModel(t, svc, tripList())

		m, cmd := press(t, m, "space", "q")
		require.NotNil(t, cmd)
		msg := cmd()
		require.IsType(t, savedMsg{}, msg)
		require.Len(t, svc.saved, 1)

		_, cmd = m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("failed save keeps the editor open", func(t *testing.T) {
		svc := &fakeService{saveErr: errors.New("disk full")}
		m := newModel(t, svc, tripList())

		m, cmd := press(t, m, "space", "q")
		updated, _ := m.Update(cmd())
		m = updated.(Model)

		assert.True(t, m.saveFailed)
		assert.True(t, m.Dirty())
		require.True(t, m.toasts.HasToasts())
		assert.Contains(t, m.toasts.Toasts()[0].Message, "disk full")

		_, cmd = m.Update(tuitest.Key("ctrl+c"))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestModel_CelebratesWhenAllDone(t *testing.T) {
	m := newModel(t, &fakeService{autoSort: true}, checklist.List{
		item("a", "Pack", 0),
		item("b", "Book hotel", 0),
	})

	m, _ = press(t, m, "space")
	assert.False(t, m.toasts.HasToasts())

	// Auto-sort moved the completed item to the end.
	assert.Equal(t, []string{"b", "a"}, ids(m))

	m, cmd := press(t, m, "g", "space")
	require.True(t, m.toasts.HasToasts())
	assert.Equal(t, ToastCelebrate, m.toasts.Toasts()[0].Level)
	assert.NotNil(t, cmd, "toast timer starts")
	assert.True(t, m.toasts.Ticking())
}

func TestModel_HelpToggles(t *testing.T) {
	m := newModel(t, &fakeService{}, tripList())

	m, _ = press(t, m, "?")
	assert.Equal(t, stateShowingHelp, m.state)
	assert.Contains(t, m.help.View(), "Keyboard shortcuts")

	m, _ = press(t, m, "esc")
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_Render(t *testing.T) {
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	items := tripList()
	items[2].Completed = true
	items[3].Priority = checklist.PriorityHigh
	items[3].DueDate = &due

	m := newModel(t, &fakeService{}, items)
	view := m.render()
	plain := tuitest.StripANSI(view)

	assert.Contains(t, plain, "› ▾ [-] Pack 1/2")
	assert.Contains(t, plain, "│   [x] Passport")
	assert.Contains(t, view, "Trip")
	assert.Contains(t, view, "1/4", "header shows overall progress")
	assert.Contains(t, view, "1/2", "parent shows subtree progress")
	assert.Contains(t, view, "[-]", "partly done parent")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "!!!")
	assert.Contains(t, view, "2026-10-01")

	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 30)
}

func TestModel_ScrollsToCursor(t *testing.T) {
	items := make(checklist.List, 40)
	for i := range items {
		items[i] = item(fmt.Sprintf("i%02d", i), fmt.Sprintf("Item %d", i), 0)
	}

	m := newModel(t, &fakeService{}, items)
	m, _ = press(t, m, "G")
	assert.Equal(t, "i39", m.cursorID)
	assert.Equal(t, 40-m.listHeight(), m.offset)
	assert.Contains(t, m.render(), "Item 39")
	assert.NotContains(t, m.render(), "Item 5")
}

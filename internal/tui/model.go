// Package tui implements the interactive checklist editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/editor"
	"github.com/colonyops/nest/internal/core/logging"
	"github.com/colonyops/nest/internal/core/styles"
	"github.com/colonyops/nest/internal/tui/components"
)

const (
	headerLines = 2
	footerLines = 2
	inputLimit  = 500
)

// UIState represents the current modal state of the editor.
type UIState int

const (
	stateNormal UIState = iota
	stateEditing
	stateConfirmDelete
	stateDragging
	stateShowingHelp
)

// Service is what the editor needs from the checklist service.
type Service interface {
	NewSession(c checklist.Checklist, onAllComplete func(checklist.List)) *editor.Session
	Save(ctx context.Context, c *checklist.Checklist) error
}

// Deps holds the editor dependencies.
type Deps struct {
	Service Service
	KeyMap  *KeyMap
	Clock   func() time.Time
}

// savedMsg is sent when a save finishes. changes is the edit counter at the
// time the save started.
type savedMsg struct {
	checklist checklist.Checklist
	changes   int
	quit      bool
	err       error
}

// Model is the Bubble Tea model for editing one checklist.
type Model struct {
	svc  Service
	keys KeyMap
	now  func() time.Time

	checklist checklist.Checklist
	session   *editor.Session
	state     UIState

	// cursorID is the focused item. cursorRow is its row in the visible
	// projection and is used to land somewhere sensible when the focused
	// item disappears.
	cursorID  string
	cursorRow int
	offset    int

	width  int
	height int

	input     textinput.Model
	editingID string
	inserted  bool

	confirm components.ConfirmModal
	help    *components.HelpDialog

	dragBlock map[string]bool
	dropRow   int

	toasts    *ToastController
	toastView *ToastView

	changes    int
	saving     bool
	saveFailed bool
}

// New creates an editor for c.
func New(deps Deps, c checklist.Checklist) Model {
	keys := DefaultKeyMap()
	if deps.KeyMap != nil {
		keys = *deps.KeyMap
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	toasts := NewToastController()
	sess := deps.Service.NewSession(c, func(checklist.List) {
		toasts.Push(Toast{Level: ToastCelebrate, Message: "Everything is done!"})
	})

	m := Model{
		svc:       deps.Service,
		keys:      keys,
		now:       now,
		checklist: c,
		session:   sess,
		toasts:    toasts,
		toastView: NewToastView(toasts),
		help:      components.NewHelpDialog("Keyboard shortcuts", keys.HelpSections()),
	}
	m.ensureCursor()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Checklist returns the checklist with the current items.
func (m Model) Checklist() checklist.Checklist {
	c := m.checklist
	c.Items = m.session.List()
	return c
}

// Dirty reports whether there are unsaved changes.
func (m Model) Dirty() bool {
	return m.session.Dirty()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(m.width-20, 10))
		m.scrollToCursor()
		return m, nil
	case toastTickMsg:
		return m.handleToastTick()
	case savedMsg:
		return m.handleSaved(msg)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.state == stateEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toasts.Tick(toastTickInterval)
	if m.toasts.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toasts.SetTicking(false)
	return m, nil
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.saving = false

	if msg.err != nil {
		m.saveFailed = true
		text := "Save failed: " + msg.err.Error()
		if errors.Is(msg.err, checklist.ErrBusy) {
			text = "Database is busy, press ctrl+s to retry"
		}
		if msg.quit {
			text += " (ctrl+c again quits without saving)"
		}
		m.toasts.Push(Toast{Level: ToastError, Message: text})
		return m, m.toastCmd()
	}

	m.saveFailed = false
	m.checklist.UpdatedAt = msg.checklist.UpdatedAt
	if msg.changes == m.changes {
		m.session.MarkSaved()
	}

	if msg.quit {
		return m, tea.Quit
	}

	m.toasts.Push(Toast{Level: ToastInfo, Message: "Saved"})
	return m, m.toastCmd()
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" && m.saveFailed {
		return m, tea.Quit
	}

	switch m.state {
	case stateEditing:
		return m.handleEditKey(msg)
	case stateConfirmDelete:
		return m.handleConfirmKey(msg)
	case stateDragging:
		return m.handleDragKey(msg)
	case stateShowingHelp:
		switch msg.String() {
		case "esc", "?", "q", "enter":
			m.state = stateNormal
		}
		return m, nil
	}

	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Save):
		cmd := m.save(false)
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.state = stateShowingHelp
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.session.List()))
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.session.List()))
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		return m.changed(m.session.Undo())
	case key.Matches(msg, m.keys.Redo):
		return m.changed(m.session.Redo())
	case key.Matches(msg, m.keys.Insert):
		return m.insertBelow()
	}

	id := m.cursorID
	if id == "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.changed(m.session.Toggle(id))
	case key.Matches(msg, m.keys.BulkToggle):
		return m.changed(m.session.BulkToggle(id, nil))
	case key.Matches(msg, m.keys.Indent):
		return m.changed(m.session.Indent(id))
	case key.Matches(msg, m.keys.Outdent):
		return m.changed(m.session.Outdent(id))
	case key.Matches(msg, m.keys.Collapse):
		return m.changed(m.session.ToggleCollapsed(id))
	case key.Matches(msg, m.keys.MoveDown):
		return m.changed(m.session.MoveDown(id))
	case key.Matches(msg, m.keys.MoveUp):
		return m.changed(m.session.MoveUp(id))
	case key.Matches(msg, m.keys.PriorityHigh):
		return m.changed(m.session.SetPriority(id, checklist.PriorityHigh))
	case key.Matches(msg, m.keys.PriorityMedium):
		return m.changed(m.session.SetPriority(id, checklist.PriorityMedium))
	case key.Matches(msg, m.keys.PriorityLow):
		return m.changed(m.session.SetPriority(id, checklist.PriorityLow))
	case key.Matches(msg, m.keys.PriorityNone):
		return m.changed(m.session.SetPriority(id, checklist.PriorityNone))
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit(id, false)
	case key.Matches(msg, m.keys.Delete):
		return m.requestDelete(id)
	case key.Matches(msg, m.keys.Drag):
		return m.startDrag(id)
	}

	return m, nil
}

// changed finishes an intent: it bumps the edit counter, keeps the cursor on
// a visible row and starts the toast timer for any notification the intent
// produced.
func (m Model) changed(ok bool) (tea.Model, tea.Cmd) {
	if ok {
		m.changes++
	}
	m.ensureCursor()
	return m, m.toastCmd()
}

func (m Model) toastCmd() tea.Cmd {
	if !m.toasts.HasToasts() || m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

// insertBelow adds an item after the cursor and opens it for editing. An
// expanded parent gets a new first child; a collapsed one gets a sibling
// after its hidden subtree.
func (m Model) insertBelow() (tea.Model, tea.Cmd) {
	list := m.session.List()
	afterID, indent := "", 0

	if i := checklist.IndexOf(list, m.cursorID); i >= 0 {
		it := list[i]
		afterID, indent = it.ID, it.Indent
		switch {
		case it.Collapsed:
			afterID = list[i+checklist.SubtreeSize(list, i)].ID
		case checklist.HasChildren(list, i):
			indent++
		}
	}

	id := m.session.Insert(afterID, indent)
	m.changes++
	m.cursorID = id
	m.ensureCursor()
	return m.startEdit(id, true)
}

func (m Model) startEdit(id string, inserted bool) (tea.Model, tea.Cmd) {
	list := m.session.List()
	i := checklist.IndexOf(list, id)
	if i < 0 {
		return m, nil
	}

	input := textinput.New()
	input.SetValue(list[i].Text)
	input.CharLimit = inputLimit
	input.Prompt = ""
	input.Placeholder = "New item"
	input.SetWidth(max(m.width-20, 10))
	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	input.SetStyles(inputStyles)
	cmd := input.Focus()

	m.input = input
	m.editingID = id
	m.inserted = inserted
	m.state = stateEditing
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.state = stateNormal
		if text == "" {
			return m.abandonEdit()
		}
		ok := m.session.SetText(m.editingID, text)
		m.editingID = ""
		return m.changed(ok)
	case "esc":
		m.state = stateNormal
		return m.abandonEdit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// abandonEdit drops an edit. A freshly inserted item that never got any
// text is removed again.
func (m Model) abandonEdit() (tea.Model, tea.Cmd) {
	removed := false
	if m.inserted {
		removed = m.session.Revert()
	}
	m.editingID = ""
	m.inserted = false
	return m.changed(removed)
}

func (m Model) requestDelete(id string) (tea.Model, tea.Cmd) {
	list := m.session.List()
	text := list[checklist.IndexOf(list, id)].Text

	plan := m.session.RequestDelete(id)
	if plan.DirectDelete {
		return m.changed(true)
	}

	m.confirm = components.NewConfirmModal(
		fmt.Sprintf("Delete %q?", text),
		fmt.Sprintf("Its %d nested item(s) will be deleted too.", plan.ChildCount),
	)
	m.state = stateConfirmDelete
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.confirm, _ = m.confirm.Update(msg)

	switch {
	case m.confirm.Confirmed():
		m.state = stateNormal
		return m.changed(m.session.ConfirmDelete())
	case m.confirm.Cancelled():
		m.state = stateNormal
		m.session.CancelDelete()
	}
	return m, nil
}

func (m Model) startDrag(id string) (tea.Model, tea.Cmd) {
	block := m.session.DragStart(id)
	if len(block) == 0 {
		return m, nil
	}

	m.dragBlock = make(map[string]bool, len(block))
	for _, blockID := range block {
		m.dragBlock[blockID] = true
	}
	m.dropRow = m.cursorRow
	m.state = stateDragging
	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	rows := checklist.VisibleIndices(m.session.List())

	switch {
	case key.Matches(msg, m.keys.DragAbort):
		m.session.DragCancel()
		m.endDrag()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.dropRow = max(m.dropRow-1, 0)
		m.scrollTo(m.dropRow)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.dropRow = min(m.dropRow+1, len(rows)-1)
		m.scrollTo(m.dropRow)
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		return m.drop(rows)
	}
	return m, nil
}

// drop ends the drag on the row under the drop cursor. Dropping below a
// collapsed item places the block after its hidden subtree.
func (m Model) drop(rows []int) (tea.Model, tea.Cmd) {
	list := m.session.List()
	dragged, _ := m.session.Dragging()
	from := checklist.IndexOf(list, dragged)
	to := rows[m.dropRow]
	if to > from && list[to].Collapsed {
		to += checklist.SubtreeSize(list, to)
	}

	ok := m.session.DragEnd(from, to)
	m.endDrag()
	if !ok {
		if from != to {
			m.toasts.Push(Toast{Level: ToastError, Message: "An item cannot be moved into itself"})
		}
		return m, m.toastCmd()
	}
	return m.changed(true)
}

func (m *Model) endDrag() {
	m.dragBlock = nil
	m.state = stateNormal
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.session.Dirty() {
		return m, tea.Quit
	}
	cmd := m.save(true)
	return m, cmd
}

// save writes the current items in the background.
func (m *Model) save(quit bool) tea.Cmd {
	if m.saving {
		return nil
	}
	m.saving = true

	c := m.Checklist()
	changes := m.changes
	svc := m.svc
	return func() tea.Msg {
		ctx := logging.WithChecklistID(context.Background(), c.ID)
		err := svc.Save(ctx, &c)
		return savedMsg{checklist: c, changes: changes, quit: quit, err: err}
	}
}

// moveCursor moves the cursor by delta visible rows.
func (m *Model) moveCursor(delta int) {
	rows := checklist.VisibleIndices(m.session.List())
	if len(rows) == 0 {
		return
	}
	row := max(0, min(m.cursorRow+delta, len(rows)-1))
	m.cursorRow = row
	m.cursorID = m.session.List()[rows[row]].ID
	m.scrollToCursor()
}

// ensureCursor keeps the cursor on a visible item, falling back to the row
// the cursor was last on.
func (m *Model) ensureCursor() {
	list := m.session.List()
	rows := checklist.VisibleIndices(list)
	if len(rows) == 0 {
		m.cursorID = ""
		m.cursorRow = 0
		m.offset = 0
		return
	}

	for row, i := range rows {
		if list[i].ID == m.cursorID {
			m.cursorRow = row
			m.scrollToCursor()
			return
		}
	}

	m.cursorRow = max(0, min(m.cursorRow, len(rows)-1))
	m.cursorID = list[rows[m.cursorRow]].ID
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	m.scrollTo(m.cursorRow)
}

// scrollTo adjusts the offset so row is inside the list viewport.
func (m *Model) scrollTo(row int) {
	height := m.listHeight()
	if height <= 0 {
		return
	}
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+height {
		m.offset = row - height + 1
	}
}

func (m Model) listHeight() int {
	return m.height - headerLines - footerLines
}

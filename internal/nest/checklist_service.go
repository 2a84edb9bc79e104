package nest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/core/config"
	"github.com/colonyops/nest/internal/core/editor"
	"github.com/colonyops/nest/internal/core/kv"
	"github.com/colonyops/nest/internal/core/logging"
	"github.com/colonyops/nest/internal/core/markdown"
	"github.com/colonyops/nest/internal/core/validate"
	"github.com/colonyops/nest/pkg/randid"
)

const lastOpenedKey = "last_opened"

// ErrItemNotFound is returned when an item reference matches nothing.
var ErrItemNotFound = errors.New("item not found")

// ChecklistService wraps checklist.Store with the editing engine so one-shot
// CLI edits and the TUI go through the same session rules.
type ChecklistService struct {
	store checklist.Store
	state *kv.TypedKV[string]
	cfg   *config.Config
	log   zerolog.Logger
	now   func() time.Time
}

// NewChecklistService creates a new ChecklistService.
func NewChecklistService(store checklist.Store, state kv.KV, cfg *config.Config, log zerolog.Logger) *ChecklistService {
	return &ChecklistService{
		store: store,
		state: kv.Scoped[string](state, "tui"),
		cfg:   cfg,
		log:   log.With().Str("component", "checklist-service").Logger(),
		now:   time.Now,
	}
}

// Create stores a new empty checklist.
func (s *ChecklistService) Create(ctx context.Context, title string) (checklist.Checklist, error) {
	if err := validate.Title(title); err != nil {
		return checklist.Checklist{}, err
	}
	title = strings.TrimSpace(title)

	c := checklist.Checklist{Title: title, Items: checklist.List{}}
	if err := s.store.Create(ctx, &c); err != nil {
		return checklist.Checklist{}, fmt.Errorf("create checklist: %w", err)
	}

	s.log.Debug().Str("checklist_id", c.ID).Msg("checklist created")
	return c, nil
}

// Get loads a checklist by full ID or unique ID prefix.
func (s *ChecklistService) Get(ctx context.Context, ref string) (checklist.Checklist, error) {
	id, err := s.store.Resolve(ctx, ref)
	if err != nil {
		return checklist.Checklist{}, err
	}
	return s.store.Get(ctx, id)
}

// List returns summaries of all checklists.
func (s *ChecklistService) List(ctx context.Context) ([]checklist.Summary, error) {
	return s.store.List(ctx)
}

// Rename changes the title of a checklist.
func (s *ChecklistService) Rename(ctx context.Context, ref, title string) (checklist.Checklist, error) {
	if err := validate.Title(title); err != nil {
		return checklist.Checklist{}, err
	}
	title = strings.TrimSpace(title)

	c, err := s.Get(ctx, ref)
	if err != nil {
		return checklist.Checklist{}, err
	}
	c.Title = title
	if err := s.store.Save(ctx, &c); err != nil {
		return checklist.Checklist{}, fmt.Errorf("rename checklist: %w", err)
	}
	return c, nil
}

// Delete removes a checklist and forgets it as the last opened one.
func (s *ChecklistService) Delete(ctx context.Context, ref string) error {
	id, err := s.store.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete checklist: %w", err)
	}

	if last, ok := s.LastOpened(ctx); ok && last == id {
		if err := s.state.Delete(ctx, lastOpenedKey); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear last opened checklist")
		}
	}

	s.log.Debug().Str("checklist_id", id).Msg("checklist deleted")
	return nil
}

// Save persists c after an editing session.
func (s *ChecklistService) Save(ctx context.Context, c *checklist.Checklist) error {
	if err := s.store.Save(ctx, c); err != nil {
		s.log.Error().Err(err).Str("checklist_id", c.ID).Msg("failed to save checklist")
		return fmt.Errorf("save checklist: %w", err)
	}
	return nil
}

// Import creates a checklist from markdown. A title passed in overrides the
// one found in the document.
func (s *ChecklistService) Import(ctx context.Context, content, title string) (checklist.Checklist, error) {
	doc, err := markdown.Parse(content, s.idGenerator())
	if err != nil {
		return checklist.Checklist{}, fmt.Errorf("import checklist: %w", err)
	}

	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = "Imported checklist"
	}

	c := checklist.Checklist{Title: title, Items: doc.Items}
	if err := s.store.Create(ctx, &c); err != nil {
		return checklist.Checklist{}, fmt.Errorf("import checklist: %w", err)
	}

	s.log.Debug().Str("checklist_id", c.ID).Int("items", len(c.Items)).Msg("checklist imported")
	return c, nil
}

// ImportChecklist stores a copy of c, as produced by a JSON export, under a
// new ID. Items must satisfy the tree encoding.
func (s *ChecklistService) ImportChecklist(ctx context.Context, c checklist.Checklist, title string) (checklist.Checklist, error) {
	if title != "" {
		c.Title = title
	}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = "Imported checklist"
	}
	if c.Items == nil {
		c.Items = checklist.List{}
	}
	if err := c.Items.Validate(); err != nil {
		return checklist.Checklist{}, fmt.Errorf("import checklist: %w", err)
	}

	c.ID = ""
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	if err := s.store.Create(ctx, &c); err != nil {
		return checklist.Checklist{}, fmt.Errorf("import checklist: %w", err)
	}

	s.log.Debug().Str("checklist_id", c.ID).Int("items", len(c.Items)).Msg("checklist imported")
	return c, nil
}

// Export renders a checklist as markdown.
func (s *ChecklistService) Export(ctx context.Context, ref string, opts markdown.RenderOptions) (string, error) {
	c, err := s.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	return markdown.Render(c, opts), nil
}

// NewSession opens an editing session over c configured from the app config.
func (s *ChecklistService) NewSession(c checklist.Checklist, onAllComplete func(checklist.List)) *editor.Session {
	return editor.NewSession(c.Items, editor.Options{
		AutoSort:      s.cfg.Checklist.AutoSort,
		HistoryLimit:  s.cfg.Checklist.HistoryLimit,
		Clock:         s.now,
		NewID:         s.idGenerator(),
		OnAllComplete: onAllComplete,
	})
}

// Apply loads a checklist, runs fn against an editing session over its items
// and saves the result when fn changed anything. The returned checklist is
// the stored state after fn ran.
func (s *ChecklistService) Apply(ctx context.Context, ref string, fn func(*editor.Session) error) (checklist.Checklist, error) {
	c, err := s.Get(ctx, ref)
	if err != nil {
		return checklist.Checklist{}, err
	}

	ctx = logging.WithChecklistID(ctx, c.ID)
	sess := s.NewSession(c, nil)
	if err := fn(sess); err != nil {
		return checklist.Checklist{}, err
	}

	if !sess.Dirty() {
		s.log.Debug().Ctx(ctx).Msg("apply made no changes")
		return c, nil
	}

	c.Items = sess.List()
	if err := s.Save(ctx, &c); err != nil {
		return checklist.Checklist{}, err
	}
	sess.MarkSaved()
	return c, nil
}

// ItemID resolves an item reference that is either an item ID or a 1-based
// position in the full list. IDs win, so an all-digit ID is never read as a
// position.
func (s *ChecklistService) ItemID(list checklist.List, ref string) (string, error) {
	if checklist.IndexOf(list, ref) >= 0 {
		return ref, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrItemNotFound, ref)
	}
	if n < 1 || n > len(list) {
		return "", fmt.Errorf("%w: position %d outside 1..%d", ErrItemNotFound, n, len(list))
	}
	return list[n-1].ID, nil
}

// RememberOpened records id as the checklist to resume next time.
func (s *ChecklistService) RememberOpened(ctx context.Context, id string) {
	if err := s.state.Set(ctx, lastOpenedKey, id); err != nil {
		s.log.Warn().Err(err).Msg("failed to remember last opened checklist")
	}
}

// LastOpened returns the checklist most recently opened in the TUI.
func (s *ChecklistService) LastOpened(ctx context.Context) (string, bool) {
	id, err := s.state.Get(ctx, lastOpenedKey)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (s *ChecklistService) idGenerator() func() string {
	return randid.Generator(s.cfg.Checklist.IDLength)
}

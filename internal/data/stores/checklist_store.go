package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/data/db"
)

// ChecklistStore implements checklist.Store using SQLite. The item list is
// stored as one JSON document per checklist, with progress counts kept in
// their own columns so listings never decode items.
type ChecklistStore struct {
	db  *db.DB
	now func() time.Time
}

var _ checklist.Store = (*ChecklistStore)(nil)

// NewChecklistStore creates a new SQLite-backed checklist store.
func NewChecklistStore(db *db.DB) *ChecklistStore {
	return &ChecklistStore{db: db, now: time.Now}
}

// Create persists a new checklist, assigning an ID and timestamps when unset.
func (s *ChecklistStore) Create(ctx context.Context, c *checklist.Checklist) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Items == nil {
		c.Items = checklist.List{}
	}

	row, err := checklistToRow(c)
	if err != nil {
		return err
	}

	err = retryBusy(ctx, func() error {
		return s.db.Queries().CreateChecklist(ctx, row)
	})
	if err != nil {
		return fmt.Errorf("failed to create checklist: %w", err)
	}
	return nil
}

// Get returns a checklist by ID. Returns ErrNotFound if not found.
func (s *ChecklistStore) Get(ctx context.Context, id string) (checklist.Checklist, error) {
	row, err := s.db.Queries().GetChecklist(ctx, id)
	if IsNotFoundError(err) {
		return checklist.Checklist{}, checklist.ErrNotFound
	}
	if err != nil {
		return checklist.Checklist{}, fmt.Errorf("failed to get checklist: %w", err)
	}

	return rowToChecklist(row)
}

// List returns summaries of all checklists, most recently updated first.
func (s *ChecklistStore) List(ctx context.Context) ([]checklist.Summary, error) {
	rows, err := s.db.Queries().ListChecklists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}

	out := make([]checklist.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, checklist.Summary{
			ID:        row.ID,
			Title:     row.Title,
			Completed: int(row.CompletedCount),
			Total:     int(row.TotalCount),
		})
	}
	return out, nil
}

// Save replaces the title and items of an existing checklist.
func (s *ChecklistStore) Save(ctx context.Context, c *checklist.Checklist) error {
	if err := c.Items.Validate(); err != nil {
		return fmt.Errorf("refusing to save checklist %s: %w", c.ID, err)
	}

	c.UpdatedAt = s.now()
	row, err := checklistToRow(c)
	if err != nil {
		return err
	}

	var n int64
	err = retryBusy(ctx, func() error {
		var err error
		n, err = s.db.Queries().UpdateChecklist(ctx, row)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	if n == 0 {
		return checklist.ErrNotFound
	}
	return nil
}

// Resolve expands an ID prefix to the full checklist ID.
func (s *ChecklistStore) Resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", checklist.ErrNotFound
	}

	ids, err := s.db.Queries().FindChecklistIDsByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to resolve checklist id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", checklist.ErrNotFound
	case 1:
		return ids[0], nil
	default:
		for _, id := range ids {
			if id == prefix {
				return id, nil
			}
		}
		return "", fmt.Errorf("%w: %q", checklist.ErrAmbiguous, prefix)
	}
}

// Delete removes a checklist by ID. Returns ErrNotFound if not found.
func (s *ChecklistStore) Delete(ctx context.Context, id string) error {
	var n int64
	err := retryBusy(ctx, func() error {
		var err error
		n, err = s.db.Queries().DeleteChecklist(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete checklist: %w", err)
	}
	if n == 0 {
		return checklist.ErrNotFound
	}
	return nil
}

func checklistToRow(c *checklist.Checklist) (db.Checklist, error) {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return db.Checklist{}, fmt.Errorf("failed to marshal items: %w", err)
	}

	progress := c.Progress()
	return db.Checklist{
		ID:             c.ID,
		Title:          c.Title,
		Items:          items,
		CompletedCount: int64(progress.Completed),
		TotalCount:     int64(progress.Total),
		CreatedAt:      c.CreatedAt.UnixNano(),
		UpdatedAt:      c.UpdatedAt.UnixNano(),
	}, nil
}

// rowToChecklist converts a db.Checklist to a checklist.Checklist, rejecting
// item lists that violate the tree encoding.
func rowToChecklist(row db.Checklist) (checklist.Checklist, error) {
	var items checklist.List
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return checklist.Checklist{}, fmt.Errorf("failed to unmarshal items of %s: %w", row.ID, err)
	}
	if items == nil {
		items = checklist.List{}
	}
	if err := items.Validate(); err != nil {
		return checklist.Checklist{}, fmt.Errorf("checklist %s: %w", row.ID, err)
	}

	return checklist.Checklist{
		ID:        row.ID,
		Title:     row.Title,
		Items:     items,
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}, nil
}

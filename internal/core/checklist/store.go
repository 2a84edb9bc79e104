package checklist

import "context"

// Summary is the lightweight listing form of a checklist.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Store defines the interface for checklist persistence.
type Store interface {
	// Create persists a new checklist.
	// The store populates ID, CreatedAt, and UpdatedAt if not already set.
	Create(ctx context.Context, c *Checklist) error

	// Get returns a single checklist by ID.
	// Returns ErrNotFound if the checklist does not exist.
	Get(ctx context.Context, id string) (Checklist, error)

	// List returns summaries of all checklists, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Save replaces the title and items of an existing checklist.
	// Returns ErrNotFound if the checklist does not exist.
	Save(ctx context.Context, c *Checklist) error

	// Resolve expands a full ID or unique ID prefix to a full ID.
	// Returns ErrNotFound when nothing matches and ErrAmbiguous when more
	// than one checklist matches.
	Resolve(ctx context.Context, prefix string) (string, error)

	// Delete removes a checklist.
	// Returns ErrNotFound if the checklist does not exist.
	Delete(ctx context.Context, id string) error
}

package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries runs the statements used by the stores.
type Queries struct {
	db DBTX
}

// New binds a query set to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q that runs inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createChecklist = `
INSERT INTO checklists (id, title, items, completed_count, total_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateChecklist(ctx context.Context, arg Checklist) error {
	_, err := q.db.ExecContext(ctx, createChecklist,
		arg.ID, arg.Title, arg.Items, arg.CompletedCount, arg.TotalCount, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getChecklist = `
SELECT id, title, items, completed_count, total_count, created_at, updated_at
FROM checklists WHERE id = ?
`

func (q *Queries) GetChecklist(ctx context.Context, id string) (Checklist, error) {
	var c Checklist
	err := q.db.QueryRowContext(ctx, getChecklist, id).Scan(
		&c.ID, &c.Title, &c.Items, &c.CompletedCount, &c.TotalCount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const findChecklistByPrefix = `
SELECT id FROM checklists WHERE id LIKE ? || '%' ORDER BY id LIMIT 2
`

// FindChecklistIDsByPrefix returns at most two IDs starting with prefix so
// callers can detect ambiguity.
func (q *Queries) FindChecklistIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, findChecklistByPrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const listChecklists = `
SELECT id, title, completed_count, total_count, updated_at
FROM checklists ORDER BY updated_at DESC, id
`

func (q *Queries) ListChecklists(ctx context.Context) ([]ChecklistSummary, error) {
	rows, err := q.db.QueryContext(ctx, listChecklists)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ChecklistSummary
	for rows.Next() {
		var s ChecklistSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CompletedCount, &s.TotalCount, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateChecklist = `
UPDATE checklists
SET title = ?, items = ?, completed_count = ?, total_count = ?, updated_at = ?
WHERE id = ?
`

// UpdateChecklist returns the number of rows changed.
func (q *Queries) UpdateChecklist(ctx context.Context, arg Checklist) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateChecklist,
		arg.Title, arg.Items, arg.CompletedCount, arg.TotalCount, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteChecklist = `DELETE FROM checklists WHERE id = ?`

// DeleteChecklist returns the number of rows removed.
func (q *Queries) DeleteChecklist(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteChecklist, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const kvGet = `SELECT key, value, updated_at, expires_at FROM kv_store WHERE key = ?`

func (q *Queries) KVGet(ctx context.Context, key string) (KvStore, error) {
	var kv KvStore
	err := q.db.QueryRowContext(ctx, kvGet, key).Scan(&kv.Key, &kv.Value, &kv.UpdatedAt, &kv.ExpiresAt)
	return kv, err
}

const kvSet = `
INSERT INTO kv_store (key, value, updated_at, expires_at) VALUES (?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at, expires_at = excluded.expires_at
`

func (q *Queries) KVSet(ctx context.Context, arg KvStore) error {
	_, err := q.db.ExecContext(ctx, kvSet, arg.Key, arg.Value, arg.UpdatedAt, arg.ExpiresAt)
	return err
}

const kvDelete = `DELETE FROM kv_store WHERE key = ?`

func (q *Queries) KVDelete(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, kvDelete, key)
	return err
}

package db

import "database/sql"

// Checklist is a row of the checklists table. Items holds the JSON encoded
// flat item list.
type Checklist struct {
	ID             string
	Title          string
	Items          []byte
	CompletedCount int64
	TotalCount     int64
	CreatedAt      int64
	UpdatedAt      int64
}

// ChecklistSummary is a checklists row without the item blob.
type ChecklistSummary struct {
	ID             string
	Title          string
	CompletedCount int64
	TotalCount     int64
	UpdatedAt      int64
}

// KvStore is a row of the kv_store table.
type KvStore struct {
	Key       string
	Value     []byte
	UpdatedAt int64
	ExpiresAt sql.NullInt64
}

package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/data/db"
)

func newTestChecklistStore(t *testing.T) (*ChecklistStore, *db.DB) {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewChecklistStore(database), database
}

func sampleItems() checklist.List {
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	return checklist.List{
		{ID: "a", Text: "Pack", Indent: 0},
		{ID: "b", Text: "Socks", Indent: 1, Completed: true},
		{ID: "c", Text: "Passport", Indent: 1, Priority: checklist.PriorityHigh, DueDate: &due},
	}
}

func TestChecklistStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	c := &checklist.Checklist{Title: "Trip", Items: sampleItems()}
	require.NoError(t, store.Create(ctx, c))
	require.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", got.Title)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Passport", got.Items[2].Text)
	assert.Equal(t, checklist.PriorityHigh, got.Items[2].Priority)
	require.NotNil(t, got.Items[2].DueDate)
	assert.True(t, got.Items[2].DueDate.Equal(*sampleItems()[2].DueDate))
	assert.True(t, got.Items[1].Completed)
}

func TestChecklistStore_CreateEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	c := &checklist.Checklist{ID: "fixed", Title: "Empty"}
	require.NoError(t, store.Create(ctx, c))

	got, err := store.Get(ctx, "fixed")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
}

func TestChecklistStore_GetNotFound(t *testing.T) {
	store, _ := newTestChecklistStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, checklist.ErrNotFound)
}

func TestChecklistStore_Save(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	c := &checklist.Checklist{Title: "Trip", Items: sampleItems()}
	require.NoError(t, store.Create(ctx, c))

	c.Title = "Trip to Lisbon"
	c.Items = c.Items[:1]
	require.NoError(t, store.Save(ctx, c))

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip to Lisbon", got.Title)
	assert.Len(t, got.Items, 1)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, checklist.Summary{ID: c.ID, Title: "Trip to Lisbon", Completed: 0, Total: 1}, summaries[0])
}

func TestChecklistStore_SaveRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	c := &checklist.Checklist{Title: "Trip", Items: sampleItems()}
	require.NoError(t, store.Create(ctx, c))

	c.Items = checklist.List{{ID: "x", Indent: 2}}
	assert.ErrorIs(t, store.Save(ctx, c), checklist.ErrMalformed)
}

func TestChecklistStore_SaveNotFound(t *testing.T) {
	store, _ := newTestChecklistStore(t)

	err := store.Save(context.Background(), &checklist.Checklist{ID: "missing", Items: checklist.List{}})
	assert.ErrorIs(t, err, checklist.ErrNotFound)
}

func TestChecklistStore_GetMalformedRow(t *testing.T) {
	ctx := context.Background()
	store, database := newTestChecklistStore(t)

	require.NoError(t, database.Queries().CreateChecklist(ctx, db.Checklist{
		ID:    "bad",
		Title: "Bad",
		Items: []byte(`[{"id":"a","indent":1}]`),
	}))

	_, err := store.Get(ctx, "bad")
	assert.ErrorIs(t, err, checklist.ErrMalformed)
}

func TestChecklistStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	tick := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}

	first := &checklist.Checklist{ID: "first", Title: "First"}
	second := &checklist.Checklist{ID: "second", Title: "Second"}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Save(ctx, first))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "first", summaries[0].ID)
	assert.Equal(t, "second", summaries[1].ID)
}

func TestChecklistStore_Resolve(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	for _, id := range []string{"abc1", "abc2", "xyz"} {
		require.NoError(t, store.Create(ctx, &checklist.Checklist{ID: id, Title: id}))
	}

	id, err := store.Resolve(ctx, "xy")
	require.NoError(t, err)
	assert.Equal(t, "xyz", id)

	id, err = store.Resolve(ctx, "abc1")
	require.NoError(t, err)
	assert.Equal(t, "abc1", id)

	_, err = store.Resolve(ctx, "abc")
	assert.ErrorIs(t, err, checklist.ErrAmbiguous)

	_, err = store.Resolve(ctx, "nope")
	assert.ErrorIs(t, err, checklist.ErrNotFound)
}

func TestChecklistStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestChecklistStore(t)

	c := &checklist.Checklist{Title: "Trip"}
	require.NoError(t, store.Create(ctx, c))
	require.NoError(t, store.Delete(ctx, c.ID))

	_, err := store.Get(ctx, c.ID)
	require.ErrorIs(t, err, checklist.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, c.ID), checklist.ErrNotFound)
}

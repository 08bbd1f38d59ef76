package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-tracker/ledger"
	"github.com/warp/finance-tracker/ledger/store"
)

// tickingClock returns a clock advancing one second per call, so createdAt
// ordering is deterministic.
func tickingClock() func() time.Time {
	t := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemory_Create_GeneratesIDAndStamps(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.SetClock(tickingClock())

	id, err := m.Create(ctx, ledger.CollectionCards, ledger.Document{"name": "Main"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	docs, err := m.QueryAll(ctx, ledger.CollectionCards)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0][ledger.FieldID])
	assert.NotEmpty(t, docs[0][ledger.FieldCreatedAt])
	assert.Equal(t, docs[0][ledger.FieldCreatedAt], docs[0][ledger.FieldUpdatedAt])
}

func TestMemory_Create_HonorsPresetID(t *testing.T) {
	// Installment rows arrive with their ids already generated; the store
	// must keep them.
	ctx := context.Background()
	m := store.NewMemory()

	id, err := m.Create(ctx, ledger.CollectionTransactions, ledger.Document{ledger.FieldID: "tx-1"})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", id)
}

func TestMemory_Update_MergesFields(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.SetClock(tickingClock())

	id, err := m.Create(ctx, ledger.CollectionCards, ledger.Document{"name": "Main", "limit": 2000.0})
	require.NoError(t, err)

	err = m.Update(ctx, ledger.CollectionCards, id, ledger.Document{"name": "Renamed"})
	require.NoError(t, err)

	docs, err := m.QueryAll(ctx, ledger.CollectionCards)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", docs[0]["name"])
	assert.Equal(t, 2000.0, docs[0]["limit"])
	assert.NotEqual(t, docs[0][ledger.FieldCreatedAt], docs[0][ledger.FieldUpdatedAt])
}

func TestMemory_Update_MissingDocument(t *testing.T) {
	m := store.NewMemory()
	err := m.Update(context.Background(), ledger.CollectionCards, "nope", ledger.Document{})

	var nfErr *store.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestMemory_Delete_AbsentIsNotAnError(t *testing.T) {
	m := store.NewMemory()
	assert.NoError(t, m.Delete(context.Background(), ledger.CollectionTransactions, "nope"))
}

func TestMemory_QueryAll_DescendingByCreated(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.SetClock(tickingClock())

	for _, name := range []string{"first", "second", "third"} {
		_, err := m.Create(ctx, ledger.CollectionTransactions, ledger.Document{"description": name})
		require.NoError(t, err)
	}

	docs, err := m.QueryAll(ctx, ledger.CollectionTransactions, ledger.OrderByCreatedDesc())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "third", docs[0]["description"])
	assert.Equal(t, "first", docs[2]["description"])
}

func TestMemory_QueryAll_ReturnsCopies(t *testing.T) {
	// Mutating a returned document must not leak into the store.
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.Create(ctx, ledger.CollectionCards, ledger.Document{"name": "Main"})
	require.NoError(t, err)

	docs, _ := m.QueryAll(ctx, ledger.CollectionCards)
	docs[0]["name"] = "tampered"

	again, _ := m.QueryAll(ctx, ledger.CollectionCards)
	assert.Equal(t, "Main", again[0]["name"])
}

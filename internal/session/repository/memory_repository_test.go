package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palermo-rentals/storefront/internal/cart"
	"github.com/palermo-rentals/storefront/internal/session"
)

func sampleSnapshot(id string) *session.Snapshot {
	return &session.Snapshot{
		ID: id,
		Cart: cart.Snapshot{
			Items: []cart.LineItem{{ID: "i1", ProductID: "jetski", Persons: 2}},
			Details: map[string]cart.ReservationDetails{
				"i1": {Date: "2026-09-01", Slots: []string{"10:00"}},
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestMemoryRepository_GetNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryRepository_UpsertThenGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleSnapshot("s1")))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	require.Len(t, got.Cart.Items, 1)
	assert.Equal(t, "jetski", got.Cart.Items[0].ProductID)
	assert.Equal(t, []string{"10:00"}, got.Cart.Details["i1"].Slots)
}

func TestMemoryRepository_UpsertOverwrites(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleSnapshot("s1")))

	updated := sampleSnapshot("s1")
	updated.Cart.Items[0].Persons = 4
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Cart.Items[0].Persons)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleSnapshot("s1")))
	require.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, repo.Delete(ctx, "s1"))
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/palermo-rentals/storefront/internal/session"
)

func setupTestDB(t *testing.T) session.SnapshotRepository {
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	return NewMongoRepository(db)
}

func TestMongoGet_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMongoUpsertThenGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleSnapshot("s1")))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	require.Len(t, got.Cart.Items, 1)
	assert.Equal(t, "jetski", got.Cart.Items[0].ProductID)
	assert.Equal(t, "2026-09-01", got.Cart.Details["i1"].Date)
}

func TestMongoUpsert_Overwrites(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleSnapshot("s1")))

	updated := sampleSnapshot("s1")
	updated.Cart.Items[0].Persons = 3
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Cart.Items[0].Persons)
}

func TestMongoDelete(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleSnapshot("s1")))
	require.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

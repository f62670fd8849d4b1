package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palermo-rentals/storefront/internal/cart"
	"github.com/palermo-rentals/storefront/internal/catalog"
	"github.com/palermo-rentals/storefront/internal/checkout"
)

type mockRepo struct {
	m    sync.RWMutex
	snap *Snapshot
	err  error
}

func (m *mockRepo) Get(context.Context, string) (*Snapshot, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.snap == nil {
		return nil, ErrSessionNotFound
	}
	return m.snap, nil
}

func (m *mockRepo) Upsert(_ context.Context, snap *Snapshot) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snap = snap
	return nil
}

func (m *mockRepo) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.snap = nil
	return nil
}

func (m *mockRepo) getSnap() *Snapshot {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.snap
}

type mockCache struct {
	m    sync.RWMutex
	snap *Snapshot
	err  error
}

func (m *mockCache) Get(context.Context, string) (*Snapshot, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.snap == nil {
		return nil, ErrCacheMiss
	}
	return m.snap, nil
}

func (m *mockCache) Set(_ context.Context, snap *Snapshot) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.snap = snap
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.snap = nil
	return m.err
}

func (m *mockCache) getSnap() *Snapshot {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.snap
}

type stubProducts struct{}

func (stubProducts) GetByID(id string) (catalog.Product, bool) {
	if id == "jetski" {
		return catalog.Product{ID: "jetski", Price: 100, MaxPersons: 4}, true
	}
	return catalog.Product{}, false
}

func persistedSnapshot(id string) *Snapshot {
	products := stubProducts{}
	c := cart.New(products)
	itemID, _ := c.AddItem("jetski")
	c.SetReservationDetails(itemID, cart.ReservationDetails{Date: "2026-09-01", Slots: []string{"10:00"}})
	return &Snapshot{
		ID:        id,
		Cart:      c.Snapshot(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestGet_UnknownIDYieldsFreshSession(t *testing.T) {
	sut := NewManager(&mockRepo{}, &mockCache{}, stubProducts{})

	sess, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, 0, sess.Cart.ItemCount())
}

func TestGet_SameIDReturnsSameSession(t *testing.T) {
	sut := NewManager(&mockRepo{}, &mockCache{}, stubProducts{})

	first, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	second, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGet_CacheHitSkipsRepo(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("repo should not be called")}
	cacheMock := &mockCache{snap: persistedSnapshot("s1")}
	sut := NewManager(repo, cacheMock, stubProducts{})

	sess, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.ItemCount())
	assert.Equal(t, 100.0, sess.Cart.Subtotal())
}

func TestGet_RepoHitOnCacheMiss(t *testing.T) {
	repo := &mockRepo{snap: persistedSnapshot("s1")}
	sut := NewManager(repo, &mockCache{}, stubProducts{})

	sess, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.ItemCount())
}

func TestGet_RepoHitPopulatesCache(t *testing.T) {
	repo := &mockRepo{snap: persistedSnapshot("s1")}
	cacheMock := &mockCache{}
	sut := NewManager(repo, cacheMock, stubProducts{})

	_, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap := cacheMock.getSnap()
		return snap != nil && snap.ID == "s1"
	}, 100*time.Millisecond, 10*time.Millisecond, "snapshot was not written back to the cache")
}

func TestGet_RepoErrorPropagates(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("database error")}
	sut := NewManager(repo, &mockCache{}, stubProducts{})

	_, err := sut.Get(context.Background(), "s1")
	require.ErrorContains(t, err, "database error")
}

func TestGet_NilCacheIsFine(t *testing.T) {
	sut := NewManager(&mockRepo{snap: persistedSnapshot("s1")}, nil, stubProducts{})

	sess, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.ItemCount())
}

func TestSave_UpsertsAndInvalidatesCache(t *testing.T) {
	repo := &mockRepo{}
	cacheMock := &mockCache{snap: persistedSnapshot("s1")}
	sut := NewManager(repo, cacheMock, stubProducts{})

	sess, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)

	sess.Lock()
	_, ok := sess.Cart.AddItem("jetski")
	sess.Unlock()
	require.False(t, ok) // already in the persisted cart

	require.NoError(t, sut.Save(context.Background(), sess))

	stored := repo.getSnap()
	require.NotNil(t, stored)
	assert.Equal(t, "s1", stored.ID)
	assert.Len(t, stored.Cart.Items, 1)

	require.Eventually(t, func() bool {
		return cacheMock.getSnap() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestSave_RepoErrorPropagates(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("database error")}
	sut := NewManager(repo, &mockCache{}, stubProducts{})

	sess := newSession("s1", stubProducts{})
	require.ErrorContains(t, sut.Save(context.Background(), sess), "database error")
}

func TestSnapshotRoundTrip_RestoresCheckoutAndCart(t *testing.T) {
	sut := NewManager(&mockRepo{}, nil, stubProducts{})

	sess, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)

	sess.Lock()
	itemID, ok := sess.Cart.AddItem("jetski")
	require.True(t, ok)
	sess.Cart.SetReservationDetails(itemID, cart.ReservationDetails{Date: "2026-09-01", Slots: []string{"10:00", "10:30"}})
	name := "Ana"
	require.NoError(t, sess.Checkout.UpdateCustomer(checkout.Update{Name: &name}))
	sess.Unlock()

	require.NoError(t, sut.Save(context.Background(), sess))

	// A second manager simulates a restart: state comes back from the repo.
	repo := sut.repo
	fresh := NewManager(repo, nil, stubProducts{})
	restored, err := fresh.Get(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 1, restored.Cart.ItemCount())
	assert.Equal(t, 200.0, restored.Cart.Subtotal())
	assert.Equal(t, "Ana", restored.Checkout.Info().Name)
}

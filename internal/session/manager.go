package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/palermo-rentals/storefront/internal/cart"
)

// Manager resolves session ids to live Session state: process memory first,
// then cache, then repository, else a fresh session. Session ids are opaque;
// an id with no persisted state simply yields an empty session.
type Manager struct {
	repo     SnapshotRepository
	cache    SnapshotCache // may be nil when no redis is configured
	products cart.ProductSource
	sfg      singleflight.Group

	mu   sync.RWMutex
	live map[string]*Session
}

func NewManager(repo SnapshotRepository, cache SnapshotCache, products cart.ProductSource) *Manager {
	return &Manager{
		repo:     repo,
		cache:    cache,
		products: products,
		live:     make(map[string]*Session),
	}
}

// Get returns the session for the id, hydrating from cache or repository
// when needed. Concurrent lookups for the same id collapse into one.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.live[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := m.sfg.Do(id, func() (interface{}, error) {
		m.mu.RLock()
		s, ok := m.live[id]
		m.mu.RUnlock()
		if ok {
			return s, nil
		}

		snap, err := m.lookup(ctx, id)
		var hydrated *Session
		switch {
		case err == nil:
			hydrated = fromSnapshot(snap, m.products)
		case errors.Is(err, ErrSessionNotFound):
			hydrated = newSession(id, m.products)
		default:
			return nil, err
		}

		m.mu.Lock()
		m.live[id] = hydrated
		m.mu.Unlock()
		return hydrated, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (m *Manager) lookup(ctx context.Context, id string) (*Snapshot, error) {
	if m.cache != nil {
		snap, err := m.cache.Get(ctx, id)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("session cache get error: %v", err)
		}
	}

	snap, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := m.cache.Set(ctx, snap); errSet != nil {
				log.Printf("session cache set error: %v", errSet)
			}
		}()
	}
	return snap, nil
}

// Save persists the session snapshot and invalidates its cache entry.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	snap := s.snapshot()
	s.UpdatedAt = snap.UpdatedAt

	if err := m.repo.Upsert(ctx, snap); err != nil {
		return err
	}

	if m.cache != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := m.cache.Delete(ctx, s.ID); err != nil {
				log.Printf("session cache invalidate error: %v", err)
			}
		}()
	}
	return nil
}

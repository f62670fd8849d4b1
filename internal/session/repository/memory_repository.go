package repository

import (
	"context"
	"sync"

	"github.com/palermo-rentals/storefront/internal/session"
)

// MemoryRepository keeps snapshots in process memory. Default when no Mongo
// URI is configured; state does not survive a restart.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string]*session.Snapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snapshots: make(map[string]*session.Snapshot)}
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*session.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	out := *snap
	return &out, nil
}

func (m *MemoryRepository) Upsert(_ context.Context, snap *session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *snap
	m.snapshots[snap.ID] = &stored
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

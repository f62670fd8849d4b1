package session

import (
	"context"
	"errors"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCacheMiss       = errors.New("cache miss")
)

// SnapshotRepository persists session snapshots. The manager defines the
// interface; implementations live in the repository subpackage.
type SnapshotRepository interface {
	Get(ctx context.Context, id string) (*Snapshot, error)
	Upsert(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context, id string) error
}

// SnapshotCache is the read-through cache in front of the repository.
// Get returns ErrCacheMiss when the id is not cached.
type SnapshotCache interface {
	Get(ctx context.Context, id string) (*Snapshot, error)
	Set(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context, id string) error
}

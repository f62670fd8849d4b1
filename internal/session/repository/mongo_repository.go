package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/palermo-rentals/storefront/internal/session"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) session.SnapshotRepository {
	return &mongoRepository{collection: db.Collection("sessions")}
}

func (m *mongoRepository) Get(ctx context.Context, id string) (*session.Snapshot, error) {
	var snap session.Snapshot

	filter := bson.M{"_id": id}
	err := m.collection.FindOne(ctx, filter).Decode(&snap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &snap, nil
}

func (m *mongoRepository) Upsert(ctx context.Context, snap *session.Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	filter := bson.M{"_id": snap.ID}
	update := bson.M{"$set": snap}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

func (m *mongoRepository) Delete(ctx context.Context, id string) error {
	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRepository stores one document per (owner, product) pair, guarded by a
// unique compound index so duplicate adds collapse into a single entry.
type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection("wishlists"),
	}
}

func (m *mongoRepository) List(ctx context.Context, ownerID string) ([]domain.WishlistEntry, error) {
	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.WishlistEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist entries: %w", err)
	}
	return entries, nil
}

func (m *mongoRepository) Contains(ctx context.Context, ownerID, productID string) (bool, error) {
	filter := bson.M{"owner_id": ownerID, "product_id": productID}

	err := m.collection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist entry: %w", err)
	}
	return true, nil
}

func (m *mongoRepository) Add(ctx context.Context, ownerID, productID string) error {
	filter := bson.M{"owner_id": ownerID, "product_id": productID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"owner_id":   ownerID,
			"product_id": productID,
			"added_at":   time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

func (m *mongoRepository) Remove(ctx context.Context, ownerID, productID string) error {
	filter := bson.M{"owner_id": ownerID, "product_id": productID}

	_, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}

func (m *mongoRepository) Clear(ctx context.Context, ownerID string) error {
	filter := bson.M{"owner_id": ownerID}

	_, err := m.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "product_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

package cart

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

// mongoRepository stores one document per owner with items as a nested map
// keyed by product id then size. Mutations use $inc/$set/$unset on dotted
// paths so that concurrent requests for the same entry never lose an update.
// Product ids and sizes must not contain '.' or '$' (enforced by the service).
type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}

func itemPath(productID, size string) string {
	return fmt.Sprintf("items.%s.%s", productID, size)
}

func (m *mongoRepository) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"owner_id": ownerID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoRepository) AddItem(ctx context.Context, ownerID, productID, size string) error {
	now := time.Now()

	filter := bson.M{"owner_id": ownerID}
	update := bson.M{
		"$inc":         bson.M{itemPath(productID, size): 1},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return nil
}

func (m *mongoRepository) SetQuantity(ctx context.Context, ownerID, productID, size string, quantity int) error {
	now := time.Now()
	filter := bson.M{"owner_id": ownerID}

	if quantity == 0 {
		update := bson.M{
			"$unset": bson.M{itemPath(productID, size): ""},
			"$set":   bson.M{"updated_at": now},
		}
		result, err := m.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		if result.MatchedCount == 0 {
			return ErrCartNotFound
		}
		return m.pruneEmptyProduct(ctx, ownerID, productID)
	}

	update := bson.M{
		"$set":         bson.M{itemPath(productID, size): quantity, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set quantity: %w", err)
	}
	return nil
}

// pruneEmptyProduct drops the product key once its last size was removed.
// The filter only matches an empty size map, so a concurrent AddItem for the
// same product is never clobbered.
func (m *mongoRepository) pruneEmptyProduct(ctx context.Context, ownerID, productID string) error {
	filter := bson.M{
		"owner_id":           ownerID,
		"items." + productID: bson.M{},
	}
	update := bson.M{
		"$unset": bson.M{"items." + productID: ""},
	}

	_, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to prune empty product: %w", err)
	}
	return nil
}

func (m *mongoRepository) DeleteCart(ctx context.Context, ownerID string) error {
	filter := bson.M{"owner_id": ownerID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

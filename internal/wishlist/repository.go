package wishlist

import (
	"context"
	"errors"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

var ErrEntryNotFound = errors.New("wishlist entry not found")

// Repository defines the interface for wishlist data operations.
// Add must be a no-op for an entry that already exists, and Remove a no-op
// for an absent one; Toggle builds on that.
type Repository interface {
	List(ctx context.Context, ownerID string) ([]domain.WishlistEntry, error)
	Contains(ctx context.Context, ownerID, productID string) (bool, error)
	Add(ctx context.Context, ownerID, productID string) error
	Remove(ctx context.Context, ownerID, productID string) error
	Clear(ctx context.Context, ownerID string) error
}

package cart

import (
	"context"
	"errors"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// Repository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
//
// AddItem and SetQuantity must be atomic per (owner, product, size): two
// concurrent AddItem calls for the same entry both count.
type Repository interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, ownerID, productID, size string) error
	SetQuantity(ctx context.Context, ownerID, productID, size string, quantity int) error
	DeleteCart(ctx context.Context, ownerID string) error
}

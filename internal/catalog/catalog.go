package catalog

import (
	"context"
	"errors"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is the order pipeline's read-only view of live products. Price and
// offered sizes are resolved through it at placement time, never from the cart.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vipinyadav01/zero-fashion/internal/catalog"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// Placement is what the caller gets back from PlaceOrder. For a hosted
// session the client must be redirected; for a signed order the provider
// order id feeds the embedded widget; for cash on delivery the order is
// already final.
type Placement struct {
	Order           *domain.Order
	RedirectURL     string
	ProviderOrderID string
}

// PlaceOrder snapshots the owner's cart against the live catalog, persists a
// Pending order and engages the selected payment adapter. Steps before the
// first write are pure validation; from the adapter call on, a failure must
// never silently lose the order, so it is parked in Payment Failed instead.
func (s *Service) PlaceOrder(ctx context.Context, ownerID string, address domain.Address, method domain.PaymentMethod) (*Placement, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
	if address.Name == "" || address.Street == "" || address.City == "" {
		return nil, ErrInvalidAddress
	}

	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items, err := s.snapshotItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Items:         items,
		Address:       address,
		Status:        domain.OrderStatusPending,
		PaymentMethod: method,
		Paid:          false,
		CreatedAt:     time.Now(),
	}
	order.Amount = order.ItemsTotal() + s.deliveryFee

	if err := s.ledger.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	adapter := s.adapters[method]
	handle, err := adapter.Create(ctx, order)
	if err != nil {
		// The order stays queryable in a terminal state, never deleted.
		if _, failErr := s.ledger.MarkPaymentFailed(ctx, order.ID); failErr != nil {
			log.Printf("failed to park order %s after gateway error: %v", order.ID, failErr)
		}
		return nil, fmt.Errorf("engage payment provider: %w", err)
	}

	if handle.Reference != "" {
		if err := s.ledger.SetGatewayRef(ctx, order.ID, handle.Reference); err != nil {
			if _, failErr := s.ledger.MarkPaymentFailed(ctx, order.ID); failErr != nil {
				log.Printf("failed to park order %s after ref error: %v", order.ID, failErr)
			}
			return nil, fmt.Errorf("store gateway ref: %w", err)
		}
		order.GatewayRef = handle.Reference
	}

	if handle.Confirmed {
		// Cash on delivery: confirmed immediately, paid on the doorstep.
		applied, err := s.ledger.Finalize(ctx, order.ID, false)
		if err != nil {
			return nil, fmt.Errorf("finalize order: %w", err)
		}
		if applied {
			order.Status = domain.OrderStatusPlaced
			s.clearCart(ctx, ownerID)
		}
	}

	return &Placement{
		Order:           order,
		RedirectURL:     handle.RedirectURL,
		ProviderOrderID: handle.Reference,
	}, nil
}

// snapshotItems re-resolves every cart entry against the catalog. Prices are
// taken live here, not from the cart, so the order reflects current pricing.
func (s *Service) snapshotItems(ctx context.Context, cart *domain.Cart) ([]domain.OrderItem, error) {
	productIDs := make([]string, 0, len(cart.Items))
	for productID := range cart.Items {
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs)

	var items []domain.OrderItem
	for _, productID := range productIDs {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, fmt.Errorf("%w: product %s no longer available", ErrStaleCart, productID)
			}
			return nil, fmt.Errorf("resolve product %s: %w", productID, err)
		}

		sizes := make([]string, 0, len(cart.Items[productID]))
		for size := range cart.Items[productID] {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)

		for _, size := range sizes {
			qty := cart.Items[productID][size]
			if qty < 1 {
				continue
			}
			if !product.HasSize(size) {
				return nil, fmt.Errorf("%w: size %s of product %s no longer offered", ErrStaleCart, size, productID)
			}
			items = append(items, domain.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  qty,
				Size:      size,
				ImageRef:  product.ImageRef,
			})
		}
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}

func (s *Service) clearCart(ctx context.Context, ownerID string) {
	if err := s.carts.Clear(ctx, ownerID); err != nil {
		log.Printf("failed to clear cart for %s: %v", ownerID, err)
	}
}

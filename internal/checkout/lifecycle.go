package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
	"github.com/vipinyadav01/zero-fashion/internal/orders"
)

// Cancel lets the buyer cancel an order that has not gone out for delivery.
// A terminal or out-for-delivery order is refused without mutation.
func (s *Service) Cancel(ctx context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.ownedOrder(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanCancel(order.Status) {
		return nil, fmt.Errorf("%w: status is %s", ErrCancelConflict, order.Status)
	}

	err = s.ledger.AdvanceStatus(ctx, orderID, order.Status, domain.OrderStatusCancelled)
	if err != nil {
		if errors.Is(err, orders.ErrStatusConflict) {
			// Lost a race with another transition; re-read and refuse.
			return nil, fmt.Errorf("%w: order changed concurrently", ErrCancelConflict)
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	return s.ledger.GetOrderByID(ctx, orderID)
}

// AdvanceStatus is the operator path through the fulfillment states. Only
// forward movement is allowed; regression and jumps into side states are
// rejected.
func (s *Service) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.ledger.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransitionTo(order.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, to)
	}

	err = s.ledger.AdvanceStatus(ctx, orderID, order.Status, to)
	if err != nil {
		if errors.Is(err, orders.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: order changed concurrently", ErrIllegalTransition)
		}
		return nil, fmt.Errorf("advance order status: %w", err)
	}

	return s.ledger.GetOrderByID(ctx, orderID)
}

// UserOrders lists the owner's orders, newest first.
func (s *Service) UserOrders(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return s.ledger.ListOrdersByOwner(ctx, ownerID)
}

// AllOrders is the operator view over the whole ledger.
func (s *Service) AllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.ledger.ListAllOrders(ctx)
}

// Order returns one order, owner-scoped.
func (s *Service) Order(ctx context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error) {
	return s.ownedOrder(ctx, ownerID, orderID)
}

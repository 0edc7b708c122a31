package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
	"github.com/vipinyadav01/zero-fashion/internal/payment"
)

// VerifyHostedReturn reconciles a client returning from a hosted checkout
// session. The reported flag from the redirect is untrusted; the adapter
// re-derives the outcome from the provider. Safe to call repeatedly for the
// same order: once the confirmation has been applied the call short-circuits
// to the current state without re-running side effects.
func (s *Service) VerifyHostedReturn(ctx context.Context, ownerID string, orderID uuid.UUID, reportedSuccess bool) (*domain.Order, error) {
	order, err := s.ownedOrder(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != domain.PaymentMethodHostedCheckout {
		return nil, fmt.Errorf("%w: order was not placed through a hosted session", ErrVerifyMismatch)
	}

	// Already reconciled, either way.
	if order.Status != domain.OrderStatusPending {
		if order.Paid {
			return order, nil
		}
		return order, ErrVerifyRejected
	}

	adapter := s.adapters[domain.PaymentMethodHostedCheckout]
	verification, err := adapter.Verify(ctx, payment.VerifyRequest{
		GatewayRef:      order.GatewayRef,
		LocalOrderID:    order.ID.String(),
		ReportedSuccess: reportedSuccess,
	})
	if err != nil {
		return nil, err
	}
	if verification.Receipt != "" && verification.Receipt != order.ID.String() {
		return nil, fmt.Errorf("%w: session belongs to a different order", ErrVerifyMismatch)
	}

	return s.applyOutcome(ctx, order, verification.Outcome)
}

// VerifySignedReceipt reconciles a provider order id submitted by the client
// after an embedded-widget payment. The provider is queried independently and
// its receipt must name the local order, which blocks replaying another
// order's payment id.
func (s *Service) VerifySignedReceipt(ctx context.Context, ownerID, providerOrderID string) (*domain.Order, error) {
	adapter := s.adapters[domain.PaymentMethodSignedOrder]
	verification, err := adapter.Verify(ctx, payment.VerifyRequest{
		GatewayRef: providerOrderID,
	})
	if err != nil {
		return nil, err
	}

	localID, err := uuid.Parse(verification.Receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: provider receipt is not an order id", ErrVerifyMismatch)
	}

	order, err := s.ownedOrder(ctx, ownerID, localID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != domain.PaymentMethodSignedOrder || order.GatewayRef != providerOrderID {
		return nil, fmt.Errorf("%w: payment does not belong to this order", ErrVerifyMismatch)
	}

	// Already reconciled.
	if order.Status != domain.OrderStatusPending {
		if order.Paid {
			return order, nil
		}
		return order, ErrVerifyRejected
	}

	if verification.Outcome != payment.OutcomeConfirmed {
		// The widget may still complete the payment; leave the order
		// Pending and unpaid rather than failing it on a premature check.
		return order, ErrVerifyRejected
	}

	return s.applyOutcome(ctx, order, verification.Outcome)
}

// applyOutcome applies a provider-derived outcome exactly once, keyed on the
// order's gateway ref. When the conditional update reports the transition was
// already applied, the cart clear is skipped.
func (s *Service) applyOutcome(ctx context.Context, order *domain.Order, outcome payment.Outcome) (*domain.Order, error) {
	if outcome == payment.OutcomeConfirmed {
		applied, err := s.ledger.ConfirmByGatewayRef(ctx, order.GatewayRef)
		if err != nil {
			return nil, fmt.Errorf("confirm order: %w", err)
		}
		if applied {
			s.clearCart(ctx, order.OwnerID)
		}
		return s.ledger.GetOrderByID(ctx, order.ID)
	}

	if _, err := s.ledger.FailByGatewayRef(ctx, order.GatewayRef); err != nil {
		return nil, fmt.Errorf("fail order: %w", err)
	}
	updated, err := s.ledger.GetOrderByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return updated, ErrVerifyRejected
}

func (s *Service) ownedOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.ledger.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != ownerID {
		// Do not leak other owners' orders.
		return nil, fmt.Errorf("%w: order %s", ErrVerifyMismatch, orderID)
	}
	return order, nil
}

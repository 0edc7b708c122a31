package payment

import (
	"context"
	"fmt"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// SignedOrder opens a provider-side order keyed with the local order id as
// its receipt. The provider order id is handed to an embedded checkout
// widget; Verify re-queries the provider and the returned receipt lets the
// caller prove the payment belongs to its order, which blocks replaying
// another order's payment id.
type SignedOrder struct {
	client   *Client
	currency string
}

func NewSignedOrder(client *Client) *SignedOrder {
	return &SignedOrder{client: client, currency: "INR"}
}

func (s *SignedOrder) Method() domain.PaymentMethod {
	return domain.PaymentMethodSignedOrder
}

type createProviderOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type providerOrderResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Receipt string `json:"receipt"`
	Amount  int64  `json:"amount"`
}

func (s *SignedOrder) Create(ctx context.Context, order *domain.Order) (*Handle, error) {
	req := createProviderOrderRequest{
		Amount:   minorUnits(order.Amount),
		Currency: s.currency,
		Receipt:  order.ID.String(),
	}

	var resp providerOrderResponse
	if err := s.client.Post(ctx, "/v1/orders", req, &resp); err != nil {
		return nil, fmt.Errorf("create provider order: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: provider order response missing id", ErrGateway)
	}

	return &Handle{Reference: resp.ID}, nil
}

func (s *SignedOrder) Verify(ctx context.Context, req VerifyRequest) (*Verification, error) {
	if req.GatewayRef == "" {
		return nil, fmt.Errorf("%w: missing provider order reference", ErrGateway)
	}

	var resp providerOrderResponse
	if err := s.client.Get(ctx, "/v1/orders/"+req.GatewayRef, &resp); err != nil {
		return nil, fmt.Errorf("look up provider order: %w", err)
	}

	verification := &Verification{
		Outcome: OutcomeRejected,
		Receipt: resp.Receipt,
	}
	if resp.Status == "paid" {
		verification.Outcome = OutcomeConfirmed
	}
	return verification, nil
}

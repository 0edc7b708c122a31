package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// HostedCheckout opens a redirect-based checkout session with the provider.
// The session manifest carries one line per order item plus a delivery-fee
// line, and the local order id travels as the session's client reference.
//
// Verify never trusts the redirect's success flag: the session status is
// re-read from the provider and only its answer decides the outcome.
type HostedCheckout struct {
	client      *Client
	deliveryFee float64
	successURL  string
	cancelURL   string
	currency    string
}

func NewHostedCheckout(client *Client, deliveryFee float64, successURL, cancelURL string) *HostedCheckout {
	return &HostedCheckout{
		client:      client,
		deliveryFee: deliveryFee,
		successURL:  successURL,
		cancelURL:   cancelURL,
		currency:    "usd",
	}
}

func (h *HostedCheckout) Method() domain.PaymentMethod {
	return domain.PaymentMethodHostedCheckout
}

type sessionLine struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
	Currency   string `json:"currency"`
}

type createSessionRequest struct {
	ClientReferenceID string        `json:"client_reference_id"`
	LineItems         []sessionLine `json:"line_items"`
	SuccessURL        string        `json:"success_url"`
	CancelURL         string        `json:"cancel_url"`
}

type sessionResponse struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	ClientReferenceID string `json:"client_reference_id"`
	PaymentStatus     string `json:"payment_status"`
}

func (h *HostedCheckout) Create(ctx context.Context, order *domain.Order) (*Handle, error) {
	lines := make([]sessionLine, 0, len(order.Items)+1)
	for _, item := range order.Items {
		lines = append(lines, sessionLine{
			Name:       fmt.Sprintf("%s (%s)", item.Name, item.Size),
			UnitAmount: minorUnits(item.UnitPrice),
			Quantity:   item.Quantity,
			Currency:   h.currency,
		})
	}
	lines = append(lines, sessionLine{
		Name:       "Delivery Fee",
		UnitAmount: minorUnits(h.deliveryFee),
		Quantity:   1,
		Currency:   h.currency,
	})

	req := createSessionRequest{
		ClientReferenceID: order.ID.String(),
		LineItems:         lines,
		SuccessURL:        fmt.Sprintf("%s?success=true&orderId=%s", h.successURL, order.ID),
		CancelURL:         fmt.Sprintf("%s?success=false&orderId=%s", h.cancelURL, order.ID),
	}

	var resp sessionResponse
	if err := h.client.Post(ctx, "/v1/checkout/sessions", req, &resp); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if resp.ID == "" || resp.URL == "" {
		return nil, fmt.Errorf("%w: session response missing id or url", ErrGateway)
	}

	return &Handle{Reference: resp.ID, RedirectURL: resp.URL}, nil
}

func (h *HostedCheckout) Verify(ctx context.Context, req VerifyRequest) (*Verification, error) {
	if req.GatewayRef == "" {
		return nil, fmt.Errorf("%w: missing session reference", ErrGateway)
	}

	var resp sessionResponse
	if err := h.client.Get(ctx, "/v1/checkout/sessions/"+req.GatewayRef, &resp); err != nil {
		return nil, fmt.Errorf("look up checkout session: %w", err)
	}

	verification := &Verification{
		Outcome: OutcomeRejected,
		Receipt: resp.ClientReferenceID,
	}
	if resp.PaymentStatus == "paid" {
		verification.Outcome = OutcomeConfirmed
	}
	return verification, nil
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vipinyadav01/zero-fashion/internal/checkout"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// CheckoutService is what the order endpoints need from the checkout layer.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, ownerID string, address domain.Address, method domain.PaymentMethod) (*checkout.Placement, error)
	VerifyHostedReturn(ctx context.Context, ownerID string, orderID uuid.UUID, reportedSuccess bool) (*domain.Order, error)
	VerifySignedReceipt(ctx context.Context, ownerID, providerOrderID string) (*domain.Order, error)
	Cancel(ctx context.Context, ownerID string, orderID uuid.UUID) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
	UserOrders(ctx context.Context, ownerID string) ([]*domain.Order, error)
	AllOrders(ctx context.Context) ([]*domain.Order, error)
}

type OrderHandler struct {
	checkout CheckoutService
	timeout  time.Duration
}

func NewOrderHandler(checkout CheckoutService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type PlaceOrderRequestDTO struct {
	Address domain.Address `json:"address"`
}

type PlacedOrderDTO struct {
	Order           *domain.Order `json:"order"`
	RedirectURL     string        `json:"session_url,omitempty"`
	ProviderOrderID string        `json:"provider_order_id,omitempty"`
}

type HostedVerifyRequestDTO struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
}

type SignedVerifyRequestDTO struct {
	ProviderOrderID string `json:"provider_order_id"`
}

type CancelOrderRequestDTO struct {
	OrderID string `json:"orderId"`
}

type UpdateStatusRequestDTO struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (h *OrderHandler) place(w http.ResponseWriter, r *http.Request, method domain.PaymentMethod) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	placement, err := h.checkout.PlaceOrder(ctx, identity.UserID, req.Address, method)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	log.Printf("order %s placed by %s via %s request-id=%s",
		placement.Order.ID, identity.UserID, method, getRequestID(r.Context()))

	respondJSON(w, http.StatusCreated, PlacedOrderDTO{
		Order:           placement.Order,
		RedirectURL:     placement.RedirectURL,
		ProviderOrderID: placement.ProviderOrderID,
	})
}

// PlaceCOD places a cash-on-delivery order; no provider round trip.
func (h *OrderHandler) PlaceCOD(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, domain.PaymentMethodCOD)
}

// PlaceHosted creates the order plus a hosted checkout session and returns
// the redirect URL.
func (h *OrderHandler) PlaceHosted(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, domain.PaymentMethodHostedCheckout)
}

// PlaceSigned creates the order plus a provider-side order for the embedded
// widget.
func (h *OrderHandler) PlaceSigned(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, domain.PaymentMethodSignedOrder)
}

// VerifyHosted reconciles the redirect back from a hosted session. The
// success flag the client carries is advisory only; the provider decides.
func (h *OrderHandler) VerifyHosted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req HostedVerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderId must be a UUID")
		return
	}

	order, err := h.checkout.VerifyHostedReturn(ctx, identity.UserID, orderID, req.Success)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// VerifySigned reconciles a provider order id reported by the embedded
// widget.
func (h *OrderHandler) VerifySigned(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req SignedVerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProviderOrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "provider_order_id is required")
		return
	}

	order, err := h.checkout.VerifySignedReceipt(ctx, identity.UserID, req.ProviderOrderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CancelOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderId must be a UUID")
		return
	}

	order, err := h.checkout.Cancel(ctx, identity.UserID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UserOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.checkout.UserOrders(ctx, identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// ListAll is the operator view; routed behind AdminOnly.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.checkout.AllOrders(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// UpdateStatus advances an order through fulfillment; routed behind
// AdminOnly.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderId must be a UUID")
		return
	}

	order, err := h.checkout.AdvanceStatus(ctx, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

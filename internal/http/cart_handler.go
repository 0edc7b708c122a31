package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// CartService is what the cart endpoints need from the cart layer.
type CartService interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Add(ctx context.Context, ownerID, productID, size string) error
	SetQuantity(ctx context.Context, ownerID, productID, size string, quantity int) error
	Clear(ctx context.Context, ownerID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type CartItemRequestDTO struct {
	ProductID string `json:"itemId"`
	Size      string `json:"size"`
}

type UpdateCartRequestDTO struct {
	ProductID string `json:"itemId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type CartResponseDTO struct {
	Items map[string]map[string]int `json:"cartData"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.carts.Add(ctx, identity.UserID, req.ProductID, req.Size); err != nil {
		handleServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "added to cart")
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req UpdateCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.carts.SetQuantity(ctx, identity.UserID, req.ProductID, req.Size, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "cart updated")
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.carts.Get(ctx, identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: cart.Items})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.Clear(ctx, identity.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "cart cleared")
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// WishlistService is what the wishlist endpoints need.
type WishlistService interface {
	Toggle(ctx context.Context, ownerID, productID string) (bool, error)
	List(ctx context.Context, ownerID string) ([]domain.WishlistEntry, error)
	Clear(ctx context.Context, ownerID string) error
}

type WishlistHandler struct {
	wishlist WishlistService
	timeout  time.Duration
}

func NewWishlistHandler(wishlist WishlistService, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		timeout:  timeout,
	}
}

type WishlistToggleRequestDTO struct {
	ProductID string `json:"itemId"`
}

type WishlistToggleResponseDTO struct {
	InWishlist bool `json:"in_wishlist"`
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req WishlistToggleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "itemId is required")
		return
	}

	inWishlist, err := h.wishlist.Toggle(ctx, identity.UserID, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, WishlistToggleResponseDTO{InWishlist: inWishlist})
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	entries, err := h.wishlist.List(ctx, identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.wishlist.Clear(ctx, identity.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "wishlist cleared")
}

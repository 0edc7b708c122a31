package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/vipinyadav01/zero-fashion/internal/cart"
	"github.com/vipinyadav01/zero-fashion/internal/checkout"
	"github.com/vipinyadav01/zero-fashion/internal/orders"
	"github.com/vipinyadav01/zero-fashion/internal/payment"
)

// Response is the envelope every endpoint answers with. Code is only set on
// failures and is machine-readable; Message is for humans.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Message: message}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: false, Code: code, Message: message}); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// handleServiceError maps service sentinel errors to HTTP statuses and
// machine-readable codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrStaleCart):
		respondError(w, http.StatusConflict, "stale_cart", err.Error())
	case errors.Is(err, checkout.ErrInvalidAddress):
		respondError(w, http.StatusBadRequest, "invalid_address", "delivery address is incomplete")
	case errors.Is(err, checkout.ErrUnknownPaymentMethod):
		respondError(w, http.StatusBadRequest, "unknown_payment_method", err.Error())
	case errors.Is(err, checkout.ErrCancelConflict):
		respondError(w, http.StatusConflict, "cancel_conflict", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, checkout.ErrVerifyMismatch):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, checkout.ErrVerifyRejected):
		respondError(w, http.StatusPaymentRequired, "payment_rejected", "payment was not completed")
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, payment.ErrGateway):
		respondError(w, http.StatusBadGateway, "gateway_error", "payment provider unavailable")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

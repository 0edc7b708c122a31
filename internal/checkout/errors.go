package checkout

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrStaleCart            = errors.New("cart no longer matches the catalog")
	ErrInvalidAddress       = errors.New("delivery address is incomplete")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrCancelConflict       = errors.New("order can no longer be cancelled")
	ErrIllegalTransition    = errors.New("illegal transition of order status")
	ErrVerifyMismatch       = errors.New("payment reference does not match the order")
	ErrVerifyRejected       = errors.New("payment not confirmed by provider")
)

package payment

import (
	"context"
	"fmt"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// CashOnDelivery confirms the order immediately; payment happens physically
// on delivery, so the order stays unpaid and there is no verify step.
type CashOnDelivery struct{}

func NewCashOnDelivery() *CashOnDelivery {
	return &CashOnDelivery{}
}

func (c *CashOnDelivery) Method() domain.PaymentMethod {
	return domain.PaymentMethodCOD
}

func (c *CashOnDelivery) Create(_ context.Context, _ *domain.Order) (*Handle, error) {
	return &Handle{Confirmed: true}, nil
}

func (c *CashOnDelivery) Verify(context.Context, VerifyRequest) (*Verification, error) {
	return nil, fmt.Errorf("%w: cash on delivery has no verify step", ErrGateway)
}

package payment

import (
	"context"
	"errors"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

var ErrGateway = errors.New("payment provider error")

type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeRejected  Outcome = "rejected"
)

// Handle is the adapter-specific correlation data returned from Create. The
// Reference is persisted on the order as its gateway ref so a later Verify
// can be matched back to exactly one order.
type Handle struct {
	// Reference is the provider-side id (session id or provider order id).
	// Empty for cash on delivery.
	Reference string
	// RedirectURL is where the client must be sent for a hosted session.
	RedirectURL string
	// Confirmed marks an immediately-confirmed placement (cash on delivery);
	// no Verify step will follow.
	Confirmed bool
}

// VerifyRequest carries what the client or provider handed back. The
// ReportedSuccess flag comes from a redirect query string and is untrusted:
// adapters never confirm on it, only the provider's own answer counts.
type VerifyRequest struct {
	// GatewayRef is the provider-side reference to check.
	GatewayRef string
	// LocalOrderID is the order the caller believes the reference belongs to.
	LocalOrderID string
	// ReportedSuccess is the client-reported outcome. Hint only.
	ReportedSuccess bool
}

// Verification is the provider-derived truth about one reference.
type Verification struct {
	Outcome Outcome
	// Receipt is the local order id the provider has on record for this
	// reference, when the protocol carries one.
	Receipt string
}

// Adapter abstracts one payment protocol. Create is called once at placement
// time; Verify must be safe to call any number of times for the same
// reference.
type Adapter interface {
	Method() domain.PaymentMethod
	Create(ctx context.Context, order *domain.Order) (*Handle, error)
	Verify(ctx context.Context, req VerifyRequest) (*Verification, error)
}

package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
	"github.com/vipinyadav01/zero-fashion/internal/payment"
)

// Carts is the slice of the cart service the reconciliation flow needs.
type Carts interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Clear(ctx context.Context, ownerID string) error
}

// Ledger is the order store as seen from reconciliation. The conditional
// Confirm/Fail methods report whether this call changed the row; a false
// return means the transition was already applied and side effects must be
// skipped.
type Ledger interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	SetGatewayRef(ctx context.Context, id uuid.UUID, ref string) error
	AdvanceStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error
	Finalize(ctx context.Context, id uuid.UUID, markPaid bool) (bool, error)
	ConfirmByGatewayRef(ctx context.Context, ref string) (bool, error)
	FailByGatewayRef(ctx context.Context, ref string) (bool, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	carts       Carts
	catalog     Catalog
	ledger      Ledger
	adapters    map[domain.PaymentMethod]payment.Adapter
	deliveryFee float64
}

// Catalog resolves live product data at placement time.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

func NewService(carts Carts, catalog Catalog, ledger Ledger, deliveryFee float64, adapters ...payment.Adapter) *Service {
	byMethod := make(map[domain.PaymentMethod]payment.Adapter, len(adapters))
	for _, a := range adapters {
		byMethod[a.Method()] = a
	}
	return &Service{
		carts:       carts,
		catalog:     catalog,
		ledger:      ledger,
		adapters:    byMethod,
		deliveryFee: deliveryFee,
	}
}

package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrStatusConflict = errors.New("order status conflict")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is one pending lifecycle event written in the same transaction
// as the order mutation that produced it.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// Event types written to the outbox.
const (
	EventOrderPlaced    = "order_placed"
	EventPaymentFailed  = "payment_failed"
	EventOrderCancelled = "order_cancelled"
	EventStatusChanged  = "order_status_changed"
)

// OrderRepository is the order ledger. Orders are created once and mutated
// only through the guarded transition methods; none of them deletes a row.
//
// ConfirmByGatewayRef and FailByGatewayRef are conditional: they apply only
// while the order is still Pending and report whether this call changed the
// row, which is what makes verify idempotent under at-least-once delivery.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByGatewayRef(ctx context.Context, ref string) (*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)

	SetGatewayRef(ctx context.Context, id uuid.UUID, ref string) error
	AdvanceStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error
	Finalize(ctx context.Context, id uuid.UUID, markPaid bool) (bool, error)
	ConfirmByGatewayRef(ctx context.Context, ref string) (bool, error)
	FailByGatewayRef(ctx context.Context, ref string) (bool, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) (bool, error)

	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error

	RunMigrations(*Credentials) error
	Close() error
}

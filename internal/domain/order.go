package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusPacking        OrderStatus = "Packing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
	OrderStatusPaymentFailed  OrderStatus = "Payment Failed"
)

// statusRank orders the forward fulfillment states. Terminal side states
// (Cancelled, Payment Failed) are not ranked; they are entered through
// their own rules, never through an operator advance.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusPlaced:         1,
	OrderStatusPacking:        2,
	OrderStatusShipped:        3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusPaymentFailed
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether an operator advance from one fulfillment
// state to another is legal. Transitions are forward-only: a Delivered order
// cannot regress to Packing.
func CanTransitionTo(from, to OrderStatus) bool {
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank > fromRank
}

// CanCancel reports whether the buyer may still cancel. Once the order is
// out for delivery (or in a terminal state) cancellation is refused.
func CanCancel(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPlaced, OrderStatusPacking, OrderStatusShipped:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD            PaymentMethod = "COD"
	PaymentMethodHostedCheckout PaymentMethod = "HostedCheckout"
	PaymentMethodSignedOrder    PaymentMethod = "SignedOrder"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodHostedCheckout, PaymentMethodSignedOrder:
		return true
	}
	return false
}

// OrderItem is a snapshot of one cart line taken at placement time. Name and
// unit price are copied from the catalog so later catalog changes cannot
// retroactively alter a placed order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

type Order struct {
	ID            uuid.UUID     `json:"id"`
	OwnerID       string        `json:"owner_id"`
	Items         []OrderItem   `json:"items"`
	Amount        float64       `json:"amount"`
	Address       Address       `json:"address"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Paid          bool          `json:"paid"`
	GatewayRef    string        `json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ItemsTotal sums unit price times quantity over the snapshot. The order
// amount equals this plus the delivery fee charged at placement time.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

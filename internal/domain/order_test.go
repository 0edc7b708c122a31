package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_Forward(t *testing.T) {
	assert.True(t, CanTransitionTo(OrderStatusPending, OrderStatusPlaced))
	assert.True(t, CanTransitionTo(OrderStatusPlaced, OrderStatusShipped))
	assert.True(t, CanTransitionTo(OrderStatusPacking, OrderStatusDelivered))
}

func TestCanTransitionTo_NoRegression(t *testing.T) {
	assert.False(t, CanTransitionTo(OrderStatusDelivered, OrderStatusPacking))
	assert.False(t, CanTransitionTo(OrderStatusShipped, OrderStatusShipped))
	assert.False(t, CanTransitionTo(OrderStatusPlaced, OrderStatusPending))
}

func TestCanTransitionTo_SideStatesNotReachableByAdvance(t *testing.T) {
	assert.False(t, CanTransitionTo(OrderStatusPending, OrderStatusCancelled))
	assert.False(t, CanTransitionTo(OrderStatusPending, OrderStatusPaymentFailed))
	assert.False(t, CanTransitionTo(OrderStatusCancelled, OrderStatusPlaced))
}

func TestCanCancel(t *testing.T) {
	cancellable := []OrderStatus{OrderStatusPending, OrderStatusPlaced, OrderStatusPacking, OrderStatusShipped}
	for _, s := range cancellable {
		assert.True(t, CanCancel(s), "expected %s to be cancellable", s)
	}

	fixed := []OrderStatus{OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled, OrderStatusPaymentFailed}
	for _, s := range fixed {
		assert.False(t, CanCancel(s), "expected %s not to be cancellable", s)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusPaymentFailed.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestItemsTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: "a", UnitPrice: 100, Quantity: 2},
			{ProductID: "b", UnitPrice: 35.5, Quantity: 1},
		},
	}
	assert.InDelta(t, 235.5, order.ItemsTotal(), 0.001)
}

func TestCartQuantityAndUnits(t *testing.T) {
	cart := NewCart("user-1")
	cart.Items["shirt-1"] = map[string]int{"M": 2, "L": 1}

	assert.Equal(t, 2, cart.Quantity("shirt-1", "M"))
	assert.Equal(t, 0, cart.Quantity("shirt-1", "XL"))
	assert.Equal(t, 0, cart.Quantity("missing", "M"))
	assert.Equal(t, 3, cart.TotalUnits())
	assert.False(t, cart.IsEmpty())
	assert.True(t, NewCart("user-2").IsEmpty())
}

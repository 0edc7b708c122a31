package domain

import "time"

// Cart is the authoritative per-owner mapping of (product, size) to quantity.
// A stored quantity is always >= 1: setting a quantity to zero removes the
// size, and a product with no remaining sizes is removed entirely.
type Cart struct {
	ID        string                    `bson:"_id,omitempty" json:"-"`
	OwnerID   string                    `bson:"owner_id" json:"ownerId"`
	Items     map[string]map[string]int `bson:"items" json:"items"`
	CreatedAt time.Time                 `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time                 `bson:"updated_at" json:"updatedAt"`
}

func NewCart(ownerID string) *Cart {
	now := time.Now()
	return &Cart{
		OwnerID:   ownerID,
		Items:     map[string]map[string]int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) Quantity(productID, size string) int {
	if sizes, ok := c.Items[productID]; ok {
		return sizes[size]
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	for _, sizes := range c.Items {
		for _, qty := range sizes {
			if qty > 0 {
				return false
			}
		}
	}
	return true
}

// TotalUnits counts every unit across all products and sizes.
func (c *Cart) TotalUnits() int {
	total := 0
	for _, sizes := range c.Items {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

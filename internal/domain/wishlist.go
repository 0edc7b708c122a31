package domain

import "time"

// WishlistEntry is unique per (owner, product).
type WishlistEntry struct {
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	ProductID string    `bson:"product_id" json:"productId"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

package storeclient

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MutationState tracks one optimistic mutation through its lifecycle.
type MutationState string

const (
	// StateApplied means the mirror was updated locally and the server
	// call is in flight.
	StateApplied MutationState = "applied"
	// StateConfirmed means the server accepted the mutation; the snapshot
	// it produced is now the durable baseline.
	StateConfirmed MutationState = "confirmed"
	// StateRolledBack means the server rejected the mutation and the
	// mirror was restored from the last confirmed snapshot.
	StateRolledBack MutationState = "rolledback"
)

// Mutation is the record of one optimistic change.
type Mutation struct {
	Op    string
	State MutationState
}

// Cache is the client-held optimistic mirror of cart and wishlist state.
// Every mutation updates the mirror first, then calls the server; a rejected
// call restores the last confirmed snapshot, so the mirror never drifts
// further than one failed mutation from server truth.
type Cache struct {
	mu        sync.Mutex
	api       API
	store     SnapshotStore
	current   *Snapshot
	confirmed *Snapshot
	history   []Mutation
}

// NewCache loads the last confirmed snapshot from the store so an earlier
// session's state survives restarts.
func NewCache(api API, store SnapshotStore) (*Cache, error) {
	confirmed, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &Cache{
		api:       api,
		store:     store,
		current:   confirmed.clone(),
		confirmed: confirmed,
	}, nil
}

// Cart returns a copy of the mirrored cart.
func (c *Cache) Cart() map[string]map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.clone().Cart
}

// Wishlist returns the mirrored wishlist product ids, sorted.
func (c *Cache) Wishlist() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.current.Wishlist...)
	sort.Strings(out)
	return out
}

// Mutations returns the recorded mutation history, oldest first.
func (c *Cache) Mutations() []Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Mutation(nil), c.history...)
}

// AddCartItem optimistically increments the entry, then reports it to the
// server.
func (c *Cache) AddCartItem(ctx context.Context, productID, size string) error {
	return c.mutate(ctx, "cart.add", func(s *Snapshot) {
		sizes, ok := s.Cart[productID]
		if !ok {
			sizes = map[string]int{}
			s.Cart[productID] = sizes
		}
		sizes[size]++
	}, func(ctx context.Context) error {
		return c.api.AddCartItem(ctx, productID, size)
	})
}

// SetCartQuantity optimistically sets the entry quantity; zero removes it,
// and removing a product's last size drops the product.
func (c *Cache) SetCartQuantity(ctx context.Context, productID, size string, quantity int) error {
	return c.mutate(ctx, "cart.update", func(s *Snapshot) {
		if quantity <= 0 {
			if sizes, ok := s.Cart[productID]; ok {
				delete(sizes, size)
				if len(sizes) == 0 {
					delete(s.Cart, productID)
				}
			}
			return
		}
		sizes, ok := s.Cart[productID]
		if !ok {
			sizes = map[string]int{}
			s.Cart[productID] = sizes
		}
		sizes[size] = quantity
	}, func(ctx context.Context) error {
		return c.api.UpdateCartItem(ctx, productID, size, quantity)
	})
}

// ClearCart empties the mirrored cart and the server cart.
func (c *Cache) ClearCart(ctx context.Context) error {
	return c.mutate(ctx, "cart.clear", func(s *Snapshot) {
		s.Cart = map[string]map[string]int{}
	}, c.api.ClearCart)
}

// ToggleWishlist flips membership locally, then lets the server answer
// settle the final state. The flip is safe in both directions: toggling an
// absent product adds it, toggling a present one removes it.
func (c *Cache) ToggleWishlist(ctx context.Context, productID string) error {
	return c.mutate(ctx, "wishlist.toggle", func(s *Snapshot) {
		for i, id := range s.Wishlist {
			if id == productID {
				s.Wishlist = append(s.Wishlist[:i], s.Wishlist[i+1:]...)
				return
			}
		}
		s.Wishlist = append(s.Wishlist, productID)
	}, func(ctx context.Context) error {
		_, err := c.api.ToggleWishlist(ctx, productID)
		return err
	})
}

// DropMirror discards local state after a successful checkout cleared the
// server cart.
func (c *Cache) DropMirror() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Cart = map[string]map[string]int{}
	c.confirmed = c.current.clone()
	return c.store.Save(c.confirmed)
}

// Refresh replaces the mirror with server truth.
func (c *Cache) Refresh(ctx context.Context) error {
	items, err := c.api.FetchCart(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Cart = items
	c.confirmed = c.current.clone()
	return c.store.Save(c.confirmed)
}

// mutate runs one optimistic mutation through the
// applied -> confirmed | rolledback lifecycle.
func (c *Cache) mutate(ctx context.Context, op string, apply func(*Snapshot), call func(context.Context) error) error {
	c.mu.Lock()
	apply(c.current)
	idx := len(c.history)
	c.history = append(c.history, Mutation{Op: op, State: StateApplied})
	c.mu.Unlock()

	err := call(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.current = c.confirmed.clone()
		c.history[idx].State = StateRolledBack
		return err
	}

	c.confirmed = c.current.clone()
	c.history[idx].State = StateConfirmed
	if saveErr := c.store.Save(c.confirmed); saveErr != nil {
		return fmt.Errorf("persist snapshot: %w", saveErr)
	}
	return nil
}

package cart

import (
	"context"
	"sync"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// MemoryRepository implements Repository with in-memory storage. It serializes
// mutations behind a single mutex, which gives the same lost-update safety the
// MongoDB implementation gets from atomic field updates.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]*domain.Cart),
	}
}

func (m *MemoryRepository) GetCart(_ context.Context, ownerID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cart, ok := m.carts[ownerID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (m *MemoryRepository) AddItem(_ context.Context, ownerID, productID, size string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[ownerID]
	if !ok {
		cart = domain.NewCart(ownerID)
		m.carts[ownerID] = cart
	}
	if cart.Items[productID] == nil {
		cart.Items[productID] = map[string]int{}
	}
	cart.Items[productID][size]++
	cart.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) SetQuantity(_ context.Context, ownerID, productID, size string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[ownerID]
	if !ok {
		if quantity == 0 {
			return ErrCartNotFound
		}
		cart = domain.NewCart(ownerID)
		m.carts[ownerID] = cart
	}

	if quantity == 0 {
		if sizes, exists := cart.Items[productID]; exists {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(cart.Items, productID)
			}
		}
	} else {
		if cart.Items[productID] == nil {
			cart.Items[productID] = map[string]int{}
		}
		cart.Items[productID][size] = quantity
	}
	cart.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) DeleteCart(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[ownerID]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, ownerID)
	return nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	clone := &domain.Cart{
		ID:        cart.ID,
		OwnerID:   cart.OwnerID,
		Items:     make(map[string]map[string]int, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for productID, sizes := range cart.Items {
		clone.Items[productID] = make(map[string]int, len(sizes))
		for size, qty := range sizes {
			clone.Items[productID][size] = qty
		}
	}
	return clone
}

package wishlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// MemoryRepository implements Repository with in-memory storage.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]time.Time // ownerID -> productID -> addedAt
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]map[string]time.Time),
	}
}

func (m *MemoryRepository) List(_ context.Context, ownerID string) ([]domain.WishlistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []domain.WishlistEntry
	for productID, addedAt := range m.entries[ownerID] {
		entries = append(entries, domain.WishlistEntry{
			OwnerID:   ownerID,
			ProductID: productID,
			AddedAt:   addedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

func (m *MemoryRepository) Contains(_ context.Context, ownerID, productID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[ownerID][productID]
	return ok, nil
}

func (m *MemoryRepository) Add(_ context.Context, ownerID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[ownerID] == nil {
		m.entries[ownerID] = make(map[string]time.Time)
	}
	if _, exists := m.entries[ownerID][productID]; !exists {
		m.entries[ownerID][productID] = time.Now()
	}
	return nil
}

func (m *MemoryRepository) Remove(_ context.Context, ownerID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries[ownerID], productID)
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, ownerID)
	return nil
}

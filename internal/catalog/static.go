package catalog

import (
	"context"
	"sync"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// Static is an in-memory Catalog used in tests and local runs.
type Static struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewStatic(products ...domain.Product) *Static {
	s := &Static{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *Static) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (s *Static) Put(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Static) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

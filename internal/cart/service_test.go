package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vipinyadav01/zero-fashion/internal/cache"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, &mockCache{}), repo
}

func TestAdd_TwiceIncrementsQuantity(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))
	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]int{"shirt-1": {"M": 2}}, cart.Items)
}

func TestAdd_Validation(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, sut.Add(ctx, "", "shirt-1", "M"), ErrInvalidInput)
	assert.ErrorIs(t, sut.Add(ctx, "user-1", "", "M"), ErrInvalidInput)
	assert.ErrorIs(t, sut.Add(ctx, "user-1", "shirt-1", ""), ErrInvalidInput)
	assert.ErrorIs(t, sut.Add(ctx, "user-1", "shirt.1", "M"), ErrInvalidInput)
	assert.ErrorIs(t, sut.Add(ctx, "user-1", "shirt-1", "$M"), ErrInvalidInput)
}

func TestSetQuantity_ZeroRemovesEntry(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))
	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "L"))

	require.NoError(t, sut.SetQuantity(ctx, "user-1", "shirt-1", "M", 0))

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Quantity("shirt-1", "M"))
	assert.Equal(t, 1, cart.Quantity("shirt-1", "L"))
}

func TestSetQuantity_LastSizeRemovesProduct(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))
	require.NoError(t, sut.SetQuantity(ctx, "user-1", "shirt-1", "M", 0))

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	_, exists := cart.Items["shirt-1"]
	assert.False(t, exists, "product with no remaining sizes should be removed entirely")
}

func TestSetQuantity_NegativeRejected(t *testing.T) {
	sut, _ := newTestService()

	err := sut.SetQuantity(context.Background(), "user-1", "shirt-1", "M", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_UnknownOwnerReturnsEmptyCart(t *testing.T) {
	sut, _ := newTestService()

	cart, err := sut.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "nobody", cart.OwnerID)
}

func TestClear_AbsentCartIsNoOp(t *testing.T) {
	sut, _ := newTestService()

	assert.NoError(t, sut.Clear(context.Background(), "nobody"))
}

func TestClear_RemovesStoredCart(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))
	require.NoError(t, sut.Clear(ctx, "user-1"))

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

// Two concurrent adds for the same entry starting from zero must both land.
func TestAdd_ConcurrentSameEntry(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))
		}()
	}
	wg.Wait()

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Quantity("shirt-1", "M"))
}

func TestAdd_ManyConcurrentMutations(t *testing.T) {
	sut, _ := newTestService()
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))
		}()
	}
	wg.Wait()

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, writers, cart.Quantity("shirt-1", "M"))
}

func TestGet_ServesFromCache(t *testing.T) {
	repo := NewMemoryRepository()
	mc := &mockCache{cart: &domain.Cart{
		OwnerID: "user-1",
		Items:   map[string]map[string]int{"cached": {"M": 1}},
	}}
	sut := NewService(repo, mc)

	cart, err := sut.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Quantity("cached", "M"))
}

func TestMutationsInvalidateCache(t *testing.T) {
	repo := NewMemoryRepository()
	mc := &mockCache{cart: &domain.Cart{OwnerID: "user-1", Items: map[string]map[string]int{"stale": {"M": 9}}}}
	sut := NewService(repo, mc)
	ctx := context.Background()

	require.NoError(t, sut.Add(ctx, "user-1", "shirt-1", "M"))

	cart, err := sut.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Quantity("stale", "M"))
	assert.Equal(t, 1, cart.Quantity("shirt-1", "M"))
}

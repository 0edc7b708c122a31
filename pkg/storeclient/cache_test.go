package storeclient

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiMock struct {
	rejectNext bool
	calls      []string
}

func (m *apiMock) record(call string) error {
	m.calls = append(m.calls, call)
	if m.rejectNext {
		m.rejectNext = false
		return ErrRejected
	}
	return nil
}

func (m *apiMock) AddCartItem(_ context.Context, productID, size string) error {
	return m.record("add:" + productID + ":" + size)
}

func (m *apiMock) UpdateCartItem(_ context.Context, productID, size string, _ int) error {
	return m.record("update:" + productID + ":" + size)
}

func (m *apiMock) ClearCart(context.Context) error {
	return m.record("clear")
}

func (m *apiMock) FetchCart(context.Context) (map[string]map[string]int, error) {
	if err := m.record("fetch"); err != nil {
		return nil, err
	}
	return map[string]map[string]int{"shirt-1": {"M": 5}}, nil
}

func (m *apiMock) ToggleWishlist(_ context.Context, productID string) (bool, error) {
	return true, m.record("toggle:" + productID)
}

func newTestCache(t *testing.T, api API) *Cache {
	t.Helper()
	cache, err := NewCache(api, NewMemorySnapshotStore())
	require.NoError(t, err)
	return cache
}

func TestCache_OptimisticAddConfirmed(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.AddCartItem(ctx, "shirt-1", "M"))
	require.NoError(t, cache.AddCartItem(ctx, "shirt-1", "M"))

	assert.Equal(t, map[string]map[string]int{"shirt-1": {"M": 2}}, cache.Cart())

	history := cache.Mutations()
	require.Len(t, history, 2)
	for _, m := range history {
		assert.Equal(t, StateConfirmed, m.State)
	}
}

func TestCache_RejectionRollsBack(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.AddCartItem(ctx, "shirt-1", "M"))

	api.rejectNext = true
	err := cache.AddCartItem(ctx, "shirt-1", "M")
	require.ErrorIs(t, err, ErrRejected)

	// Mirror is back at the last confirmed quantity, not the optimistic one.
	assert.Equal(t, map[string]map[string]int{"shirt-1": {"M": 1}}, cache.Cart())

	history := cache.Mutations()
	require.Len(t, history, 2)
	assert.Equal(t, StateConfirmed, history[0].State)
	assert.Equal(t, StateRolledBack, history[1].State)
}

func TestCache_RejectedFirstMutationRestoresEmpty(t *testing.T) {
	api := &apiMock{rejectNext: true}
	cache := newTestCache(t, api)

	err := cache.AddCartItem(context.Background(), "shirt-1", "M")
	require.ErrorIs(t, err, ErrRejected)
	assert.Empty(t, cache.Cart())
}

func TestCache_SetQuantityZeroRemovesEntry(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.AddCartItem(ctx, "shirt-1", "M"))
	require.NoError(t, cache.AddCartItem(ctx, "shirt-1", "L"))

	require.NoError(t, cache.SetCartQuantity(ctx, "shirt-1", "M", 0))
	assert.Equal(t, map[string]map[string]int{"shirt-1": {"L": 1}}, cache.Cart())

	// Dropping the last size drops the product.
	require.NoError(t, cache.SetCartQuantity(ctx, "shirt-1", "L", 0))
	assert.Empty(t, cache.Cart())
}

func TestCache_WishlistToggleFlipsBothWays(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.ToggleWishlist(ctx, "shirt-1"))
	assert.Equal(t, []string{"shirt-1"}, cache.Wishlist())

	require.NoError(t, cache.ToggleWishlist(ctx, "shirt-1"))
	assert.Empty(t, cache.Wishlist())

	// Toggling an absent product is an add, never an error.
	require.NoError(t, cache.ToggleWishlist(ctx, "shirt-1"))
	assert.Equal(t, []string{"shirt-1"}, cache.Wishlist())
}

func TestCache_WishlistRejectionRollsBack(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.ToggleWishlist(ctx, "shirt-1"))

	api.rejectNext = true
	err := cache.ToggleWishlist(ctx, "jeans-4")
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, []string{"shirt-1"}, cache.Wishlist())
}

func TestCache_DropMirrorAfterCheckout(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.AddCartItem(ctx, "shirt-1", "M"))
	require.NoError(t, cache.ToggleWishlist(ctx, "jeans-4"))

	require.NoError(t, cache.DropMirror())
	assert.Empty(t, cache.Cart())
	assert.Equal(t, []string{"jeans-4"}, cache.Wishlist(), "wishlist survives checkout")
}

func TestCache_RefreshAdoptsServerTruth(t *testing.T) {
	api := &apiMock{}
	cache := newTestCache(t, api)
	ctx := context.Background()

	require.NoError(t, cache.AddCartItem(ctx, "jeans-4", "32"))
	require.NoError(t, cache.Refresh(ctx))

	assert.Equal(t, map[string]map[string]int{"shirt-1": {"M": 5}}, cache.Cart())
}

func TestFileSnapshotStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	api := &apiMock{}

	cache, err := NewCache(api, NewFileSnapshotStore(path))
	require.NoError(t, err)
	require.NoError(t, cache.AddCartItem(context.Background(), "shirt-1", "M"))

	reloaded, err := NewCache(api, NewFileSnapshotStore(path))
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]int{"shirt-1": {"M": 1}}, reloaded.Cart())
}

func TestFileSnapshotStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileSnapshotStore(filepath.Join(t.TempDir(), "missing.json"))
	snapshot, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snapshot.Cart)
	assert.Empty(t, snapshot.Wishlist)
}

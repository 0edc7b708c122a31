package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return c, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	ownerID := "user123"

	cart := &domain.Cart{
		OwnerID: ownerID,
		Items: map[string]map[string]int{
			"shirt-1": {"M": 2},
			"jeans-4": {"32": 1},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Manually set data in miniredis
	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(ownerID), string(cartJSON))

	result, err := c.Get(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, result.OwnerID)
	assert.Equal(t, 2, result.Quantity("shirt-1", "M"))
	assert.Equal(t, 1, result.Quantity("jeans-4", "32"))
}

func TestGet_CacheMiss(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := c.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("user123"), "not-json")

	result, err := c.Get(context.Background(), "user123")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_ThenGet(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		OwnerID: "user123",
		Items:   map[string]map[string]int{"shirt-1": {"L": 3}},
	}

	require.NoError(t, c.Set(ctx, "user123", cart))
	assert.True(t, mr.Exists(cacheKey("user123")))

	result, err := c.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Quantity("shirt-1", "L"))
}

func TestSet_AppliesTTL(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := &domain.Cart{OwnerID: "user123", Items: map[string]map[string]int{}}
	require.NoError(t, c.Set(context.Background(), "user123", cart))

	ttl := mr.TTL(cacheKey("user123"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestDelete(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("user123"), "{}")

	require.NoError(t, c.Delete(context.Background(), "user123"))
	assert.False(t, mr.Exists(cacheKey("user123")))
}

func TestDelete_MissingKeyIsNoError(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, c.Delete(context.Background(), "nonexistent"))
}

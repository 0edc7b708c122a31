package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_AddsThenRemoves(t *testing.T) {
	sut := NewService(NewMemoryRepository())
	ctx := context.Background()

	present, err := sut.Toggle(ctx, "user-1", "shirt-1")
	require.NoError(t, err)
	assert.True(t, present)

	entries, err := sut.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shirt-1", entries[0].ProductID)

	present, err = sut.Toggle(ctx, "user-1", "shirt-1")
	require.NoError(t, err)
	assert.False(t, present)

	entries, err = sut.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToggle_DuplicateAddIsSafe(t *testing.T) {
	repo := NewMemoryRepository()
	sut := NewService(repo)
	ctx := context.Background()

	// Pre-seed the entry, then toggle twice: off, then on again.
	require.NoError(t, repo.Add(ctx, "user-1", "shirt-1"))

	present, err := sut.Toggle(ctx, "user-1", "shirt-1")
	require.NoError(t, err)
	assert.False(t, present)

	present, err = sut.Toggle(ctx, "user-1", "shirt-1")
	require.NoError(t, err)
	assert.True(t, present)

	entries, err := sut.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestToggle_Validation(t *testing.T) {
	sut := NewService(NewMemoryRepository())

	_, err := sut.Toggle(context.Background(), "", "shirt-1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = sut.Toggle(context.Background(), "user-1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClear(t *testing.T) {
	sut := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := sut.Toggle(ctx, "user-1", "shirt-1")
	require.NoError(t, err)
	_, err = sut.Toggle(ctx, "user-1", "jeans-4")
	require.NoError(t, err)

	require.NoError(t, sut.Clear(ctx, "user-1"))

	entries, err := sut.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

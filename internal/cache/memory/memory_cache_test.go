package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grokimg/internal/domain"
)

func TestMemoryCache_PutGet(t *testing.T) {
	c := NewMemoryCache(4)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "image/upload-a.png", domain.CacheEntry{Value: []byte("png"), ContentType: "image/png"}, time.Hour))

	got, err := c.Get(ctx, "image/upload-a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got.Value)
	assert.Equal(t, "image/png", got.ContentType)

	missing, err := c.Get(ctx, "image/upload-b.png")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(4)
	ctx := context.Background()
	value := []byte("abc")

	require.NoError(t, c.Put(ctx, "k", domain.CacheEntry{Value: value}, 0))
	value[0] = 'z'

	got, _ := c.Get(ctx, "k")
	got.Value[1] = 'z'

	again, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again.Value)
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newMemoryCache(4, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", domain.CacheEntry{Value: []byte("v")}, time.Minute))

	now = now.Add(59 * time.Second)
	got, _ := c.Get(ctx, "k")
	assert.NotNil(t, got)

	now = now.Add(time.Second)
	got, _ = c.Get(ctx, "k")
	assert.Nil(t, got)
	assert.Equal(t, 0, c.cache.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	_ = c.Put(ctx, "a", domain.CacheEntry{Value: []byte("a")}, 0)
	_ = c.Put(ctx, "b", domain.CacheEntry{Value: []byte("b")}, 0)
	_, _ = c.Get(ctx, "a")
	_ = c.Put(ctx, "c", domain.CacheEntry{Value: []byte("c")}, 0)

	a, _ := c.Get(ctx, "a")
	b, _ := c.Get(ctx, "b")
	assert.NotNil(t, a)
	assert.Nil(t, b)
}

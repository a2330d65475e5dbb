package memory

import (
	"bytes"
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"grokimg/internal/domain"
	"grokimg/internal/port"
)

const defaultMaxEntries = 512

type entry struct {
	value       []byte
	contentType string
	expiresAt   time.Time
}

type memoryCache struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

// NewMemoryCache creates an in-process LRU ImageCache holding at most
// maxEntries images. Non-positive sizes fall back to a default.
func NewMemoryCache(maxEntries int) port.ImageCache {
	return newMemoryCache(maxEntries, time.Now)
}

func newMemoryCache(maxEntries int, now func() time.Time) *memoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	// lru.New only errors on non-positive size which we guard above.
	c, _ := lru.New[string, entry](maxEntries)
	return &memoryCache{cache: c, now: now}
}

func (m *memoryCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	e, ok := m.cache.Get(key)
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.cache.Remove(key)
		return nil, nil
	}
	return &domain.CacheEntry{
		Value:       bytes.Clone(e.value),
		ContentType: e.contentType,
	}, nil
}

// Put stores a copy of the entry. A non-positive ttl never expires.
func (m *memoryCache) Put(_ context.Context, key string, ce domain.CacheEntry, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.cache.Add(key, entry{
		value:       bytes.Clone(ce.Value),
		contentType: ce.ContentType,
		expiresAt:   expiresAt,
	})
	return nil
}

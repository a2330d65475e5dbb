package port

import (
	"context"
	"time"

	"grokimg/internal/domain"
)

// ImageCache abstracts the key-value store holding locally uploaded images.
// Get returns (nil, nil) when the key is absent or expired.
type ImageCache interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Put(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error
}

// Pinger is implemented by caches that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"grokimg/internal/domain"
)

// MockImageCache is a mock implementation of port.ImageCache.
type MockImageCache struct {
	mock.Mock
}

func (m *MockImageCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheEntry), args.Error(1)
}

func (m *MockImageCache) Put(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error {
	args := m.Called(ctx, key, entry, ttl)
	return args.Error(0)
}

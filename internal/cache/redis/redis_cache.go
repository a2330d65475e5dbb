package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/port"
)

const (
	fieldValue       = "value"
	fieldContentType = "content_type"
)

// Cache is an ImageCache storing each image as a Redis hash with a TTL.
type Cache struct {
	client redis.UniversalClient
	prefix string
}

var (
	_ port.ImageCache = (*Cache)(nil)
	_ port.Pinger     = (*Cache)(nil)
)

// NewRedisCache connects to the Redis server described by cfg.
func NewRedisCache(cfg *config.RedisConfig, keyPrefix string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisCacheWithClient(rdb, keyPrefix)
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client redis.UniversalClient, keyPrefix string) *Cache {
	return &Cache{client: client, prefix: keyPrefix}
}

func (c *Cache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	vals, err := c.client.HMGet(ctx, c.prefix+key, fieldValue, fieldContentType).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget: %w", err)
	}
	if len(vals) != 2 || vals[0] == nil {
		return nil, nil
	}

	value, _ := vals[0].(string)
	contentType, _ := vals[1].(string)
	return &domain.CacheEntry{
		Value:       []byte(value),
		ContentType: contentType,
	}, nil
}

func (c *Cache) Put(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error {
	k := c.prefix + key
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldValue, entry.Value, fieldContentType, entry.ContentType)
		if ttl > 0 {
			pipe.Expire(ctx, k, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"grokimg/internal/domain"
	"grokimg/internal/port"
)

type imageCacheRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ port.Pinger = (*imageCacheRepo)(nil)

// NewImageCacheRepo creates a new PostgreSQL-backed ImageCache.
func NewImageCacheRepo(db *sqlx.DB) port.ImageCache {
	return &imageCacheRepo{db: db, now: time.Now}
}

func (r *imageCacheRepo) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	err := r.db.GetContext(ctx, &entry,
		`SELECT content, content_type FROM image_cache
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		key, r.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("imageCacheRepo.Get: %w", err)
	}
	return &entry, nil
}

func (r *imageCacheRepo) Put(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error {
	now := r.now().UTC()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}

	query := `INSERT INTO image_cache (key, content, content_type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET content = EXCLUDED.content,
		    content_type = EXCLUDED.content_type,
		    expires_at = EXCLUDED.expires_at`

	_, err := r.db.ExecContext(ctx, query, key, entry.Value, entry.ContentType, expiresAt, now)
	if err != nil {
		return fmt.Errorf("imageCacheRepo.Put: %w", err)
	}
	return nil
}

func (r *imageCacheRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

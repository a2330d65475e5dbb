package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grokimg/internal/domain"
)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*imageCacheRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewImageCacheRepo(sqlx.NewDb(db, "sqlmock")).(*imageCacheRepo)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func TestImageCacheRepo_GetHit(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := sqlmock.NewRows([]string{"content", "content_type"}).AddRow([]byte("png"), "image/png")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT content, content_type FROM image_cache")).
		WithArgs("image/upload-abc.png", fixedNow).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "image/upload-abc.png")

	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got.Value)
	assert.Equal(t, "image/png", got.ContentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageCacheRepo_GetMiss(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT content, content_type FROM image_cache")).
		WithArgs("image/upload-none.png", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"content", "content_type"}))

	got, err := repo.Get(context.Background(), "image/upload-none.png")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageCacheRepo_GetError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT content, content_type FROM image_cache")).
		WillReturnError(errors.New("connection lost"))

	_, err := repo.Get(context.Background(), "image/upload-abc.png")

	assert.ErrorContains(t, err, "connection lost")
}

func TestImageCacheRepo_Put(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO image_cache")).
		WithArgs("image/upload-abc.png", []byte("png"), "image/png", fixedNow.Add(time.Hour), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), "image/upload-abc.png",
		domain.CacheEntry{Value: []byte("png"), ContentType: "image/png"}, time.Hour)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageCacheRepo_PutWithoutTTL(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO image_cache")).
		WithArgs("k", []byte("v"), "image/gif", nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), "k", domain.CacheEntry{Value: []byte("v"), ContentType: "image/gif"}, 0)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

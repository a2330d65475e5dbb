package grok_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/grok"
	"grokimg/mocks"
)

func newTestUploader(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *mocks.MockHeaderProvider, func(*domain.ResolvedImage, string) (*domain.UploadResult, error)) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	headers := new(mocks.MockHeaderProvider)
	headers.On("Headers", grok.UploadRoute).Return(map[string]string{
		"Content-Type":     "text/plain;charset=UTF-8",
		"x-statsig-id":     "statsig",
		"x-xai-request-id": "req-1",
	})

	up := grok.NewUploader(config.GrokConfig{BaseURL: srv.URL}, srv.Client(), headers, zerolog.Nop())
	return srv, headers, func(img *domain.ResolvedImage, cookie string) (*domain.UploadResult, error) {
		return up.UploadFile(context.Background(), img, cookie)
	}
}

func pngImage() *domain.ResolvedImage {
	return &domain.ResolvedImage{
		Kind:     domain.ImageKindDataURI,
		Base64:   "AAAA",
		MimeType: "image/png",
		Filename: "image.png",
	}
}

func TestUploader_Success(t *testing.T) {
	var gotBody map[string]string
	var gotReq *http.Request
	_, headers, upload := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fileMetadataId":"file-123","fileUri":"users/u/file-123/content"}`))
	})

	result, err := upload(pngImage(), "sso=abc; sso-rw=abc")

	require.NoError(t, err)
	assert.Equal(t, "file-123", result.FileID)
	assert.Equal(t, "users/u/file-123/content", result.FileURI)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, grok.UploadRoute, gotReq.URL.Path)
	assert.Equal(t, "sso=abc; sso-rw=abc", gotReq.Header.Get("Cookie"))
	assert.Equal(t, "statsig", gotReq.Header.Get("x-statsig-id"))
	assert.Equal(t, "text/plain;charset=UTF-8", gotReq.Header.Get("Content-Type"))
	assert.Equal(t, map[string]string{
		"fileName":     "image.png",
		"fileMimeType": "image/png",
		"content":      "AAAA",
	}, gotBody)
	headers.AssertExpectations(t)
}

func TestUploader_MissingFieldsDegradeToEmpty(t *testing.T) {
	_, _, upload := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fileUri":"only-uri"}`))
	})

	result, err := upload(pngImage(), "sso=abc")

	require.NoError(t, err)
	assert.Equal(t, "", result.FileID)
	assert.Equal(t, "only-uri", result.FileURI)
}

func TestUploader_InvalidJSONStillSucceeds(t *testing.T) {
	_, _, upload := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	result, err := upload(pngImage(), "sso=abc")

	require.NoError(t, err)
	assert.Equal(t, &domain.UploadResult{}, result)
}

func TestUploader_Non2xx(t *testing.T) {
	_, _, upload := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	})

	result, err := upload(pngImage(), "sso=abc")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, errors.Is(err, domain.ErrUploadFailed))

	var upErr *domain.UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.Equal(t, "rate limited", upErr.Body)
}

func TestUploader_Non2xxBodyTruncated(t *testing.T) {
	long := strings.Repeat("é", 300)
	_, _, upload := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(long))
	})

	_, err := upload(pngImage(), "sso=abc")

	var upErr *domain.UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 200, len([]rune(upErr.Body)))
	assert.Equal(t, strings.Repeat("é", 200), upErr.Body)
}

func TestUploader_TransportError(t *testing.T) {
	srv, _, upload := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := upload(pngImage(), "sso=abc")

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrUploadFailed))
}

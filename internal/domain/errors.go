package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrDownloadFailed      = errors.New("image download failed")
	ErrUploadFailed        = errors.New("file upload to grok failed")
	ErrEmptyImage          = errors.New("image reference is empty")
	ErrMissingCookie       = errors.New("session cookie is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrImageTooLarge       = errors.New("image exceeds maximum allowed size")
	ErrCacheDisabled       = errors.New("image cache is not configured")
)

// DownloadError reports a non-2xx response while fetching a remote image.
type DownloadError struct {
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("image download failed: status %d", e.StatusCode)
}

func (e *DownloadError) Unwrap() error {
	return ErrDownloadFailed
}

// UploadError reports a non-2xx response from the upload endpoint.
// Body holds at most the first 200 characters of the response body.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("file upload to grok failed: %d %s", e.StatusCode, e.Body)
}

func (e *UploadError) Unwrap() error {
	return ErrUploadFailed
}

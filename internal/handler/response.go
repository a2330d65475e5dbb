package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"grokimg/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var uploadErr *domain.UploadError
	var downloadErr *domain.DownloadError

	switch {
	case errors.As(err, &uploadErr):
		msg := fmt.Sprintf("grok rejected the upload with status %d", uploadErr.StatusCode)
		if uploadErr.Body != "" {
			msg += ": " + uploadErr.Body
		}
		return http.StatusBadGateway, "UPSTREAM_UPLOAD_FAILED", msg
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPSTREAM_UPLOAD_FAILED", "file upload to grok failed"
	case errors.As(err, &downloadErr):
		return http.StatusBadGateway, "DOWNLOAD_FAILED",
			fmt.Sprintf("image download failed with status %d", downloadErr.StatusCode)
	case errors.Is(err, domain.ErrDownloadFailed):
		return http.StatusBadGateway, "DOWNLOAD_FAILED", "image download failed"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "image not found or expired"
	case errors.Is(err, domain.ErrEmptyImage):
		return http.StatusBadRequest, "EMPTY_IMAGE", "image is required"
	case errors.Is(err, domain.ErrMissingCookie):
		return http.StatusBadRequest, "MISSING_COOKIE", "session cookie is required"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: jpg, png, gif, webp"
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds maximum allowed size"
	case errors.Is(err, domain.ErrCacheDisabled):
		return http.StatusServiceUnavailable, "CACHE_DISABLED", "local image cache is not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("code", code).Msg("request failed")
	}
	RespondError(c, status, code, msg)
}

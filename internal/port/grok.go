package port

import (
	"context"

	"grokimg/internal/domain"
)

// HeaderProvider builds the protocol headers Grok expects on a given route.
// Implementations return a fresh map on every call.
type HeaderProvider interface {
	Headers(route string) map[string]string
}

// FileUploader sends a resolved image to Grok and returns its file handle.
type FileUploader interface {
	UploadFile(ctx context.Context, img *domain.ResolvedImage, cookie string) (*domain.UploadResult, error)
}

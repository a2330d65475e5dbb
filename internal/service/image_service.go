package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"grokimg/internal/domain"
	"grokimg/internal/imageref"
	"grokimg/internal/metrics"
	"grokimg/internal/port"
)

// UploadImageInput is the DTO for uploading an image reference to Grok.
type UploadImageInput struct {
	Image  string
	Cookie string
}

// StoreImageInput is the DTO for storing raw image bytes in the local cache.
type StoreImageInput struct {
	Data        []byte
	ContentType string
}

// ImageService defines the image upload contract.
type ImageService interface {
	Upload(ctx context.Context, input UploadImageInput) (*domain.UploadResult, error)
	StoreLocal(ctx context.Context, input StoreImageInput) (*domain.LocalImage, error)
	GetLocal(ctx context.Context, name string) (*domain.CacheEntry, error)
}

type imageService struct {
	resolver ImageResolver
	uploader port.FileUploader
	cache    port.ImageCache
	ttl      time.Duration
	maxBytes int64
	observer metrics.Observer
	log      zerolog.Logger
}

// ImageServiceOptions tunes the local cache side of ImageService.
type ImageServiceOptions struct {
	CacheTTL time.Duration
	MaxBytes int64
	Observer metrics.Observer
}

// NewImageService creates a new ImageService implementation. cache and
// opts.Observer may be nil.
func NewImageService(
	resolver ImageResolver,
	uploader port.FileUploader,
	cache port.ImageCache,
	opts ImageServiceOptions,
	log zerolog.Logger,
) ImageService {
	observer := opts.Observer
	if observer == nil {
		observer = metrics.Nop()
	}
	return &imageService{
		resolver: resolver,
		uploader: uploader,
		cache:    cache,
		ttl:      opts.CacheTTL,
		maxBytes: opts.MaxBytes,
		observer: observer,
		log:      log,
	}
}

func (s *imageService) Upload(ctx context.Context, input UploadImageInput) (*domain.UploadResult, error) {
	start := time.Now()
	img, err := s.resolver.Resolve(ctx, input.Image)
	if err != nil {
		s.observer.RecordUpload(imageref.Classify(input.Image), time.Since(start), 0, err)
		s.log.Warn().Err(err).Msg("imageService.Upload: resolving image failed")
		return nil, fmt.Errorf("resolving image: %w", err)
	}

	s.log.Info().
		Str("kind", string(img.Kind)).
		Str("mime", img.MimeType).
		Str("filename", img.Filename).
		Int("base64_len", len(img.Base64)).
		Msg("imageService.Upload: uploading image to grok")

	result, err := s.uploader.UploadFile(ctx, img, input.Cookie)
	s.observer.RecordUpload(img.Kind, time.Since(start), len(img.Base64), err)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(img.Kind)).Msg("imageService.Upload: grok upload failed")
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	s.log.Info().Str("file_id", result.FileID).Msg("imageService.Upload: image uploaded")
	return result, nil
}

func (s *imageService) StoreLocal(ctx context.Context, input StoreImageInput) (*domain.LocalImage, error) {
	img, err := s.storeLocal(ctx, input)
	s.observer.RecordStore(len(input.Data), err)
	return img, err
}

func (s *imageService) storeLocal(ctx context.Context, input StoreImageInput) (*domain.LocalImage, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheDisabled
	}
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyImage
	}
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, domain.ErrImageTooLarge
	}

	contentType := mediaType(input.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mediaType(http.DetectContentType(input.Data))
	}
	if !domain.AllowedImageContentTypes[contentType] {
		return nil, domain.ErrUnsupportedFileType
	}

	name := imageref.UploadName(uuid.NewString(), imageref.ExtensionFromMime(contentType))
	path := imageref.LocalUploadPath(name)
	key := imageref.CacheKey(path)

	if err := s.cache.Put(ctx, key, domain.CacheEntry{Value: input.Data, ContentType: contentType}, s.ttl); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("imageService.StoreLocal: cache write failed")
		return nil, fmt.Errorf("storing image: %w", err)
	}

	s.log.Info().Str("key", key).Int("size", len(input.Data)).Msg("imageService.StoreLocal: image stored")
	return &domain.LocalImage{
		Path:        path,
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(input.Data)),
	}, nil
}

func (s *imageService) GetLocal(ctx context.Context, name string) (*domain.CacheEntry, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheDisabled
	}
	path := imageref.LocalUploadPath(name)
	if !imageref.IsLocalUploadPath(path) {
		return nil, domain.ErrNotFound
	}

	entry, err := s.cache.Get(ctx, imageref.CacheKey(path))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	out := *entry
	if out.ContentType == "" {
		out.ContentType = imageref.MimeFromExtension(name)
	}
	return &out, nil
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/imageref"
	"grokimg/internal/port"
)

// ImageResolver turns an image reference into base64 content, a MIME type
// and a file name.
type ImageResolver interface {
	Resolve(ctx context.Context, input string) (*domain.ResolvedImage, error)
}

type imageResolver struct {
	cache    port.ImageCache
	client   *http.Client
	maxBytes int64
}

// NewImageResolver creates an ImageResolver. cache may be nil, in which case
// local upload references are not looked up and are resolved like any other
// input. A nil client uses a client with cfg.Timeout; the client follows
// redirects.
func NewImageResolver(cache port.ImageCache, client *http.Client, cfg config.FetchConfig) ImageResolver {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &imageResolver{
		cache:    cache,
		client:   client,
		maxBytes: cfg.MaxBytes,
	}
}

func (r *imageResolver) Resolve(ctx context.Context, input string) (*domain.ResolvedImage, error) {
	kind := imageref.Classify(input)
	if kind == domain.ImageKindLocalCacheRef && r.cache == nil {
		kind = imageref.ClassifyExternal(input)
	}

	switch kind {
	case domain.ImageKindLocalCacheRef:
		return r.resolveLocal(ctx, input)
	case domain.ImageKindRemoteURL:
		return r.resolveRemote(ctx, input)
	case domain.ImageKindDataURI:
		payload, mime := imageref.ParseDataURI(input)
		return &domain.ResolvedImage{
			Kind:     kind,
			Base64:   payload,
			MimeType: mime,
			Filename: imageref.FilenameForMime(mime),
		}, nil
	default:
		return &domain.ResolvedImage{
			Kind:     domain.ImageKindRawBase64,
			Base64:   strings.TrimSpace(input),
			MimeType: imageref.DefaultMimeType,
			Filename: imageref.DefaultFilename,
		}, nil
	}
}

func (r *imageResolver) resolveLocal(ctx context.Context, input string) (*domain.ResolvedImage, error) {
	key := imageref.CacheKey(input)
	entry, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading image cache key %s: %w", key, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("local upload %s does not exist or has expired: %w", input, domain.ErrNotFound)
	}

	mime := entry.ContentType
	if mime == "" {
		mime = imageref.MimeFromExtension(strings.TrimSpace(input))
	}
	return &domain.ResolvedImage{
		Kind:     domain.ImageKindLocalCacheRef,
		Base64:   base64.StdEncoding.EncodeToString(entry.Value),
		MimeType: mime,
		Filename: imageref.FilenameForMime(mime),
	}, nil
}

func (r *imageResolver) resolveRemote(ctx context.Context, input string) (*domain.ResolvedImage, error) {
	target, ok := imageref.RemoteURL(input)
	if !ok {
		target = strings.TrimSpace(input)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.DownloadError{StatusCode: resp.StatusCode}
	}

	body, err := readLimited(resp.Body, r.maxBytes)
	if err != nil {
		return nil, err
	}

	mime, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	mime = strings.TrimSpace(mime)
	if !strings.HasPrefix(mime, "image/") {
		mime = imageref.DefaultMimeType
	}

	return &domain.ResolvedImage{
		Kind:     domain.ImageKindRemoteURL,
		Base64:   base64.StdEncoding.EncodeToString(body),
		MimeType: mime,
		Filename: imageref.FilenameForMime(mime),
	}, nil
}

// readLimited reads all of rd, failing with ErrImageTooLarge past limit bytes.
// limit <= 0 disables the limit.
func readLimited(rd io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(rd)
		if err != nil {
			return nil, fmt.Errorf("reading image body: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(rd, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, domain.ErrImageTooLarge
	}
	return data, nil
}

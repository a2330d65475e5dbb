package domain

// ImageKind is the classified shape of an image reference.
type ImageKind string

const (
	ImageKindLocalCacheRef ImageKind = "local_cache_ref"
	ImageKindRemoteURL     ImageKind = "remote_url"
	ImageKindDataURI       ImageKind = "data_uri"
	ImageKindRawBase64     ImageKind = "raw_base64"
)

// CacheBackend names a supported image cache implementation.
type CacheBackend string

const (
	CacheBackendNone     CacheBackend = "none"
	CacheBackendMemory   CacheBackend = "memory"
	CacheBackendRedis    CacheBackend = "redis"
	CacheBackendS3       CacheBackend = "s3"
	CacheBackendPostgres CacheBackend = "postgres"
)

// AllowedImageContentTypes lists the image types accepted into the local cache.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

package domain

// ResolvedImage is an image ready to be sent to the upload endpoint.
// MimeType is always of the form type/subtype and Filename always carries
// an extension derived from it.
type ResolvedImage struct {
	Kind     ImageKind
	Base64   string
	MimeType string
	Filename string
}

// UploadResult is the handle returned by Grok for an uploaded file.
// Either field may be empty when the upstream response omits it.
type UploadResult struct {
	FileID  string `json:"fileId"`
	FileURI string `json:"fileUri"`
}

// CacheEntry is a stored image as returned by an image cache.
type CacheEntry struct {
	Value       []byte `db:"content"`
	ContentType string `db:"content_type"`
}

// LocalImage describes an image stored in the cache and addressable by a
// local upload path.
type LocalImage struct {
	Path        string `json:"path"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

package imageref

import (
	"regexp"
	"strings"
)

const (
	// DefaultMimeType is used whenever no other signal is available.
	DefaultMimeType = "image/jpeg"
	// DefaultFilename pairs with DefaultMimeType.
	DefaultFilename = "image.jpg"

	defaultExtension = "jpg"
)

var dataURIHeaderRe = regexp.MustCompile(`(?i)^data:([^;]+);base64$`)

// MimeFromExtension guesses an image MIME type from the suffix of path.
func MimeFromExtension(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	}
	return DefaultMimeType
}

// ExtensionFromMime returns the subtype of mime, used verbatim as a file
// extension, or "jpg" when mime is not of the form type/subtype.
// "image/jpeg" yields "jpeg".
func ExtensionFromMime(mime string) string {
	m, _, _ := strings.Cut(mime, ";")
	parts := strings.Split(strings.TrimSpace(m), "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return parts[1]
	}
	return defaultExtension
}

// FilenameForMime returns "image.<ext>" for the given MIME type.
func FilenameForMime(mime string) string {
	return "image." + ExtensionFromMime(mime)
}

// ParseDataURI splits a base64 data URI into its payload and MIME type.
// Input without a comma is returned whole as payload. A header that is not
// exactly "data:<mime>;base64" yields DefaultMimeType. The payload is never
// decoded or re-encoded.
func ParseDataURI(s string) (payload, mime string) {
	trimmed := strings.TrimSpace(s)
	header, payload, found := strings.Cut(trimmed, ",")
	if !found {
		return trimmed, DefaultMimeType
	}
	if m := dataURIHeaderRe.FindStringSubmatch(header); m != nil {
		return payload, m[1]
	}
	return payload, DefaultMimeType
}

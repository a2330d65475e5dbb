// Package imageref classifies image reference strings and derives the MIME
// types, file names and cache keys used when uploading them.
package imageref

import (
	"net/url"
	"regexp"
	"strings"

	"grokimg/internal/domain"
)

var (
	localUploadPathRe = regexp.MustCompile(`(?i)^/?images/upload-[0-9a-f-]+\.\w+$`)
	localUploadURLRe  = regexp.MustCompile(`(?i)^/images/upload-[0-9a-f-]+\.\w+$`)
	imagesSegmentRe   = regexp.MustCompile(`(?i)^images/`)
)

const dataImagePrefix = "data:image"

type rule struct {
	kind  domain.ImageKind
	match func(trimmed string) bool
}

// Rules are evaluated in order; the first match wins. RawBase64 is the
// catch-all and is not listed.
var (
	allRules = []rule{
		{kind: domain.ImageKindLocalCacheRef, match: isLocalUploadPath},
		{kind: domain.ImageKindRemoteURL, match: isRemoteURL},
		{kind: domain.ImageKindDataURI, match: isDataURI},
	}
	externalRules = allRules[1:]
)

// Classify returns the kind of the given image reference. Every string
// classifies; anything unrecognised is treated as raw base64.
func Classify(input string) domain.ImageKind {
	return classify(input, allRules)
}

// ClassifyExternal classifies input as Classify does but never yields
// ImageKindLocalCacheRef. It is used when no image cache is configured.
func ClassifyExternal(input string) domain.ImageKind {
	return classify(input, externalRules)
}

func classify(input string, rules []rule) domain.ImageKind {
	trimmed := strings.TrimSpace(input)
	for _, r := range rules {
		if r.match(trimmed) {
			return r.kind
		}
	}
	return domain.ImageKindRawBase64
}

// IsLocalUploadPath reports whether input references a previously stored
// upload, either as a bare path or as a full URL.
func IsLocalUploadPath(input string) bool {
	return isLocalUploadPath(strings.TrimSpace(input))
}

// RemoteURL returns the normalized form of input when it is an absolute
// http(s) URL. Inputs such as "http:example.com/a.png" and
// "https:/example.com/a.png" have their host recovered, so the returned
// string is always safe to fetch.
func RemoteURL(input string) (string, bool) {
	u, ok := parseAbsolute(strings.TrimSpace(input))
	if !ok || !isHTTPScheme(u.Scheme) || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

func isLocalUploadPath(s string) bool {
	if localUploadPathRe.MatchString(s) {
		return true
	}
	u, ok := parseAbsolute(s)
	return ok && localUploadURLRe.MatchString(u.EscapedPath())
}

func isRemoteURL(s string) bool {
	u, ok := parseAbsolute(s)
	return ok && isHTTPScheme(u.Scheme) && u.Host != ""
}

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

func isDataURI(s string) bool {
	return strings.HasPrefix(s, dataImagePrefix)
}

// parseAbsolute parses s as a URL with a scheme. An http(s) URL written
// without its authority slashes gets its host back from the opaque part
// or the path.
func parseAbsolute(s string) (*url.URL, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	if u.Host != "" || !isHTTPScheme(u.Scheme) {
		return u, true
	}
	rest := strings.TrimLeft(s[len(u.Scheme)+1:], `/\`)
	if rest == "" {
		return u, true
	}
	if fixed, err := url.Parse(u.Scheme + "://" + rest); err == nil && fixed.Host != "" {
		return fixed, true
	}
	return u, true
}

// CacheKey derives the image cache key for a local upload reference.
// "https://host/images/upload-x.png", "/images/upload-x.png" and
// "images/upload-x.png" all map to "image/upload-x.png": uploads are
// served under images/ but stored under the singular image/ prefix.
func CacheKey(input string) string {
	p := strings.TrimSpace(input)
	if u, ok := parseAbsolute(p); ok {
		p = u.EscapedPath()
	}
	p = strings.TrimPrefix(p, "/")
	return imagesSegmentRe.ReplaceAllLiteralString(p, "image/")
}

// UploadName returns the file name of a stored upload, e.g. "upload-<id>.png".
func UploadName(id, ext string) string {
	return "upload-" + id + "." + ext
}

// LocalUploadPath returns the public path under which a stored upload is
// served. The result always classifies as ImageKindLocalCacheRef when name
// comes from UploadName with a hex id.
func LocalUploadPath(name string) string {
	return "/images/" + name
}

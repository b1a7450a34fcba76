package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSegmentLength is the longest docs-tree path segment in bytes.
const MaxSegmentLength = 200

// ValidatePathSegment validates a single docs-tree path segment such as a
// project, category or page name before it is joined into a file path.
//
// BI and event names are user controlled, so the rules are conservative:
//   - No empty segments
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of [MaxSegmentLength] bytes
func ValidatePathSegment(segment string) error {
	if strings.TrimSpace(segment) == "" {
		return New(ErrCodeInvalidPath, "path segment cannot be empty")
	}
	if len(segment) > MaxSegmentLength {
		return New(ErrCodeInvalidPath, "path segment too long (max %d bytes)", MaxSegmentLength)
	}
	for _, r := range segment {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path segment contains invalid control characters")
		}
	}
	if segment == "." || segment == ".." {
		return New(ErrCodeInvalidPath, "path segment cannot be %q", segment)
	}
	if strings.ContainsAny(segment, `/\`) {
		return New(ErrCodeInvalidPath, "path segment cannot contain path separators: %q", segment)
	}
	return nil
}

var segmentReplacer = strings.NewReplacer("/", "-", `\`, "-", "\x00", "")

// SanitizePathSegment turns an arbitrary display name into a segment that
// passes [ValidatePathSegment]. Separators become dashes and control
// characters are dropped. Long names are cut at a rune boundary. An empty
// result becomes "unnamed".
func SanitizePathSegment(name string) string {
	s := segmentReplacer.Replace(name)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(truncate(strings.TrimSpace(s), MaxSegmentLength))
	if s == "" || s == "." || s == ".." {
		return "unnamed"
	}
	return s
}

// SanitizeFileName sanitizes name like [SanitizePathSegment] and appends
// ext. The name is shortened first so that the extension always survives.
func SanitizeFileName(name, ext string) string {
	base := strings.TrimSpace(truncate(SanitizePathSegment(name), MaxSegmentLength-len(ext)))
	if base == "" {
		base = "unnamed"
	}
	return base + ext
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

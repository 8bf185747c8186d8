package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds resource identifiers accepted from users.
const maxIDLength = 128

// ValidateID validates a space, anchor, key or principal identifier before it
// is interpolated into an API path.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	for _, pattern := range []string{"/", "\\", "..", "?", "#"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "%s id contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateAnchorType checks t against the anchor types the platform accepts.
// Comparison is case-sensitive; the wire format uses upper case.
func ValidateAnchorType(t string) error {
	switch t {
	case "IMAGE", "QR", "GPS", "MARKER":
		return nil
	}
	return New(ErrCodeInvalidAnchorType, "unknown anchor type: %q (want IMAGE, QR, GPS or MARKER)", t)
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

// ValidateCoordinates rejects latitudes outside [-90, 90], longitudes outside
// [-180, 180] and non-finite values.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return New(ErrCodeInvalidInput, "coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidInput, "latitude %g out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidInput, "longitude %g out of range [-180, 180]", lon)
	}
	return nil
}

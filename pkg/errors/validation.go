package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxStationIDLength bounds IDs accepted from URLs and file names.
const maxStationIDLength = 64

// stationIDRegex matches GTFS-style parent station IDs such as "place-knncl".
var stationIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateStationID validates a station identifier before it is used to build
// a file name, a URL path or a cache key.
//
// The rules are conservative:
//   - No empty IDs
//   - No control characters
//   - No dots, slashes or backslashes (the hash fragment uses "." as separator
//     and rollup files are named after the ID)
//   - Maximum length of 64 characters
//
// Whether the ID names a known station is decided by the network model.
func ValidateStationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidStationID, "station id cannot be empty")
	}

	if len(id) > maxStationIDLength {
		return New(ErrCodeInvalidStationID, "station id too long (max %d characters)", maxStationIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStationID, "station id contains invalid control characters")
		}
	}

	for _, pattern := range []string{".", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidStationID, "station id contains invalid characters: %q", pattern)
		}
	}

	if !stationIDRegex.MatchString(id) {
		return New(ErrCodeInvalidStationID, "invalid station id: %q", id)
	}
	return nil
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

// ValidateLine validates a line identifier such as "Red" or "green".
func ValidateLine(line string) error {
	if strings.TrimSpace(line) == "" {
		return New(ErrCodeInvalidInput, "line cannot be empty")
	}
	for _, r := range line {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			return New(ErrCodeInvalidInput, "line contains invalid characters")
		}
	}
	return nil
}

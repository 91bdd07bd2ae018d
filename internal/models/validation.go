package models

import (
	"regexp"
)

// dataURIPrefix matches the optional data URI header in front of a base64 image.
var dataURIPrefix = regexp.MustCompile(`^data:image/[a-zA-Z]+;base64,`)

// SanitizeImagePayload strips a leading data:image/<type>;base64, prefix if present.
func SanitizeImagePayload(image string) string {
	return dataURIPrefix.ReplaceAllString(image, "")
}

// ExceedsLength reports whether the base64 payload is longer than max characters.
// This is a cheap bound on the encoded text, not a decoded byte count.
func ExceedsLength(image string, max int) bool {
	return max > 0 && len(image) > max
}

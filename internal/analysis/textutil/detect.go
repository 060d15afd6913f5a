package textutil

import (
	"regexp"
	"strings"
)

var linkHint = regexp.MustCompile(`(?i)http|www\.`)

var mediaMarkers = []string{"omitted", "deleted", "<media"}

// IsMedia reports whether body is an export placeholder for media or a
// deleted message.
func IsMedia(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range mediaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// HasLink reports whether body mentions "http" or "www." in any case.
func HasLink(body string) bool {
	return linkHint.MatchString(body)
}

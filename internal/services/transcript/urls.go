// Package transcript talks to the transcript backend and shapes what it returns.
//
// Go Pattern: The package is organised by concern, one file each: URL parsing,
// the HTTP client, typed errors, and paragraph formatting. Everything except
// client.go is pure and needs no network to test.
package transcript

import (
	"regexp"
)

// UnknownVideoID is returned by ExtractVideoID when nothing matches.
// It is only used for filenames and logging, never to block a fetch.
const UnknownVideoID = "unknown"

// Go Pattern: compile regexes once at package init, not on every call.
var (
	// Accepted submission shapes: watch, youtu.be and shorts links with an
	// exact 11-character ID, optionally followed by a query or fragment.
	validURLRegex = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/(watch\?v=|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})([&?#].*)?$`)

	// More permissive: also finds IDs inside embed, /v/, and watch links
	// that carry other query parameters before v=.
	videoIDRegex = regexp.MustCompile(`(?:youtube\.com/(?:shorts/|(?:v|e(?:mbed)?)/|[^/\s]+/\S+/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
)

// IsValidURL reports whether input is a watch, shortened, or shorts link.
func IsValidURL(input string) bool {
	return validURLRegex.MatchString(input)
}

// ExtractVideoID pulls the 11-character video ID out of a link.
// Supports:
//   - https://www.youtube.com/watch?v=VIDEO_ID
//   - https://youtu.be/VIDEO_ID
//   - https://www.youtube.com/shorts/VIDEO_ID
//   - https://www.youtube.com/embed/VIDEO_ID and /v/VIDEO_ID
//
// Anything else yields UnknownVideoID.
func ExtractVideoID(input string) string {
	matches := videoIDRegex.FindStringSubmatch(input)
	if len(matches) < 2 {
		return UnknownVideoID
	}
	return matches[1]
}

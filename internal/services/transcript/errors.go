// errors.go defines the failure taxonomy of a transcript lookup.
//
// Go Pattern: Typed errors instead of sentinel strings. Callers match with
// errors.As and read the parsed fields directly, so nobody has to probe an
// untyped response body for optional properties.
package transcript

import (
	"errors"
	"fmt"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// Fixed user-facing messages.
const (
	MsgEmptyURL        = "Please enter a YouTube URL"
	MsgInvalidURL      = "Please enter a valid YouTube URL"
	MsgRateLimited     = "Too many requests. Please try again later."
	MsgMissingAPIKey   = "Configuration error: API key is not set"
	MsgDefaultFailure  = "Failed to get transcript. Please try again."
	MsgLanguageFailure = "Failed to get transcript in selected language."
	MsgNoTranscripts   = "This video does not have any transcripts or subtitles available."
	MsgEmptyTranscript = "No transcript found for this video"
)

// ValidationError is a bad or empty URL, caught before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError means the session configuration cannot make a request.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// RateLimitedError is an HTTP 429 from the backend. The body is ignored.
type RateLimitedError struct{}

func (e *RateLimitedError) Error() string { return MsgRateLimited }

// APIError is a structured failure body from the backend, either on a non-OK
// HTTP status or on an OK response whose status is not "success".
type APIError struct {
	HTTPStatus int
	Status     string
	Detail     string
	Message    string
	Note       string
	Reason     string // the body's "error" field
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	case e.Reason != "":
		return fmt.Sprintf("transcript API returned status %q: %s", e.Status, e.Reason)
	default:
		return fmt.Sprintf("transcript API returned status %q (HTTP %d)", e.Status, e.HTTPStatus)
	}
}

// IsNoTranscripts reports whether the backend said the video has no captions.
func (e *APIError) IsNoTranscripts() bool {
	return e.Status == models.APIStatusNoTranscripts
}

// TransportError means the backend could not be reached at all. The wording
// depends on whether the session talks to a local backend.
type TransportError struct {
	Local    bool
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Local {
		return fmt.Sprintf("Cannot connect to the local backend server at %s. Make sure it is running.", e.Endpoint)
	}
	return "Cannot reach the transcript API. Please check your connection and try again."
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage picks the text to show for a failed fetch: an API error's
// detail, then any error's message, then fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

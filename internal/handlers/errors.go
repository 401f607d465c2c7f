package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

// abortWithError maps a workflow error onto an HTTP status and writes it as
// an ErrorResponse. message is what the viewer should read.
func abortWithError(c *gin.Context, err error, message string) {
	code, kind := classify(err)
	if message == "" {
		message = err.Error()
	}
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    code,
	})
}

func classify(err error) (int, string) {
	var (
		validation *transcript.ValidationError
		limited    *transcript.RateLimitedError
		cfgErr     *transcript.ConfigurationError
		apiErr     *transcript.APIError
		transport  *transcript.TransportError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "invalid_url"
	case errors.Is(err, workflow.ErrUnknownLanguage):
		return http.StatusBadRequest, "invalid_language"
	case errors.Is(err, workflow.ErrNoTranscript):
		return http.StatusNotFound, "no_transcript"
	case errors.Is(err, workflow.ErrEmptyTranscript):
		return http.StatusNotFound, "empty_transcript"
	case errors.Is(err, workflow.ErrStale):
		return http.StatusConflict, "superseded"
	case errors.As(err, &limited):
		return http.StatusTooManyRequests, "rate_limit_exceeded"
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, "configuration_error"
	case errors.As(err, &apiErr):
		if apiErr.IsNoTranscripts() {
			return http.StatusNotFound, "no_transcripts"
		}
		return http.StatusBadGateway, "upstream_error"
	case errors.As(err, &transport):
		return http.StatusBadGateway, "upstream_unreachable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

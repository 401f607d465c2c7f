// api.go is the JSON surface of the viewer under /api/v1.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/transcript-viewer/internal/middleware"
	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// GetSession returns the visitor's current view state.
// GET /api/v1/session
func (h *Handler) GetSession(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// ResetSession clears the visitor's transcript and stored preferences.
// DELETE /api/v1/session
func (h *Handler) ResetSession(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	if err := h.Prefs.Forget(c.Request.Context(), middleware.GetVisitorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to clear preferences",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, ctrl.Reset())
}

// Lookup validates a link, discovers languages, and fetches the transcript.
// POST /api/v1/lookup
//
// Request body:
//
//	{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
func (h *Handler) Lookup(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide 'url' in the request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	snap, err := ctrl.Submit(c.Request.Context(), req.URL)
	if err != nil {
		abortWithError(c, err, snap.Error)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SwitchLanguage re-fetches the current transcript in another language.
// POST /api/v1/language
//
// Request body:
//
//	{"language": "de"}
func (h *Handler) SwitchLanguage(c *gin.Context) {
	var req models.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide 'language' in the request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	snap, err := ctrl.SwitchLanguage(c.Request.Context(), req.Language)
	if err != nil {
		abortWithError(c, err, snap.Error)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CopyTranscript returns the text for the browser to put on its clipboard
// and records the copy.
// POST /api/v1/copy
func (h *Handler) CopyTranscript(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var cb browserClipboard
	if err := ctrl.Copy(&cb); err != nil {
		abortWithError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": cb.text})
}

// GetPreferences returns the visitor's font size.
// GET /api/v1/preferences
func (h *Handler) GetPreferences(c *gin.Context) {
	size := h.Prefs.Load(c.Request.Context(), middleware.GetVisitorID(c))
	c.JSON(http.StatusOK, models.PreferencesResponse{FontSize: size})
}

// UpdatePreferences stores the visitor's font size. Unknown sizes are saved
// as the default.
// PUT /api/v1/preferences
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req models.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide 'font_size' (small, medium or large)",
			Code:    http.StatusBadRequest,
		})
		return
	}

	size, err := h.Prefs.Save(c.Request.Context(), middleware.GetVisitorID(c), req.FontSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to save preferences",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, models.PreferencesResponse{FontSize: size})
}

// browserClipboard captures the text; the browser does the actual copy.
type browserClipboard struct {
	text string
}

func (b *browserClipboard) WriteAll(text string) error {
	b.text = text
	return nil
}

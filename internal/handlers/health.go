// Package handlers contains the HTTP handlers for the transcript viewer.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, HTML, Data)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared dependencies.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/middleware"
	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/preferences"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Tests build a Handler
// around a registry whose controllers talk to a fake backend.
type Handler struct {
	Sessions *workflow.Registry
	Prefs    *preferences.Service
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(sessions *workflow.Registry, prefs *preferences.Service) *Handler {
	return &Handler{
		Sessions: sessions,
		Prefs:    prefs,
	}
}

// controller returns the calling visitor's controller, creating it from the
// request origin on first use. On failure it has already written the response.
func (h *Handler) controller(c *gin.Context) (*workflow.Controller, bool) {
	visitorID := middleware.GetVisitorID(c)
	ctrl, err := h.Sessions.Get(visitorID, config.OriginFromRequest(c.Request))
	if err != nil {
		log.Printf("❌ Failed to create controller for %s: %v", visitorID, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "configuration_error",
			Message: "Could not configure the transcript client",
			Code:    http.StatusInternalServerError,
		})
		return nil, false
	}
	return ctrl, true
}

// HealthCheck returns the server health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	prefStatus := h.Prefs.StoreName() + ": healthy"
	if err := h.Prefs.Ping(c.Request.Context()); err != nil {
		prefStatus = h.Prefs.StoreName() + ": unhealthy: " + err.Error()
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Version:     Version,
		Preferences: prefStatus,
		Sessions:    h.Sessions.Len(),
	})
}

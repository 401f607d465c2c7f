// Package router sets up all HTTP routes for the viewer.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/handlers"
	"github.com/Shimizu-Technology/transcript-viewer/internal/middleware"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/preferences"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

// Setup creates and configures the Gin router with all routes.
func Setup(cfg *config.Config, sessions *workflow.Registry, prefs *preferences.Service, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(handlers.Templates())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	h := handlers.NewHandler(sessions, prefs)

	// --- Public Routes (no visitor identity needed) ---
	r.GET("/api/v1/health", h.HealthCheck)
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Visitor Routes ---
	// Go Pattern: Middleware order matters. Visitor must run first so the
	// rate limiter can key on the visitor id it sets.
	visitor := r.Group("/")
	visitor.Use(middleware.Visitor(cfg.VisitorSecret, middleware.DefaultVisitorTTL))
	visitor.Use(limiter.RateLimit())
	{
		// HTML view
		visitor.GET("/", h.Page)
		visitor.POST("/transcript", h.SubmitForm)
		visitor.POST("/transcript/language", h.SwitchLanguageForm)
		visitor.GET("/transcript/download", h.DownloadTranscript)
		visitor.POST("/preferences/font-size", h.FontSizeForm)

		// JSON API
		visitor.GET("/api/v1/session", h.GetSession)
		visitor.DELETE("/api/v1/session", h.ResetSession)
		visitor.POST("/api/v1/lookup", h.Lookup)
		visitor.POST("/api/v1/language", h.SwitchLanguage)
		visitor.POST("/api/v1/copy", h.CopyTranscript)
		visitor.GET("/api/v1/preferences", h.GetPreferences)
		visitor.PUT("/api/v1/preferences", h.UpdatePreferences)
	}

	return r
}

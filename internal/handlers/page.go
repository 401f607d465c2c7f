// page.go serves the HTML view. Forms post back and redirect to GET /, so a
// refresh never re-submits a lookup.
package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/middleware"
	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

// Go Pattern: `//go:embed` compiles the templates into the binary, so the
// server needs no files next to it at runtime.
//
//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates. html/template escapes every
// value, including transcript text from the backend.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// pageData is everything page.html renders.
type pageData struct {
	View      workflow.Snapshot
	FontSize  models.FontSize
	FontSizes []models.FontSize
	Debug     bool
}

// Page renders the viewer.
// GET /
func (h *Handler) Page(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "page.html", pageData{
		View:      ctrl.Snapshot(),
		FontSize:  h.Prefs.Load(c.Request.Context(), middleware.GetVisitorID(c)),
		FontSizes: models.FontSizes(),
		Debug:     config.Resolve(config.OriginFromRequest(c.Request)).Debug,
	})
}

// SubmitForm runs a lookup from the page form.
// POST /transcript
func (h *Handler) SubmitForm(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	// Errors are part of the snapshot the page renders next.
	if _, err := ctrl.Submit(c.Request.Context(), c.PostForm("url")); err != nil {
		log.Printf("⚠️  Lookup for %s ended with: %v", middleware.GetVisitorID(c), err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// SwitchLanguageForm switches language from the page form.
// POST /transcript/language
func (h *Handler) SwitchLanguageForm(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	if _, err := ctrl.SwitchLanguage(c.Request.Context(), c.PostForm("language")); err != nil {
		log.Printf("⚠️  Language switch for %s ended with: %v", middleware.GetVisitorID(c), err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// FontSizeForm stores the font size picked on the page.
// POST /preferences/font-size
func (h *Handler) FontSizeForm(c *gin.Context) {
	if _, err := h.Prefs.Save(c.Request.Context(), middleware.GetVisitorID(c), c.PostForm("font_size")); err != nil {
		log.Printf("⚠️  %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// export.go serves the current transcript as a downloadable text file.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DownloadTranscript streams the displayed transcript as
// transcript_<videoId>[_<language>].txt.
// GET /transcript/download
//
// Response headers are set for file download:
//   - Content-Type: text/plain; charset=utf-8
//   - Content-Disposition: attachment with filename
func (h *Handler) DownloadTranscript(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	f, err := ctrl.Download()
	if err != nil {
		abortWithError(c, err, "Load a transcript before downloading it")
		return
	}

	c.Header("Content-Disposition", f.ContentDisposition())
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

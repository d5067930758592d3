package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyler/internal/export"
)

// Export renders the current configuration for the :target in the path.
// ?inline=1 serves it for display instead of download.
func (h *Handler) Export(c *gin.Context) {
	target, err := export.ParseTarget(c.Param("target"))
	if err != nil {
		h.fail(c, err)
		return
	}

	art, err := h.exporter.Export(c.Request.Context(), h.store.Snapshot(), target)
	if err != nil {
		h.fail(c, err)
		return
	}

	disposition := "attachment"
	if c.Query("inline") == "1" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, art.Filename))
	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	if target == export.TargetSVG {
		// the document may embed a user supplied logo
		c.Header("Content-Security-Policy", "default-src 'none'; img-src data:; style-src 'unsafe-inline'")
	}
	c.Data(http.StatusOK, art.ContentType, art.Data)
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/media/logo"
	toast "github.com/cristianadrielbraun/qrstyler/web/components/ui/toast"
)

// multipartOverhead is the allowance for multipart framing on top of the
// file size limit.
const multipartOverhead = 64 << 10

// UploadLogo accepts a multipart "logo" file, sanitizes it and stores the
// resulting data URL. Files over the limit are refused before the
// sanitizer runs.
func (h *Handler) UploadLogo(c *gin.Context) {
	limit := h.sanitizer.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile("logo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(c, apperr.New(apperr.KindTooLarge, "handlers.upload_logo", tooLargeMessage(limit)))
			return
		}
		h.fail(c, apperr.Wrap(apperr.KindValidation, "handlers.upload_logo", "Choose an image file to upload", err))
		return
	}
	if fh.Size > limit {
		h.fail(c, apperr.New(apperr.KindTooLarge, "handlers.upload_logo", tooLargeMessage(limit)))
		return
	}

	res := h.sanitizer.Sanitize(c.Request.Context(), logo.File{
		Name:      fh.Filename,
		MediaType: declaredType(fh.Header.Get("Content-Type")),
		Size:      fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	})
	if !res.Sanitized {
		h.fail(c, apperr.New(res.Kind, "handlers.upload_logo", res.Error))
		return
	}

	cfg, err := h.store.SetLogo(c.Request.Context(), res.DataURL)
	if err != nil && !apperr.IsKind(err, apperr.KindInternal) {
		h.fail(c, err)
		return
	}
	if err != nil {
		// the logo is in place; only saving it failed
		h.log.Warn().Err(err).Msg("Logo applied but not persisted")
	}

	if isHTMX(c) {
		c.Header("HX-Trigger", "config-changed")
		h.renderToast(c, http.StatusOK, toast.Props{
			Title:       "Logo added",
			Description: "Error correction was raised to H so the code stays scannable.",
			Variant:     toast.VariantSuccess,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "config": cfg})
}

func (h *Handler) DeleteLogo(c *gin.Context) {
	cfg, err := h.store.ClearLogo(c.Request.Context())
	if err != nil && !apperr.IsKind(err, apperr.KindInternal) {
		h.fail(c, err)
		return
	}
	if isHTMX(c) {
		c.Header("HX-Trigger", "config-changed")
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// declaredType strips parameters from a Content-Type header. The value is
// still only a claim; the sanitizer verifies it.
func declaredType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mt
}

func tooLargeMessage(limit int64) string {
	if limit%(1<<20) == 0 {
		return fmt.Sprintf("File exceeds the %d MiB limit", limit>>20)
	}
	return fmt.Sprintf("File exceeds the %d bytes limit", limit)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	toast "github.com/cristianadrielbraun/qrstyler/web/components/ui/toast"
)

const msgGeneric = "Something went wrong. Please try again."

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnsupportedType:
		return http.StatusUnsupportedMediaType
	case apperr.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperr.KindParse, apperr.KindContentMismatch, apperr.KindImageDecode:
		return http.StatusUnprocessableEntity
	case apperr.KindClipboardUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// isHTMX reports whether the request came from an htmx swap.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// fail writes err as JSON {error, kind}. htmx requests get a 200 error
// toast retargeted to #toasts. Unclassified errors never leak their cause.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	msg := apperr.Message(err, msgGeneric)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status, msg = http.StatusServiceUnavailable, "The request was cancelled"
	}

	h.log.Warn().
		Err(err).
		Str("kind", string(kind)).
		Int("status", status).
		Str("path", c.FullPath()).
		Msg("Request failed")
	_ = c.Error(err)

	if isHTMX(c) {
		c.Header("HX-Retarget", "#toasts")
		c.Header("HX-Reswap", "beforeend")
		h.renderToast(c, http.StatusOK, toast.Props{
			Title:       "Error",
			Description: msg,
			Variant:     toast.VariantError,
			Dismissible: true,
		})
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "kind": kind})
}

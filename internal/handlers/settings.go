package handlers

import (
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
	"github.com/cristianadrielbraun/qrstyler/internal/urlcheck"
)

type dataRequest struct {
	Data string `json:"data" form:"data"`
}

type sizeRequest struct {
	DownloadSize int `json:"downloadSize" form:"downloadSize"`
}

func (h *Handler) ValidateURL(c *gin.Context) {
	var req dataRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidation, "handlers.validate_url", "Invalid request body", err))
		return
	}
	c.JSON(http.StatusOK, urlcheck.Validate(req.Data))
}

func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// PutConfig replaces the whole configuration. The logo field is ignored;
// logos only arrive through the upload endpoint.
func (h *Handler) PutConfig(c *gin.Context) {
	var next qrconfig.Config
	if err := c.ShouldBindJSON(&next); err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidation, "handlers.put_config", "Invalid configuration", err))
		return
	}
	if res := urlcheck.Validate(next.Data); next.Data != "" && !res.IsValid {
		h.fail(c, apperr.New(apperr.KindValidation, "handlers.put_config", res.Message))
		return
	}
	h.respondConfig(c)(h.store.Replace(c.Request.Context(), next))
}

// PutData updates the encoded text after running it through the URL
// validator. Blocked schemes are refused; other input is stored along with
// any advisory message.
func (h *Handler) PutData(c *gin.Context) {
	var req dataRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidation, "handlers.put_data", "Invalid request body", err))
		return
	}

	res := urlcheck.Validate(req.Data)
	if !res.IsValid && res.Message != "" {
		if isHTMX(c) {
			c.String(http.StatusOK, html.EscapeString(res.Message))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Message, "kind": apperr.KindValidation, "validation": res})
		return
	}

	cfg := h.store.SetData(req.Data)
	if isHTMX(c) {
		c.Header("HX-Trigger", "config-changed")
		c.String(http.StatusOK, html.EscapeString(res.Message))
		return
	}
	c.JSON(http.StatusOK, gin.H{"validation": res, "config": cfg})
}

func (h *Handler) PutDownloadSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidation, "handlers.put_size", "Invalid request body", err))
		return
	}
	h.respondConfig(c)(h.store.SetDownloadSize(c.Request.Context(), req.DownloadSize))
}

func (h *Handler) ResetConfig(c *gin.Context) {
	h.respondConfig(c)(h.store.Reset(c.Request.Context()))
}

func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, qrconfig.Templates())
}

func (h *Handler) ApplyTemplate(c *gin.Context) {
	h.respondConfig(c)(h.store.ApplyTemplate(c.Request.Context(), c.Param("id")))
}

// respondConfig writes the result of a store mutation. A failed save still
// answers 200 with the new state and a warning; anything else is an error.
func (h *Handler) respondConfig(c *gin.Context) func(qrconfig.Config, error) {
	return func(cfg qrconfig.Config, err error) {
		if err != nil && !apperr.IsKind(err, apperr.KindInternal) {
			h.fail(c, err)
			return
		}
		if isHTMX(c) {
			c.Header("HX-Trigger", "config-changed")
		}
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"config": cfg, "warning": apperr.Message(err, "")})
			return
		}
		c.JSON(http.StatusOK, gin.H{"config": cfg})
	}
}

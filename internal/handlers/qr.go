package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/engine"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
	"github.com/cristianadrielbraun/qrstyler/internal/urlcheck"
)

const maxURLLength = 4096

// normalizeHTTPURL validates and normalizes a URL string for QR generation.
// It ensures an http/https scheme, a non-empty hostname, and returns a cleaned absolute URL.
func normalizeHTTPURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("URL parameter is required")
	}
	if res := urlcheck.Validate(v); !res.IsValid {
		return "", fmt.Errorf("%s", res.Message)
	}
	if len(v) > maxURLLength {
		return "", fmt.Errorf("URL is too long")
	}
	// If missing scheme, default to https
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL must include a valid host")
	}
	return u.String(), nil
}

// QRCodeHandler renders a quick preview from query parameters alone, without
// touching the stored configuration.
//
//	url            required, http or https (scheme defaults to https)
//	format         png (default), jpg or svg
//	colorMode      flat (default) or gradient
//	fg, bg         hex colors; bg may be "transparent"
//	gradientStart, gradientMiddle, gradientEnd
//	qrShape        rectangle, circle, liquid, chain, hstripe or vstripe
//	ecc            L, M, Q (default) or H
//	previewSize    edge length in pixels
func (h *Handler) QRCodeHandler(c *gin.Context) {
	normalizedURL, err := normalizeHTTPURL(c.Query("url"))
	if err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidation, "handlers.qr", err.Error(), err))
		return
	}

	// Parse format parameter (default to PNG)
	format := strings.ToLower(c.DefaultQuery("format", "png"))
	if format == "jpeg" {
		format = "jpg"
	}
	if format != "png" && format != "svg" && format != "jpg" {
		format = "png"
	}

	size := 0
	if ps := c.Query("previewSize"); ps != "" {
		size, err = strconv.Atoi(ps)
		if err != nil || size <= 0 {
			h.fail(c, apperr.New(apperr.KindValidation, "handlers.qr", "previewSize must be a positive integer"))
			return
		}
	}

	level := qrconfig.ErrorCorrectionLevel(strings.ToUpper(c.DefaultQuery("ecc", "Q")))
	if !level.Valid() {
		level = qrconfig.ECQuartile
	}

	colorMode := c.DefaultQuery("colorMode", "flat")
	fg := c.DefaultQuery("fg", "#000000")
	bg := c.DefaultQuery("bg", "#ffffff")
	var gradient []string
	if colorMode == "gradient" {
		gradient = []string{
			c.DefaultQuery("gradientStart", "#000000"),
			c.DefaultQuery("gradientMiddle", "#808080"),
			c.DefaultQuery("gradientEnd", "#ff0000"),
		}
	}
	qrShape := c.DefaultQuery("qrShape", engine.PreviewRectangle)

	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;size=%d;shape=%s;colorMode=%s", format, size, qrShape, colorMode))
	c.Header("Cache-Control", "public, max-age=300")

	if format == "svg" {
		h.previewSVG(c, normalizedURL, size, fg, bg, gradient, level)
		return
	}

	img, err := engine.RenderPreview(engine.Preview{
		Data:       normalizedURL,
		Size:       size,
		Foreground: fg,
		Background: bg,
		Gradient:   gradient,
		Shape:      qrShape,
		Level:      level,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := "image/png"
	if format == "jpg" {
		contentType = "image/jpeg"
		err = engine.EncodeJPEG(&buf, img, bg)
	} else {
		err = engine.EncodePNG(&buf, img)
	}
	if err != nil {
		h.fail(c, apperr.Wrap(apperr.KindExport, "handlers.qr", "Failed to encode QR code", err))
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// previewSVG maps the preview parameters onto the vector renderer. Module
// shapes other than the default have no vector equivalent and are ignored.
func (h *Handler) previewSVG(c *gin.Context, data string, size int, fg, bg string, gradient []string, level qrconfig.ErrorCorrectionLevel) {
	if size == 0 {
		size = 512
	}

	cfg := qrconfig.Defaults()
	cfg.Data = data
	cfg.ErrorCorrectionLevel = level
	if qrconfig.IsColor(fg) {
		cfg.DotColor, cfg.CornerSquareColor, cfg.CornerDotColor = fg, fg, fg
	}
	if qrconfig.IsColor(bg) {
		cfg.BackgroundColor = bg
	}
	if len(gradient) == 3 {
		cfg.DotGradient = &qrconfig.Gradient{
			Type:     qrconfig.GradientLinear,
			Rotation: 45,
			ColorStops: []qrconfig.ColorStop{
				{Offset: 0, Color: gradient[0]},
				{Offset: 0.5, Color: gradient[1]},
				{Offset: 1, Color: gradient[2]},
			},
		}
	}

	doc, err := engine.RenderSVG(engine.BuildOptions(cfg, size))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, "image/svg+xml", doc)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstyler/internal/export"
	"github.com/cristianadrielbraun/qrstyler/internal/media/logo"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
	"github.com/cristianadrielbraun/qrstyler/internal/store"
	"github.com/cristianadrielbraun/qrstyler/web/components"
	"github.com/cristianadrielbraun/qrstyler/web/pages"
)

// Deps are the collaborators the HTTP handlers need.
type Deps struct {
	Log       zerolog.Logger
	Store     *store.Store
	Sanitizer *logo.Sanitizer
	Exporter  *export.Dispatcher
	Metrics   *metrics.Metrics
}

// Handler groups the HTTP handlers around shared dependencies.
type Handler struct {
	log       zerolog.Logger
	store     *store.Store
	sanitizer *logo.Sanitizer
	exporter  *export.Dispatcher
	metrics   *metrics.Metrics
}

// New returns a new Handler instance.
func New(d Deps) *Handler {
	return &Handler{
		log:       d.Log.With().Str("component", "http").Logger(),
		store:     d.Store,
		sanitizer: d.Sanitizer,
		exporter:  d.Exporter,
		metrics:   d.Metrics,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/sitemap.xml", h.SitemapXML)
	r.GET("/healthz", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/htmx/toast", h.GenericToast)

		api.POST("/logo", h.UploadLogo)
		api.DELETE("/logo", h.DeleteLogo)

		api.POST("/validate-url", h.ValidateURL)

		api.GET("/config", h.GetConfig)
		api.PUT("/config", h.PutConfig)
		api.PUT("/config/data", h.PutData)
		api.PUT("/config/size", h.PutDownloadSize)
		api.POST("/config/reset", h.ResetConfig)

		api.GET("/templates", h.ListTemplates)
		api.POST("/templates/:id", h.ApplyTemplate)

		api.GET("/export/:target", h.Export)
	}
}

func (h *Handler) Home(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	err := pages.HomePage(pages.HomeData{
		Meta: components.PageMeta{
			Title:        "QR Styler",
			Description:  "Create styled QR codes with colors, gradients, shapes and your own logo.",
			CanonicalURL: baseURL(c) + "/",
		},
		Config:       h.store.Snapshot(),
		Templates:    qrconfig.Templates(),
		MaxUploadMiB: h.sanitizer.MaxBytes() >> 20,
	}).Render(c.Request.Context(), c.Writer)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render home page")
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + baseURL(c) + "/" + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}

func baseURL(c *gin.Context) string {
	scheme := "https"
	host := c.Request.Host
	if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf == "http" || xf == "https" {
		scheme = xf
	} else if c.Request.TLS == nil && (host == "localhost:8080" || host == "127.0.0.1:8080") {
		scheme = "http"
	}
	return scheme + "://" + host
}

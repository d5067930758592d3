// Package pages renders full HTML documents.
package pages

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
	"github.com/cristianadrielbraun/qrstyler/web/components"
)

// HomeData is everything the editor page shows.
type HomeData struct {
	Meta      components.PageMeta
	Config    qrconfig.Config
	Templates []qrconfig.Template
	// MaxUploadMiB is shown next to the logo picker.
	MaxUploadMiB int64
}

var downloadTargets = []components.Option{
	{Value: "png", Label: "PNG"},
	{Value: "jpg", Label: "JPEG"},
	{Value: "svg", Label: "SVG"},
	{Value: "pdf", Label: "PDF"},
}

func buttonClass(extra string) string {
	return twmerge.Merge("rounded-md border px-3 py-2 text-sm font-medium hover:bg-gray-100", extra)
}

func HomePage(d HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := html.EscapeString
		var b strings.Builder

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s</title><meta name="description" content="%s">`, esc(d.Meta.Title), esc(d.Meta.Description))
		if d.Meta.CanonicalURL != "" {
			fmt.Fprintf(&b, `<link rel="canonical" href="%s">`, esc(d.Meta.CanonicalURL))
		}
		b.WriteString(`<link rel="stylesheet" href="/web/static/app.css">`)
		b.WriteString(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		b.WriteString(`</head><body class="min-h-screen bg-gray-50 text-gray-900">`)

		b.WriteString(`<main class="mx-auto grid max-w-5xl gap-8 p-6 md:grid-cols-2">`)

		// editor
		b.WriteString(`<section class="space-y-6">`)
		fmt.Fprintf(&b, `<h1 class="text-2xl font-bold">%s</h1>`, esc(d.Meta.Title))
		fmt.Fprintf(&b, `<form hx-put="/api/config/data" hx-trigger="input changed delay:300ms" hx-target="#url-message" hx-swap="innerHTML">`+
			`<label for="data" class="block text-sm font-medium">URL or text</label>`+
			`<input id="data" name="data" type="text" value="%s" class="w-full rounded-md border p-2" autocomplete="off">`+
			`<p id="url-message" class="text-sm text-gray-600" aria-live="polite"></p></form>`, esc(d.Config.Data))

		b.WriteString(`<div><h2 class="font-semibold">Templates</h2><div class="flex flex-wrap gap-2">`)
		for _, tpl := range d.Templates {
			fmt.Fprintf(&b, `<button type="button" class="%s" title="%s" hx-post="/api/templates/%s" hx-swap="none">%s</button>`,
				esc(buttonClass("")), esc(tpl.Description), esc(tpl.ID), esc(tpl.Name))
		}
		b.WriteString(`</div></div>`)

		fmt.Fprintf(&b, `<form hx-post="/api/logo" hx-encoding="multipart/form-data" hx-target="#toasts" hx-swap="beforeend">`+
			`<label for="logo" class="block text-sm font-medium">Logo (PNG, JPEG, GIF, WebP or SVG, up to %d MiB)</label>`+
			`<input id="logo" name="logo" type="file" accept="image/png,image/jpeg,image/gif,image/webp,image/svg+xml">`+
			`<button type="submit" class="%s">Upload</button>`+
			`<button type="button" class="%s" hx-delete="/api/logo" hx-swap="none">Remove logo</button></form>`,
			d.MaxUploadMiB, esc(buttonClass("")), esc(buttonClass("text-red-700")))
		b.WriteString(`</section>`)

		// preview and downloads
		b.WriteString(`<section class="space-y-4">`)
		b.WriteString(`<img id="preview" src="/api/export/svg?inline=1" alt="QR code preview" class="aspect-square w-full rounded-lg border bg-white">`)
		b.WriteString(`<div class="flex flex-wrap gap-2">`)
		for _, t := range downloadTargets {
			fmt.Fprintf(&b, `<a class="%s" href="/api/export/%s" download>%s</a>`, esc(buttonClass("bg-gray-900 text-white hover:bg-gray-700")), t.Value, t.Label)
		}
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<p class="text-sm text-gray-600">Download size: %dpx</p>`, d.Config.DownloadSize)
		b.WriteString(`</section></main>`)

		b.WriteString(`<div id="toasts"></div></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

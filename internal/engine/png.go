package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
)

// RenderPNG draws the code at opts.Width pixels square, with the logo
// composited over the modules.
func RenderPNG(opts Options) (*image.NRGBA, error) {
	s, err := newScene(opts)
	if err != nil {
		return nil, err
	}

	img, err := rasterize(s.svg(false), opts.Width, opts.Width)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "engine.render_png", "Failed to draw QR code", err)
	}

	if s.logo != nil {
		area, ok := s.logo.inset(opts.ImageOptions.Margin)
		if ok {
			if err := compositeLogo(img, opts.Image, area); err != nil {
				return nil, apperr.Wrap(apperr.KindExport, "engine.render_png", "Failed to draw the logo", err)
			}
		}
	}
	return img, nil
}

// rasterize renders an SVG document onto a w x h surface.
func rasterize(doc []byte, w, h int) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	out := image.NewNRGBA(rgba.Bounds())
	draw.Draw(out, out.Bounds(), rgba, image.Point{}, draw.Src)
	return out, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodeJPEG flattens img onto an opaque background and writes it as JPEG.
// A transparent background becomes white.
func EncodeJPEG(w io.Writer, img image.Image, background string) error {
	bg := parseColor(background, white)
	if bg.A == 0 {
		bg = white
	}
	bg.A = 255

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)

	if err := jpeg.Encode(w, out, &jpeg.Options{Quality: 92}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

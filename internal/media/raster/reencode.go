// Package raster re-encodes untrusted raster images through a fresh pixel
// surface so that nothing outside the pixel grid survives.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/webp"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
)

const (
	// DefaultMaxDimension caps width and height before the surface is allocated.
	DefaultMaxDimension = 8192
	// DefaultMaxPixels bounds the surface to roughly 160 MB of RGBA.
	DefaultMaxPixels = 40_000_000
)

// Limits bounds the decoded image size.
type Limits struct {
	MaxDimension int
	MaxPixels    int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxDimension: DefaultMaxDimension, MaxPixels: DefaultMaxPixels}
}

// Reencoder decodes png, jpeg, gif and webp input and emits canonical PNG.
type Reencoder struct {
	limits Limits
}

func NewReencoder(limits Limits) *Reencoder {
	if limits.MaxDimension <= 0 {
		limits.MaxDimension = DefaultMaxDimension
	}
	if limits.MaxPixels <= 0 {
		limits.MaxPixels = DefaultMaxPixels
	}
	return &Reencoder{limits: limits}
}

// Reencode reads the whole image from r and returns PNG bytes containing
// only its pixels. Undecodable input yields an image_decode error.
func (e *Reencoder) Reencode(ctx context.Context, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindImageDecode, "raster.reencode", "Image failed to load", err)
	}
	if err := e.checkBounds(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindImageDecode, "raster.reencode", "Image failed to load", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	surface := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(surface, surface.Bounds(), src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Reencoder) checkBounds(width, height int) error {
	if width > e.limits.MaxDimension || height > e.limits.MaxDimension {
		return apperr.New(apperr.KindImageDecode, "raster.reencode",
			fmt.Sprintf("Image dimensions %dx%d exceed the %d pixel limit", width, height, e.limits.MaxDimension))
	}
	if int64(width)*int64(height) > int64(e.limits.MaxPixels) {
		return apperr.New(apperr.KindImageDecode, "raster.reencode",
			fmt.Sprintf("Image has too many pixels (%d x %d)", width, height))
	}
	return nil
}

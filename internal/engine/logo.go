package engine

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	xdraw "golang.org/x/image/draw"
)

const (
	pngDataURL = "data:image/png;base64,"
	svgDataURL = "data:image/svg+xml;base64,"
)

var errLogoFormat = errors.New("logo is not a png or svg data URL")

// compositeLogo draws the logo centred in area, scaled to fit while keeping
// its aspect ratio.
func compositeLogo(dst *image.NRGBA, dataURL string, area box) error {
	side := int(math.Round(area.side))
	if side <= 0 {
		return nil
	}

	logo, err := decodeLogo(dataURL, side)
	if err != nil {
		return err
	}

	b := logo.Bounds()
	w, h := fit(b.Dx(), b.Dy(), side)
	x := int(math.Round(area.x)) + (side-w)/2
	y := int(math.Round(area.y)) + (side-h)/2
	target := image.Rect(x, y, x+w, y+h)

	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, target, logo, b.Min, draw.Over)
		return nil
	}
	xdraw.CatmullRom.Scale(dst, target, logo, b, xdraw.Over, nil)
	return nil
}

func decodeLogo(dataURL string, side int) (image.Image, error) {
	switch {
	case strings.HasPrefix(dataURL, pngDataURL):
		raw, err := base64.StdEncoding.DecodeString(dataURL[len(pngDataURL):])
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
		return img, nil

	case strings.HasPrefix(dataURL, svgDataURL):
		raw, err := base64.StdEncoding.DecodeString(dataURL[len(svgDataURL):])
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
		icon, err := oksvg.ReadIconStream(bytes.NewReader(raw), oksvg.IgnoreErrorMode)
		if err != nil {
			return nil, fmt.Errorf("parse svg logo: %w", err)
		}
		vw, vh := int(math.Round(icon.ViewBox.W)), int(math.Round(icon.ViewBox.H))
		if vw <= 0 || vh <= 0 {
			vw, vh = side, side
		}
		w, h := fit(vw, vh, side)
		return rasterize(raw, w, h)

	default:
		return nil, errLogoFormat
	}
}

// fit scales w x h to fit inside a side x side square.
func fit(w, h, side int) (int, int) {
	if w <= 0 || h <= 0 {
		return side, side
	}
	if w >= h {
		return side, max(1, h*side/w)
	}
	return max(1, w*side/h), side
}

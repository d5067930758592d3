package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"github.com/yeqown/go-qrcode/writer/standard/shapes"
	xdraw "golang.org/x/image/draw"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// Module shapes supported by the quick preview.
const (
	PreviewRectangle = "rectangle"
	PreviewCircle    = "circle"
	PreviewLiquid    = "liquid"
	PreviewChain     = "chain"
	PreviewHStripe   = "hstripe"
	PreviewVStripe   = "vstripe"
)

const (
	previewModulePx     = 16
	previewPaddingPct   = 7
	previewGradientRot  = 45
	maxPreviewDimension = 2048
)

// Preview describes a quick, query-string driven render that skips the
// full styling pipeline.
type Preview struct {
	Data       string
	Size       int
	Foreground string
	Background string
	// Gradient holds start, middle and end colors; empty means flat.
	Gradient []string
	Shape    string
	Level    qrconfig.ErrorCorrectionLevel
}

// RenderPreview draws p with the standard go-qrcode writer.
func RenderPreview(p Preview) (*image.NRGBA, error) {
	if p.Data == "" {
		return nil, ErrEmptyData
	}
	if p.Size < 0 || p.Size > maxPreviewDimension {
		return nil, apperr.New(apperr.KindValidation, "engine.preview",
			fmt.Sprintf("previewSize must be between 1 and %d", maxPreviewDimension))
	}

	qrc, err := qrcode.NewWith(p.Data, ecOption(p.Level))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "engine.preview", "The text is too long to fit in a QR code", err)
	}

	bg := parseColor(p.Background, white)
	options := []standard.ImageOption{
		standard.WithQRWidth(previewModulePx),
		standard.WithBorderWidth(0),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	}
	if bg.A == 0 {
		options = append(options, standard.WithBgTransparent())
	} else {
		options = append(options, standard.WithBgColor(bg))
	}

	switch p.Shape {
	case PreviewCircle:
		options = append(options, standard.WithCircleShape())
	case PreviewLiquid:
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.LiquidBlock()}))
	case PreviewChain:
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.ChainBlock()}))
	case PreviewHStripe:
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.HStripeBlock(0.85)}))
	case PreviewVStripe:
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.VStripeBlock(0.85)}))
	}

	if len(p.Gradient) == 3 {
		options = append(options, standard.WithFgGradient(standard.NewGradient(previewGradientRot, []standard.ColorStop{
			{T: 0, Color: color.RGBAModel.Convert(parseColor(p.Gradient[0], black)).(color.RGBA)},
			{T: 0.5, Color: color.RGBAModel.Convert(parseColor(p.Gradient[1], black)).(color.RGBA)},
			{T: 1, Color: color.RGBAModel.Convert(parseColor(p.Gradient[2], black)).(color.RGBA)},
		}...)))
	} else {
		options = append(options, standard.WithFgColor(parseColor(p.Foreground, black)))
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopCloser{&buf}, options...)
	if err := qrc.Save(w); err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "engine.preview", "Failed to generate QR code image", err)
	}
	_ = w.Close()

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "engine.preview", "Failed to decode QR image", err)
	}

	out := pad(img, previewPaddingPct, bg)
	if p.Size > 0 && out.Bounds().Dx() != p.Size {
		out = scaleNearest(out, p.Size)
	}
	return out, nil
}

// pad surrounds img with a margin of pct percent of its width.
func pad(img image.Image, pct int, bg color.NRGBA) *image.NRGBA {
	b := img.Bounds()
	margin := b.Dx() * pct / 100
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*margin, b.Dy()+2*margin))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(margin, margin, margin+b.Dx(), margin+b.Dy()), img, b.Min, draw.Src)
	return out
}

// scaleNearest resizes to size x size with nearest neighbour sampling so
// module edges stay sharp.
func scaleNearest(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// customShape adapts a shapes drawing function to standard.IShape.
type customShape struct {
	drawFunc func(ctx *standard.DrawContext)
}

func (cs *customShape) Draw(ctx *standard.DrawContext) {
	cs.drawFunc(ctx)
}

// DrawFinder uses the same function so finders match the data modules.
func (cs *customShape) DrawFinder(ctx *standard.DrawContext) {
	cs.drawFunc(ctx)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

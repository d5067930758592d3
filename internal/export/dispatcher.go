// Package export renders a styling configuration into a downloadable
// artifact for one of the supported targets.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/engine"
	"github.com/cristianadrielbraun/qrstyler/internal/filename"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

type Target string

const (
	TargetPNG       Target = "png"
	TargetJPEG      Target = "jpg"
	TargetSVG       Target = "svg"
	TargetPDF       Target = "pdf"
	TargetClipboard Target = "clipboard"
)

// BaseName is the file name every download starts from.
const BaseName = "qr-code"

const MsgClipboardUnsupported = "Clipboard API not supported"

// ParseTarget accepts a target name case-insensitively; "jpeg" is an alias
// of "jpg".
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetPNG, TargetJPEG, TargetSVG, TargetPDF, TargetClipboard:
		return t, nil
	case "jpeg":
		return TargetJPEG, nil
	}
	return "", apperr.New(apperr.KindValidation, "export.parse_target",
		fmt.Sprintf("Unknown download format %q", s))
}

// Artifact is a rendered download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Clipboard receives images copied by the clipboard target.
type Clipboard interface {
	Write(ctx context.Context, contentType string, data []byte) error
}

type Dispatcher struct {
	log       zerolog.Logger
	metrics   *metrics.Metrics
	clipboard Clipboard
}

// NewDispatcher creates a dispatcher. A nil clipboard makes the clipboard
// target fail with a clipboard_unsupported error.
func NewDispatcher(log zerolog.Logger, m *metrics.Metrics, clipboard Clipboard) *Dispatcher {
	return &Dispatcher{
		log:       log.With().Str("component", "export").Logger(),
		metrics:   m,
		clipboard: clipboard,
	}
}

// Export renders cfg for target. Every failure is returned to the caller.
func (d *Dispatcher) Export(ctx context.Context, cfg qrconfig.Config, target Target) (Artifact, error) {
	art, err := d.export(ctx, cfg, target)
	d.metrics.ObserveExport(string(target), err)

	if err != nil {
		d.log.Warn().
			Err(err).
			Str("target", string(target)).
			Str("kind", string(apperr.KindOf(err))).
			Msg("Export failed")
		return Artifact{}, err
	}

	d.log.Info().
		Str("target", string(target)).
		Str("filename", art.Filename).
		Int("bytes", len(art.Data)).
		Msg("Export completed")
	return art, nil
}

func (d *Dispatcher) export(ctx context.Context, cfg qrconfig.Config, target Target) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if cfg.Data == "" {
		return Artifact{}, engine.ErrEmptyData
	}
	if err := cfg.Validate(); err != nil {
		return Artifact{}, err
	}

	opts := engine.BuildOptions(cfg, 0)

	switch target {
	case TargetSVG:
		doc, err := engine.RenderSVG(opts)
		if err != nil {
			return Artifact{}, err
		}
		doc, err = engine.ApplySVGShadow(doc, cfg.Shadow)
		if err != nil {
			return Artifact{}, err
		}
		return artifact("svg", "image/svg+xml", doc), nil

	case TargetPNG:
		data, err := d.png(ctx, opts, cfg.Shadow)
		if err != nil {
			return Artifact{}, err
		}
		return artifact("png", "image/png", data), nil

	case TargetJPEG:
		img, err := d.raster(ctx, opts, cfg.Shadow)
		if err != nil {
			return Artifact{}, err
		}
		var buf bytes.Buffer
		if err := engine.EncodeJPEG(&buf, img, cfg.BackgroundColor); err != nil {
			return Artifact{}, apperr.Wrap(apperr.KindExport, "export.jpeg", "Failed to encode JPEG", err)
		}
		return artifact("jpg", "image/jpeg", buf.Bytes()), nil

	case TargetPDF:
		data, err := d.png(ctx, opts, cfg.Shadow)
		if err != nil {
			return Artifact{}, err
		}
		doc, err := renderPDF(data, opts.Width)
		if err != nil {
			return Artifact{}, err
		}
		return artifact("pdf", "application/pdf", doc), nil

	case TargetClipboard:
		if d.clipboard == nil {
			return Artifact{}, apperr.New(apperr.KindClipboardUnsupported, "export.clipboard", MsgClipboardUnsupported)
		}
		data, err := d.png(ctx, opts, cfg.Shadow)
		if err != nil {
			return Artifact{}, err
		}
		if err := d.clipboard.Write(ctx, "image/png", data); err != nil {
			return Artifact{}, apperr.Wrap(apperr.KindExport, "export.clipboard", "Failed to copy to clipboard", err)
		}
		return artifact("png", "image/png", data), nil
	}

	return Artifact{}, apperr.New(apperr.KindValidation, "export",
		fmt.Sprintf("Unknown download format %q", target))
}

func (d *Dispatcher) raster(ctx context.Context, opts engine.Options, shadow qrconfig.Shadow) (*image.NRGBA, error) {
	img, err := engine.RenderPNG(opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return engine.ApplyRasterShadow(img, shadow), nil
}

func (d *Dispatcher) png(ctx context.Context, opts engine.Options, shadow qrconfig.Shadow) ([]byte, error) {
	img, err := d.raster(ctx, opts, shadow)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := engine.EncodePNG(&buf, img); err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "export.png", "Failed to encode PNG", err)
	}
	return buf.Bytes(), nil
}

func artifact(ext, contentType string, data []byte) Artifact {
	return Artifact{
		Filename:    filename.Sanitize(BaseName, ext),
		ContentType: contentType,
		Data:        data,
	}
}

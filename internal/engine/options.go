// Package engine turns a styling configuration into QR code images. The
// vector renderer is the source of truth; raster output is produced by
// rasterizing it and compositing the logo and shadow on top.
package engine

import "github.com/cristianadrielbraun/qrstyler/internal/qrconfig"

// Options is the engine-facing view of a qrconfig.Config at a concrete
// pixel size. Optional keys are omitted from JSON when unset.
type Options struct {
	Data                 string            `json:"data"`
	Width                int               `json:"width"`
	Height               int               `json:"height"`
	Shape                qrconfig.Shape    `json:"shape"`
	QROptions            QROptions         `json:"qrOptions"`
	DotsOptions          DotsOptions       `json:"dotsOptions"`
	CornersSquareOptions CornerOptions     `json:"cornersSquareOptions"`
	CornersDotOptions    CornerOptions     `json:"cornersDotOptions"`
	BackgroundOptions    BackgroundOptions `json:"backgroundOptions"`
	Image                string            `json:"image,omitempty"`
	ImageOptions         *ImageOptions     `json:"imageOptions,omitempty"`
}

type QROptions struct {
	ErrorCorrectionLevel qrconfig.ErrorCorrectionLevel `json:"errorCorrectionLevel"`
}

type DotsOptions struct {
	Type     qrconfig.DotType   `json:"type"`
	Color    string             `json:"color"`
	Gradient *qrconfig.Gradient `json:"gradient,omitempty"`
}

type CornerOptions struct {
	Type     qrconfig.CornerType `json:"type"`
	Color    string              `json:"color"`
	Gradient *qrconfig.Gradient  `json:"gradient,omitempty"`
}

type BackgroundOptions struct {
	Color    string             `json:"color"`
	Round    float64            `json:"round"`
	Gradient *qrconfig.Gradient `json:"gradient,omitempty"`
}

type ImageOptions struct {
	ImageSize          float64 `json:"imageSize"`
	Margin             float64 `json:"margin"`
	HideBackgroundDots bool    `json:"hideBackgroundDots"`
}

// BuildOptions maps cfg onto engine options. A size of 0 uses the
// configured download size.
func BuildOptions(cfg qrconfig.Config, size int) Options {
	if size <= 0 {
		size = cfg.DownloadSize
	}

	opts := Options{
		Data:   cfg.Data,
		Width:  size,
		Height: size,
		Shape:  cfg.Shape,
		QROptions: QROptions{
			ErrorCorrectionLevel: cfg.ErrorCorrectionLevel,
		},
		DotsOptions: DotsOptions{
			Type:     cfg.DotType,
			Color:    cfg.DotColor,
			Gradient: cfg.DotGradient,
		},
		CornersSquareOptions: CornerOptions{
			Type:     cfg.CornerSquareType,
			Color:    cfg.CornerSquareColor,
			Gradient: cfg.CornerSquareGradient,
		},
		CornersDotOptions: CornerOptions{
			Type:     cfg.CornerDotType,
			Color:    cfg.CornerDotColor,
			Gradient: cfg.CornerDotGradient,
		},
		BackgroundOptions: BackgroundOptions{
			Color:    cfg.BackgroundColor,
			Round:    cfg.BackgroundRound,
			Gradient: cfg.BackgroundGradient,
		},
	}

	if cfg.Logo != "" {
		opts.Image = cfg.Logo
		opts.ImageOptions = &ImageOptions{
			ImageSize:          cfg.ImageSize,
			Margin:             cfg.ImageMargin,
			HideBackgroundDots: cfg.HideBackgroundDots,
		}
	}
	return opts
}

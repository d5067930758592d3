// Package qrconfig defines the styling configuration of a QR code, its
// defaults, validation and the built-in style templates.
package qrconfig

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
)

type DotType string

const (
	DotSquare        DotType = "square"
	DotDots          DotType = "dots"
	DotRounded       DotType = "rounded"
	DotExtraRounded  DotType = "extra-rounded"
	DotClassy        DotType = "classy"
	DotClassyRounded DotType = "classy-rounded"
)

// CornerType covers both the finder frame and the finder centre.
type CornerType string

const (
	CornerDot           CornerType = "dot"
	CornerSquare        CornerType = "square"
	CornerExtraRounded  CornerType = "extra-rounded"
	CornerRounded       CornerType = "rounded"
	CornerDots          CornerType = "dots"
	CornerClassy        CornerType = "classy"
	CornerClassyRounded CornerType = "classy-rounded"
)

type ErrorCorrectionLevel string

const (
	ECLow      ErrorCorrectionLevel = "L"
	ECMedium   ErrorCorrectionLevel = "M"
	ECQuartile ErrorCorrectionLevel = "Q"
	ECHigh     ErrorCorrectionLevel = "H"
)

type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
)

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// DownloadSizes lists the accepted export edge lengths in pixels.
var DownloadSizes = []int{256, 512, 1024, 2048, 4096}

type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

type Gradient struct {
	Type       GradientType `json:"type"`
	Rotation   float64      `json:"rotation"`
	ColorStops []ColorStop  `json:"colorStops"`
}

type Shadow struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Config is the full styling state of one QR code.
type Config struct {
	Data         string `json:"data"`
	DownloadSize int    `json:"downloadSize"`

	DotType     DotType   `json:"dotType"`
	DotColor    string    `json:"dotColor"`
	DotGradient *Gradient `json:"dotGradient,omitempty"`

	CornerSquareType     CornerType `json:"cornerSquareType"`
	CornerSquareColor    string     `json:"cornerSquareColor"`
	CornerSquareGradient *Gradient  `json:"cornerSquareGradient,omitempty"`

	CornerDotType     CornerType `json:"cornerDotType"`
	CornerDotColor    string     `json:"cornerDotColor"`
	CornerDotGradient *Gradient  `json:"cornerDotGradient,omitempty"`

	BackgroundColor    string    `json:"backgroundColor"`
	BackgroundGradient *Gradient `json:"backgroundGradient,omitempty"`
	BackgroundRound    float64   `json:"backgroundRound"`

	Logo                 string               `json:"logo,omitempty"`
	ErrorCorrectionLevel ErrorCorrectionLevel `json:"errorCorrectionLevel"`
	Shape                Shape                `json:"shape"`
	ImageSize            float64              `json:"imageSize"`
	ImageMargin          float64              `json:"imageMargin"`
	HideBackgroundDots   bool                 `json:"hideBackgroundDots"`
	Shadow               Shadow               `json:"shadow"`
}

func DefaultShadow() Shadow {
	return Shadow{
		Enabled: false,
		Color:   "#000000",
		Opacity: 0.3,
		Blur:    10,
		OffsetX: 3,
		OffsetY: 3,
	}
}

func Defaults() Config {
	return Config{
		DownloadSize:         1024,
		DotType:              DotSquare,
		DotColor:             "#000000",
		CornerSquareType:     CornerSquare,
		CornerSquareColor:    "#000000",
		CornerDotType:        CornerSquare,
		CornerDotColor:       "#000000",
		BackgroundColor:      "#ffffff",
		BackgroundRound:      0,
		ErrorCorrectionLevel: ECQuartile,
		Shape:                ShapeSquare,
		ImageSize:            0.4,
		ImageMargin:          0,
		HideBackgroundDots:   true,
		Shadow:               DefaultShadow(),
	}
}

// Clone returns a copy of c that shares no gradient with it.
func (c Config) Clone() Config {
	c.DotGradient = c.DotGradient.Clone()
	c.CornerSquareGradient = c.CornerSquareGradient.Clone()
	c.CornerDotGradient = c.CornerDotGradient.Clone()
	c.BackgroundGradient = c.BackgroundGradient.Clone()
	return c
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Logo values are only ever produced by the logo sanitizer.
var logoPrefixes = []string{"data:image/png;base64,", "data:image/svg+xml;base64,"}

// IsColor accepts #rgb, #rrggbb, #rrggbbaa and "transparent".
func IsColor(s string) bool {
	return strings.EqualFold(s, "transparent") || hexColor.MatchString(s)
}

// Validate reports every problem found in c as a single validation error.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !validSize(c.DownloadSize) {
		add("downloadSize %d is not one of %v", c.DownloadSize, DownloadSizes)
	}
	if !c.DotType.Valid() {
		add("dotType %q is not supported", c.DotType)
	}
	if !c.CornerSquareType.Valid() {
		add("cornerSquareType %q is not supported", c.CornerSquareType)
	}
	if !c.CornerDotType.Valid() {
		add("cornerDotType %q is not supported", c.CornerDotType)
	}
	if !c.ErrorCorrectionLevel.Valid() {
		add("errorCorrectionLevel %q is not one of L, M, Q, H", c.ErrorCorrectionLevel)
	}
	if c.Shape != ShapeSquare && c.Shape != ShapeCircle {
		add("shape %q is not supported", c.Shape)
	}

	for name, color := range map[string]string{
		"dotColor":          c.DotColor,
		"cornerSquareColor": c.CornerSquareColor,
		"cornerDotColor":    c.CornerDotColor,
		"backgroundColor":   c.BackgroundColor,
		"shadow.color":      c.Shadow.Color,
	} {
		if !IsColor(color) {
			add("%s %q is not a color", name, color)
		}
	}

	for name, g := range map[string]*Gradient{
		"dotGradient":          c.DotGradient,
		"cornerSquareGradient": c.CornerSquareGradient,
		"cornerDotGradient":    c.CornerDotGradient,
		"backgroundGradient":   c.BackgroundGradient,
	} {
		if g == nil {
			continue
		}
		if err := g.validate(); err != nil {
			add("%s: %v", name, err)
		}
	}

	if c.BackgroundRound < 0 || c.BackgroundRound > 1 {
		add("backgroundRound must be between 0 and 1")
	}
	if c.ImageSize < 0 || c.ImageSize > 1 {
		add("imageSize must be between 0 and 1")
	}
	if c.ImageMargin < 0 {
		add("imageMargin must not be negative")
	}
	if c.Shadow.Opacity < 0 || c.Shadow.Opacity > 1 {
		add("shadow.opacity must be between 0 and 1")
	}
	if c.Shadow.Blur < 0 {
		add("shadow.blur must not be negative")
	}
	if c.Logo != "" && !isSanitizedLogo(c.Logo) {
		add("logo must be a sanitized image data URL")
	}

	if len(problems) == 0 {
		return nil
	}
	// map iteration order varies; keep the message stable
	slices.Sort(problems)
	return apperr.New(apperr.KindValidation, "qrconfig.validate", strings.Join(problems, "; "))
}

func (g Gradient) validate() error {
	if g.Type != GradientLinear && g.Type != GradientRadial {
		return fmt.Errorf("type %q is not linear or radial", g.Type)
	}
	if len(g.ColorStops) < 2 {
		return fmt.Errorf("needs at least two color stops")
	}
	for _, stop := range g.ColorStops {
		if stop.Offset < 0 || stop.Offset > 1 {
			return fmt.Errorf("stop offset %v is outside 0..1", stop.Offset)
		}
		if !IsColor(stop.Color) {
			return fmt.Errorf("stop color %q is not a color", stop.Color)
		}
	}
	return nil
}

func (t DotType) Valid() bool {
	switch t {
	case DotSquare, DotDots, DotRounded, DotExtraRounded, DotClassy, DotClassyRounded:
		return true
	}
	return false
}

func (t CornerType) Valid() bool {
	switch t {
	case CornerDot, CornerSquare, CornerExtraRounded, CornerRounded, CornerDots, CornerClassy, CornerClassyRounded:
		return true
	}
	return false
}

func (l ErrorCorrectionLevel) Valid() bool {
	switch l {
	case ECLow, ECMedium, ECQuartile, ECHigh:
		return true
	}
	return false
}

func validSize(size int) bool {
	for _, s := range DownloadSizes {
		if s == size {
			return true
		}
	}
	return false
}

func isSanitizedLogo(logo string) bool {
	for _, p := range logoPrefixes {
		if strings.HasPrefix(logo, p) && len(logo) > len(p) {
			return true
		}
	}
	return false
}

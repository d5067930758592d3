package qrconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	assert.Equal(t, 1024, c.DownloadSize)
	assert.Equal(t, DotSquare, c.DotType)
	assert.Equal(t, "#000000", c.DotColor)
	assert.Equal(t, "#ffffff", c.BackgroundColor)
	assert.Equal(t, ECQuartile, c.ErrorCorrectionLevel)
	assert.Equal(t, ShapeSquare, c.Shape)
	assert.Equal(t, 0.4, c.ImageSize)
	assert.True(t, c.HideBackgroundDots)
	assert.Equal(t, Shadow{Color: "#000000", Opacity: 0.3, Blur: 10, OffsetX: 3, OffsetY: 3}, c.Shadow)
	assert.Empty(t, c.Logo)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad size", func(c *Config) { c.DownloadSize = 300 }, "downloadSize"},
		{"bad dot type", func(c *Config) { c.DotType = "stars" }, "dotType"},
		{"bad corner type", func(c *Config) { c.CornerSquareType = "hexagon" }, "cornerSquareType"},
		{"bad ec level", func(c *Config) { c.ErrorCorrectionLevel = "X" }, "errorCorrectionLevel"},
		{"bad shape", func(c *Config) { c.Shape = "triangle" }, "shape"},
		{"bad color", func(c *Config) { c.DotColor = "red; background:url(x)" }, "dotColor"},
		{"round above one", func(c *Config) { c.BackgroundRound = 1.5 }, "backgroundRound"},
		{"negative margin", func(c *Config) { c.ImageMargin = -1 }, "imageMargin"},
		{"bad opacity", func(c *Config) { c.Shadow.Opacity = 2 }, "shadow.opacity"},
		{"unsanitized logo", func(c *Config) { c.Logo = "https://evil.example/logo.png" }, "logo"},
		{"jpeg data url logo", func(c *Config) { c.Logo = "data:image/jpeg;base64,AAAA" }, "logo"},
		{"single stop gradient", func(c *Config) {
			c.DotGradient = &Gradient{Type: GradientLinear, ColorStops: []ColorStop{{Color: "#000"}}}
		}, "dotGradient"},
		{"unknown gradient type", func(c *Config) {
			c.BackgroundGradient = &Gradient{Type: "conic", ColorStops: []ColorStop{{Color: "#000"}, {Offset: 1, Color: "#fff"}}}
		}, "backgroundGradient"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateAcceptsSanitizedLogoAndGradients(t *testing.T) {
	c := Defaults()
	c.Logo = "data:image/svg+xml;base64,PHN2Zy8+"
	c.BackgroundColor = "transparent"
	c.DotGradient = &Gradient{
		Type:       GradientRadial,
		ColorStops: []ColorStop{{Offset: 0, Color: "#000"}, {Offset: 1, Color: "#ffffffcc"}},
	}
	assert.NoError(t, c.Validate())
}

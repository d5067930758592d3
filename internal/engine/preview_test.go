package engine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

func TestRenderPreviewShapes(t *testing.T) {
	for _, shape := range []string{"", PreviewRectangle, PreviewCircle, PreviewLiquid, PreviewChain, PreviewHStripe, PreviewVStripe} {
		t.Run(shape, func(t *testing.T) {
			img, err := RenderPreview(Preview{Data: "https://example.com", Size: 300, Shape: shape, Level: qrconfig.ECMedium})
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 300, 300), img.Bounds())
		})
	}
}

func TestRenderPreviewNativeSizeIsPadded(t *testing.T) {
	img, err := RenderPreview(Preview{Data: "hello", Background: "#ffffff"})
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, b.Dx(), b.Dy())
	assert.True(t, isLight(img.NRGBAAt(1, 1)))
}

func TestRenderPreviewGradientAndTransparency(t *testing.T) {
	img, err := RenderPreview(Preview{
		Data:       "hello",
		Size:       200,
		Background: "transparent",
		Gradient:   []string{"#ff0000", "#00ff00", "#0000ff"},
	})
	require.NoError(t, err)
	assert.Zero(t, img.NRGBAAt(0, 0).A)
}

func TestRenderPreviewErrors(t *testing.T) {
	_, err := RenderPreview(Preview{})
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = RenderPreview(Preview{Data: "x", Size: maxPreviewDimension + 1})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/engine"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

type fakeClipboard struct {
	contentType string
	data        []byte
	err         error
}

func (f *fakeClipboard) Write(_ context.Context, contentType string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.contentType = contentType
	f.data = data
	return nil
}

func testConfig() qrconfig.Config {
	c := qrconfig.Defaults()
	c.Data = "https://example.com"
	c.DownloadSize = 256
	return c
}

func newTestDispatcher(clip Clipboard) (*Dispatcher, *metrics.Metrics) {
	m := metrics.New(nil)
	return NewDispatcher(zerolog.Nop(), m, clip), m
}

func TestParseTarget(t *testing.T) {
	tests := map[string]Target{
		"png":       TargetPNG,
		"PNG":       TargetPNG,
		" svg ":     TargetSVG,
		"jpg":       TargetJPEG,
		"jpeg":      TargetJPEG,
		"pdf":       TargetPDF,
		"clipboard": TargetClipboard,
	}
	for in, want := range tests {
		got, err := ParseTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseTarget("gif")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestExportPNG(t *testing.T) {
	d, m := newTestDispatcher(nil)

	art, err := d.Export(context.Background(), testConfig(), TargetPNG)
	require.NoError(t, err)
	assert.Equal(t, "qr-code.png", art.Filename)
	assert.Equal(t, "image/png", art.ContentType)

	img, err := png.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 256), img.Bounds())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportTotal.WithLabelValues("png", metrics.StatusSuccess)))
}

func TestExportJPEG(t *testing.T) {
	d, _ := newTestDispatcher(nil)

	art, err := d.Export(context.Background(), testConfig(), TargetJPEG)
	require.NoError(t, err)
	assert.Equal(t, "qr-code.jpg", art.Filename)
	assert.Equal(t, "image/jpeg", art.ContentType)

	img, err := jpeg.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestExportSVGWithShadow(t *testing.T) {
	d, _ := newTestDispatcher(nil)
	c := testConfig()
	c.Shadow.Enabled = true

	art, err := d.Export(context.Background(), c, TargetSVG)
	require.NoError(t, err)
	assert.Equal(t, "qr-code.svg", art.Filename)
	assert.Equal(t, "image/svg+xml", art.ContentType)
	assert.Equal(t, 1, strings.Count(string(art.Data), `id="`+engine.ShadowFilterID+`"`))
	assert.Contains(t, string(art.Data), "feDropShadow")
}

func TestExportPDF(t *testing.T) {
	d, _ := newTestDispatcher(nil)

	art, err := d.Export(context.Background(), testConfig(), TargetPDF)
	require.NoError(t, err)
	assert.Equal(t, "qr-code.pdf", art.Filename)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF-")))
	assert.Contains(t, string(art.Data), "/Subtype /Image")
}

func TestExportClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	d, _ := newTestDispatcher(clip)

	art, err := d.Export(context.Background(), testConfig(), TargetClipboard)
	require.NoError(t, err)
	assert.Equal(t, "image/png", clip.contentType)
	assert.Equal(t, art.Data, clip.data)
}

func TestExportClipboardUnsupported(t *testing.T) {
	d, m := newTestDispatcher(nil)

	_, err := d.Export(context.Background(), testConfig(), TargetClipboard)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindClipboardUnsupported))
	assert.Equal(t, MsgClipboardUnsupported, apperr.Message(err, ""))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportTotal.WithLabelValues("clipboard", metrics.StatusError)))
}

func TestExportClipboardFailureIsReturned(t *testing.T) {
	d, _ := newTestDispatcher(&fakeClipboard{err: errors.New("permission denied")})

	_, err := d.Export(context.Background(), testConfig(), TargetClipboard)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindExport))
	assert.ErrorContains(t, err, "permission denied")
}

func TestExportErrors(t *testing.T) {
	d, _ := newTestDispatcher(nil)

	empty := testConfig()
	empty.Data = ""
	_, err := d.Export(context.Background(), empty, TargetPNG)
	assert.ErrorIs(t, err, engine.ErrEmptyData)

	invalid := testConfig()
	invalid.DotColor = "blue"
	_, err = d.Export(context.Background(), invalid, TargetSVG)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = d.Export(context.Background(), testConfig(), Target("bmp"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Export(ctx, testConfig(), TargetPNG)
	assert.ErrorIs(t, err, context.Canceled)
}

package logo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
)

// spyReader counts how many bytes the sanitizer pulled from the upload.
type spyReader struct {
	r      io.Reader
	read   int
	closed bool
}

func (s *spyReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.read += n
	return n, err
}

func (s *spyReader) Close() error {
	s.closed = true
	return nil
}

type upload struct {
	opens int
	spy   *spyReader
}

func (u *upload) file(name, mediaType string, data []byte) File {
	return File{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			u.opens++
			u.spy = &spyReader{r: bytes.NewReader(data)}
			return u.spy, nil
		},
	}
}

func newSanitizer(t *testing.T) (*Sanitizer, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(nil)
	return NewSanitizer(zerolog.Nop(), m, Options{}), m
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xaa
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, dataURL, prefix string) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(dataURL, prefix), dataURL)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	require.NoError(t, err)
	return raw
}

func assertRejected(t *testing.T, res Result, kind apperr.Kind) {
	t.Helper()
	assert.False(t, res.Sanitized)
	assert.Empty(t, res.DataURL)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, kind, res.Kind)
}

func TestSanitizeUnsupportedTypeReadsNothing(t *testing.T) {
	s, m := newSanitizer(t)

	for _, mt := range []string{"application/x-msdownload", "image/bmp", "text/html", "", "IMAGE/PNG"} {
		u := &upload{}
		res := s.Sanitize(context.Background(), u.file("x", mt, []byte{0x89, 'P', 'N', 'G'}))

		assertRejected(t, res, apperr.KindUnsupportedType)
		assert.Equal(t, MsgUnsupportedType, res.Error)
		assert.Zero(t, u.opens, mt)
	}
	assert.Equal(t, 5.0, testutil.ToFloat64(m.SanitizeTotal.WithLabelValues("other", metrics.OutcomeRejected)))
}

func TestSanitizeRasterRoundTrip(t *testing.T) {
	s, m := newSanitizer(t)

	tests := []struct {
		mediaType string
		data      []byte
	}{
		{"image/png", pngBytes(t)},
		{"image/jpeg", jpegBytes(t)},
	}
	for _, tc := range tests {
		t.Run(tc.mediaType, func(t *testing.T) {
			u := &upload{}
			res := s.Sanitize(context.Background(), u.file("logo", tc.mediaType, tc.data))

			require.True(t, res.Sanitized, res.Error)
			assert.Empty(t, res.Error)
			raw := decodeDataURL(t, res.DataURL, "data:image/png;base64,")
			img, format, err := image.Decode(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
			assert.True(t, u.spy.closed)
		})
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SanitizeTotal.WithLabelValues("image/jpeg", metrics.OutcomeAccepted)))
}

func TestSanitizeRenamedExecutableIsNeverDecoded(t *testing.T) {
	s, _ := newSanitizer(t)
	exe := append([]byte{0x4d, 0x5a, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00}, bytes.Repeat([]byte{0xcc}, 4096)...)

	u := &upload{}
	res := s.Sanitize(context.Background(), u.file("logo.png", "image/png", exe))

	assertRejected(t, res, apperr.KindContentMismatch)
	assert.Equal(t, MsgContentMismatch, res.Error)
	assert.Equal(t, 12, u.spy.read)
}

func TestSanitizeMagicMismatchAcrossTypes(t *testing.T) {
	s, _ := newSanitizer(t)

	u := &upload{}
	res := s.Sanitize(context.Background(), u.file("logo.jpg", "image/jpeg", pngBytes(t)))
	assertRejected(t, res, apperr.KindContentMismatch)

	res = s.Sanitize(context.Background(), u.file("tiny.gif", "image/gif", []byte("GI")))
	assertRejected(t, res, apperr.KindContentMismatch)
}

func TestSanitizeCorruptRaster(t *testing.T) {
	s, _ := newSanitizer(t)
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0x00}, 64)...)

	res := s.Sanitize(context.Background(), (&upload{}).file("broken.png", "image/png", data))
	assertRejected(t, res, apperr.KindImageDecode)
	assert.Equal(t, MsgImageDecode, res.Error)
}

func TestSanitizeSVG(t *testing.T) {
	s, _ := newSanitizer(t)
	markup := `<svg xmlns="http://www.w3.org/2000/svg" onload="pwn()"><script>alert(1)</script><rect fill="blue" width="4" height="4"/></svg>`

	res := s.Sanitize(context.Background(), (&upload{}).file("logo.svg", TypeSVG, []byte(markup)))

	require.True(t, res.Sanitized, res.Error)
	clean := string(decodeDataURL(t, res.DataURL, "data:image/svg+xml;base64,"))
	assert.NotContains(t, clean, "script")
	assert.NotContains(t, clean, "onload")
	assert.Contains(t, clean, `<rect fill="blue" width="4" height="4"/>`)
}

func TestSanitizeSVGRejections(t *testing.T) {
	s, _ := newSanitizer(t)

	res := s.Sanitize(context.Background(), (&upload{}).file("logo.svg", TypeSVG, []byte(`<html><body>hi</body></html>`)))
	assertRejected(t, res, apperr.KindParse)
	assert.Equal(t, MsgMissingSVGRoot, res.Error)

	res = s.Sanitize(context.Background(), (&upload{}).file("logo.svg", TypeSVG, []byte(`<svg xmlns="http://www.w3.org/2000/svg"><g>`)))
	assertRejected(t, res, apperr.KindParse)
	assert.NotContains(t, res.Error, "<g>")

	for _, markup := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg><script>alert(1)</script>`,
		`<svg xmlns="http://www.w3.org/2000/svg"/><svg onload="alert(1)"/>`,
	} {
		res = s.Sanitize(context.Background(), (&upload{}).file("logo.svg", TypeSVG, []byte(markup)))
		assertRejected(t, res, apperr.KindParse)
		assert.Empty(t, res.DataURL)
	}
}

func TestSanitizeEnforcesSizeCeiling(t *testing.T) {
	s := NewSanitizer(zerolog.Nop(), nil, Options{MaxBytes: 64})
	big := append([]byte{0x89, 'P', 'N', 'G'}, bytes.Repeat([]byte{0x01}, 200)...)

	t.Run("declared size", func(t *testing.T) {
		u := &upload{}
		res := s.Sanitize(context.Background(), u.file("big.png", "image/png", big))
		assertRejected(t, res, apperr.KindTooLarge)
		assert.Zero(t, u.opens)
	})

	t.Run("lying size", func(t *testing.T) {
		u := &upload{}
		f := u.file("big.png", "image/png", big)
		f.Size = 10
		res := s.Sanitize(context.Background(), f)
		assertRejected(t, res, apperr.KindTooLarge)
		assert.LessOrEqual(t, u.spy.read, 65)
	})

	t.Run("lying svg", func(t *testing.T) {
		u := &upload{}
		f := u.file("big.svg", TypeSVG, []byte("<svg>"+strings.Repeat(" ", 200)+"</svg>"))
		f.Size = 1
		res := s.Sanitize(context.Background(), f)
		assertRejected(t, res, apperr.KindTooLarge)
	})
}

func TestSanitizeRecoversFromPanics(t *testing.T) {
	s, m := newSanitizer(t)
	f := File{
		Name:      "logo.png",
		MediaType: "image/png",
		Open: func() (io.ReadCloser, error) {
			panic("storage exploded")
		},
	}

	var res Result
	assert.NotPanics(t, func() { res = s.Sanitize(context.Background(), f) })
	assertRejected(t, res, apperr.KindInternal)
	assert.Equal(t, MsgInternal, res.Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SanitizeTotal.WithLabelValues("image/png", metrics.OutcomeRejected)))
}

func TestSanitizeOpenFailure(t *testing.T) {
	s, _ := newSanitizer(t)
	f := File{
		Name:      "logo.png",
		MediaType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return nil, io.ErrClosedPipe
		},
	}

	res := s.Sanitize(context.Background(), f)
	assertRejected(t, res, apperr.KindInternal)
}

package engine

import (
	"github.com/yeqown/go-qrcode/v2"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// finderSize is the edge length of a finder pattern in modules.
const finderSize = 7

var ErrEmptyData = apperr.New(apperr.KindValidation, "engine.matrix", "Enter a URL or some text to encode")

// Matrix is a square grid of dark and light modules.
type Matrix struct {
	size int
	dark []bool
}

// NewMatrix encodes data at the given error correction level.
func NewMatrix(data string, level qrconfig.ErrorCorrectionLevel) (*Matrix, error) {
	if data == "" {
		return nil, ErrEmptyData
	}

	qrc, err := qrcode.NewWith(data, ecOption(level))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "engine.matrix", "The text is too long to fit in a QR code", err)
	}

	capture := &matrixCapture{}
	if err := qrc.Save(capture); err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "engine.matrix", "Failed to create QR code", err)
	}
	return capture.m, nil
}

func ecOption(level qrconfig.ErrorCorrectionLevel) qrcode.EncodeOption {
	switch level {
	case qrconfig.ECLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case qrconfig.ECMedium:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case qrconfig.ECHigh:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	}
}

func (m *Matrix) Size() int { return m.size }

// Dark reports whether the module at column x, row y is set. Coordinates
// outside the grid are light.
func (m *Matrix) Dark(x, y int) bool {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}
	return m.dark[y*m.size+x]
}

// InFinder reports whether (x, y) belongs to one of the three finder
// patterns.
func (m *Matrix) InFinder(x, y int) bool {
	for _, o := range m.finderOrigins() {
		if x >= o[0] && x < o[0]+finderSize && y >= o[1] && y < o[1]+finderSize {
			return true
		}
	}
	return false
}

// finderOrigins returns the top-left module of each finder pattern.
func (m *Matrix) finderOrigins() [3][2]int {
	far := m.size - finderSize
	return [3][2]int{{0, 0}, {far, 0}, {0, far}}
}

// matrixCapture is a qrcode.Writer that keeps the encoded matrix instead of
// drawing it.
type matrixCapture struct {
	m *Matrix
}

func (c *matrixCapture) Write(mat qrcode.Matrix) error {
	size := mat.Width()
	out := &Matrix{size: size, dark: make([]bool, size*size)}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if x < size && y < size {
			out.dark[y*size+x] = v.IsSet()
		}
	})
	c.m = out
	return nil
}

func (c *matrixCapture) Close() error { return nil }

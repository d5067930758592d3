package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
)

// mmPerPx converts CSS pixels at 96 dpi to millimetres.
const mmPerPx = 25.4 / 96

// renderPDF places a PNG on a single square page whose edge matches the
// image's pixel size at 96 dpi.
func renderPDF(png []byte, sizePx int) ([]byte, error) {
	side := float64(sizePx) * mmPerPx

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: side, Ht: side},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("QR code", true)
	pdf.SetCreator("qrstyler", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 0, 0, side, side, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "export.pdf", "Failed to create PDF", err)
	}
	return buf.Bytes(), nil
}

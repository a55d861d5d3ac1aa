// SPDX-License-Identifier: MPL-2.0

package render

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// pdfCreationDate is pinned so two renders of the same frame are
// byte-identical; real timestamps would defeat the diff engine.
var pdfCreationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// EncodePDF wraps the frame's rasterized PNG in a single-page PDF sized to
// the document, one point per CSS pixel.
func EncodePDF(f *Frame, pngBytes []byte) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(f.PxWidth), Ht: float64(f.PxHeight)},
	})
	pdf.SetCreationDate(pdfCreationDate)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("terminal", opts, bytes.NewReader(pngBytes))
	pdf.ImageOptions("terminal", 0, 0, float64(f.PxWidth), float64(f.PxHeight), false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

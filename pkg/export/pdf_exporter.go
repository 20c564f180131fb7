package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const pdfContentWidth = 277.0 // A4 landscape minus margins

// PDFExporter renders each sheet as a titled table on its own landscape page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc, "pdf"); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetTitle(doc.Title, true)

	for _, sheet := range doc.Sheets {
		pdf.AddPage()
		if doc.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 9, strings.ToUpper(doc.Title), "", 1, "C", false, 0, "")
		}
		if sheet.Name != "" {
			pdf.SetFont("Arial", "", 11)
			pdf.CellFormat(0, 7, sheet.Name, "", 1, "C", false, 0, "")
		}
		pdf.Ln(3)

		colWidth := pdfContentWidth / float64(len(sheet.Data.Headers))
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range sheet.Data.Headers {
			pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		if len(sheet.Data.Rows) == 0 {
			pdf.CellFormat(pdfContentWidth, 7, "No scheduled sessions", "1", 1, "C", false, 0, "")
			continue
		}
		for _, row := range sheet.Data.Rows {
			for _, value := range sheet.Data.record(row) {
				pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

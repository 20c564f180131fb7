package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders every sheet into a single CSV stream. The first sheet's headers
// are written once; all sheets are expected to share them.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc, "csv"); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	headers := doc.Sheets[0].Data.Headers
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, sheet := range doc.Sheets {
		data := Dataset{Headers: headers, Rows: sheet.Data.Rows}
		for _, row := range data.Rows {
			if err := writer.Write(data.record(row)); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

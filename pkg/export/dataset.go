package export

import "fmt"

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Sheet is a named dataset; one timetable per section.
type Sheet struct {
	Name string
	Data Dataset
}

// Document groups sheets under a common title.
type Document struct {
	Title  string
	Sheets []Sheet
}

// Renderer turns a document into file bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

func validate(doc Document, format string) error {
	if len(doc.Sheets) == 0 {
		return fmt.Errorf("%s requires at least one sheet", format)
	}
	for _, sheet := range doc.Sheets {
		if len(sheet.Data.Headers) == 0 {
			return fmt.Errorf("%s sheet %q requires at least one header", format, sheet.Name)
		}
	}
	return nil
}

package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// XLSXExporter renders each sheet of the document as a worksheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render creates the workbook bytes.
func (e *XLSXExporter) Render(doc Document) ([]byte, error) {
	if err := validate(doc, "xlsx"); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	used := make(map[string]int)
	for i, sheet := range doc.Sheets {
		name := sheetName(sheet.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		for col, header := range sheet.Data.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, cell, header); err != nil {
				return nil, fmt.Errorf("write header: %w", err)
			}
		}
		lastHeader, _ := excelize.CoordinatesToCellName(len(sheet.Data.Headers), 1)
		if err := f.SetCellStyle(name, "A1", lastHeader, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}

		for r, row := range sheet.Data.Rows {
			for col, value := range sheet.Data.record(row) {
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(name, cell, value); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", cell, err)
				}
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName strips characters Excel rejects and keeps names unique within 31 chars.
func sheetName(raw string, index int, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(raw))
	if name == "" {
		name = fmt.Sprintf("Sheet %d", index+1)
	}
	if len(name) > maxSheetNameLength {
		name = name[:maxSheetNameLength]
	}
	key := strings.ToLower(name)
	if n, ok := used[key]; ok {
		used[key] = n + 1
		suffix := fmt.Sprintf(" (%d)", n+1)
		if len(name)+len(suffix) > maxSheetNameLength {
			name = name[:maxSheetNameLength-len(suffix)]
		}
		name += suffix
		key = strings.ToLower(name)
	}
	used[key] = 1
	return name
}

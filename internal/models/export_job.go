package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ExportFormat enumerates supported timetable file formats.
type ExportFormat string

const (
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatPDF || f == ExportFormatXLSX || f == ExportFormatCSV
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ScheduleExportJob is the persisted state of an asynchronous timetable export.
type ScheduleExportJob struct {
	ID           string               `db:"id" json:"id"`
	Params       ScheduleExportParams `db:"params" json:"params"`
	Status       ExportStatus         `db:"status" json:"status"`
	ResultPath   *string              `db:"result_path" json:"-"`
	ResultURL    *string              `db:"result_url" json:"result_url,omitempty"`
	CreatedBy    string               `db:"created_by" json:"created_by"`
	CreatedAt    time.Time            `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time           `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage *string              `db:"error_message" json:"error_message,omitempty"`
}

// ScheduleExportParams stores the requested sections and format as JSONB.
type ScheduleExportParams struct {
	Format     ExportFormat `json:"format"`
	SectionIDs []string     `json:"section_ids"`
}

// Value marshals params to JSON for persistence.
func (p ScheduleExportParams) Value() (driver.Value, error) {
	if p.SectionIDs == nil {
		p.SectionIDs = []string{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal export params: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the params struct.
func (p *ScheduleExportParams) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*p = ScheduleExportParams{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ScheduleExportParams", value)
	}
	if len(data) == 0 {
		*p = ScheduleExportParams{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal export params: %w", err)
	}
	return nil
}

package dto

import (
	"time"

	"github.com/noah-isme/sis-api/internal/models"
)

// ScheduleExportRequest queues a bulk timetable export.
type ScheduleExportRequest struct {
	Format     models.ExportFormat `json:"format" validate:"required,oneof=pdf xlsx csv"`
	SectionIDs []string            `json:"section_ids" validate:"required,min=1,dive,required"`
}

// ScheduleExportQuery selects the format of a synchronous section export.
type ScheduleExportQuery struct {
	Format string `form:"format"`
}

// ScheduleExportJobResponse describes an export job.
type ScheduleExportJobResponse struct {
	ID         string              `json:"id"`
	Status     models.ExportStatus `json:"status"`
	Format     models.ExportFormat `json:"format"`
	SectionIDs []string            `json:"section_ids"`
	ResultURL  *string             `json:"result_url,omitempty"`
	Error      *string             `json:"error,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}

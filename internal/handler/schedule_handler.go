package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

type scheduleAllocator interface {
	Generate(ctx context.Context, sectionID string, includeSaturday bool) (*dto.GenerateScheduleResponse, error)
	SectionTimetable(ctx context.Context, sectionID string) ([]models.ScheduleEntryDetail, error)
	ClearSection(ctx context.Context, sectionID string) (int64, error)
	ListEntries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntryDetail, *models.Pagination, error)
	DeleteEntry(ctx context.Context, id string) error
}

type sectionRenderer interface {
	RenderSection(ctx context.Context, sectionID string, format string) (*service.ExportFile, error)
}

// ScheduleHandler exposes timetable generation and browsing endpoints.
type ScheduleHandler struct {
	schedules scheduleAllocator
	exports   sectionRenderer
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService, exports *service.ScheduleExportService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exports: exports}
}

// Generate godoc
// @Summary Generate a section timetable
// @Description Replaces the section's timetable with a fresh allocation. Blocks that cannot be placed are reported under failed.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body dto.GenerateScheduleRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /sections/{id}/schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, invalidPayload(err))
			return
		}
	}
	if raw := c.Query("include_saturday"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "include_saturday must be a boolean"))
			return
		}
		req.IncludeSaturday = value
	}

	result, err := h.schedules.Generate(c.Request.Context(), c.Param("id"), req.IncludeSaturday)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SectionTimetable godoc
// @Summary Get a section timetable
// @Tags Schedules
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/schedule [get]
func (h *ScheduleHandler) SectionTimetable(c *gin.Context) {
	entries, err := h.schedules.SectionTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ClearSection godoc
// @Summary Clear a section timetable
// @Tags Schedules
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/schedule [delete]
func (h *ScheduleHandler) ClearSection(c *gin.Context) {
	removed, err := h.schedules.ClearSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}

// List godoc
// @Summary List schedule entries
// @Tags Schedules
// @Produce json
// @Param section_id query string false "Section"
// @Param teacher_id query string false "Teacher"
// @Param room_id query string false "Room"
// @Param day_of_week query int false "Day (0=Monday)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	page, size := pageParams(c)
	filter := models.ScheduleFilter{
		SectionID: strings.TrimSpace(query.SectionID),
		TeacherID: strings.TrimSpace(query.TeacherID),
		RoomID:    strings.TrimSpace(query.RoomID),
		DayOfWeek: query.DayOfWeek,
		Page:      page,
		PageSize:  size,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	entries, pagination, err := h.schedules.ListEntries(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Delete godoc
// @Summary Delete a schedule entry
// @Tags Schedules
// @Param id path string true "Entry ID"
// @Success 204 {string} string "No Content"
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download a section timetable
// @Tags Schedules
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Section ID"
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Success 200 {file} file
// @Router /sections/{id}/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var query dto.ScheduleExportQuery
	_ = c.ShouldBindQuery(&query)
	file, err := h.exports.RenderSection(c.Request.Context(), c.Param("id"), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

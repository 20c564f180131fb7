package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type scheduleExporter interface {
	CreateJob(ctx context.Context, req dto.ScheduleExportRequest, actor *models.JWTClaims) (*dto.ScheduleExportJobResponse, error)
	GetJob(ctx context.Context, id string) (*dto.ScheduleExportJobResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportFile, error)
}

// ScheduleExportHandler exposes bulk timetable export endpoints.
type ScheduleExportHandler struct {
	exports scheduleExporter
}

// NewScheduleExportHandler constructs a ScheduleExportHandler.
func NewScheduleExportHandler(exports *service.ScheduleExportService) *ScheduleExportHandler {
	return &ScheduleExportHandler{exports: exports}
}

// Create godoc
// @Summary Queue a timetable export
// @Tags Schedule Exports
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /schedule-exports [post]
func (h *ScheduleExportHandler) Create(c *gin.Context) {
	var req dto.ScheduleExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	job, err := h.exports.CreateJob(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get export job status
// @Tags Schedule Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-exports/{id} [get]
func (h *ScheduleExportHandler) Get(c *gin.Context) {
	job, err := h.exports.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export
// @Tags Schedule Exports
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /schedule-exports/download/{token} [get]
func (h *ScheduleExportHandler) Download(c *gin.Context) {
	file, err := h.exports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

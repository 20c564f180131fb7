package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type behaviorManager interface {
	List(ctx context.Context, filter models.BehaviorFilter, actor *models.JWTClaims) ([]models.BehaviorReportDetail, *models.Pagination, error)
	Create(ctx context.Context, req service.BehaviorRequest, actor *models.JWTClaims) (*models.BehaviorReportDetail, error)
	Delete(ctx context.Context, id string) error
}

// BehaviorHandler exposes behavior report endpoints.
type BehaviorHandler struct {
	behavior behaviorManager
}

// NewBehaviorHandler constructs a BehaviorHandler.
func NewBehaviorHandler(behavior *service.BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{behavior: behavior}
}

// List godoc
// @Summary List behavior reports
// @Tags Behavior
// @Produce json
// @Param student_id query string false "Student"
// @Param severity query string false "Low, Medium or High"
// @Success 200 {object} response.Envelope
// @Router /behavior-reports [get]
func (h *BehaviorHandler) List(c *gin.Context) {
	filter := models.BehaviorFilter{StudentID: strings.TrimSpace(c.Query("student_id"))}
	if severity := strings.TrimSpace(c.Query("severity")); severity != "" {
		value := models.BehaviorSeverity(severity)
		filter.Severity = &value
	}
	filter.Page, filter.PageSize = pageParams(c)
	reports, pagination, err := h.behavior.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Create godoc
// @Summary File a behavior report
// @Tags Behavior
// @Accept json
// @Produce json
// @Param payload body service.BehaviorRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /behavior-reports [post]
func (h *BehaviorHandler) Create(c *gin.Context) {
	var req service.BehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	report, err := h.behavior.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Delete godoc
// @Summary Delete a behavior report
// @Tags Behavior
// @Param id path string true "Report ID"
// @Success 204 {string} string "No Content"
// @Router /behavior-reports/{id} [delete]
func (h *BehaviorHandler) Delete(c *gin.Context) {
	if err := h.behavior.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

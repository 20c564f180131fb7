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

type subjectEnroller interface {
	AutoEnroll(ctx context.Context, studentID string, sectionID *string) (*dto.AutoEnrollResponse, error)
	ListStudentSubjects(ctx context.Context, studentID string, actor *models.JWTClaims) ([]models.StudentSubjectDetail, error)
}

// EnrollmentHandler exposes subject enrollment endpoints.
type EnrollmentHandler struct {
	enrollment subjectEnroller
}

// NewEnrollmentHandler constructs an EnrollmentHandler.
func NewEnrollmentHandler(enrollment *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollment: enrollment}
}

// AutoEnroll godoc
// @Summary Enroll a student in every eligible subject
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.AutoEnrollRequest false "Section override"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /students/{id}/subjects/auto-enroll [post]
func (h *EnrollmentHandler) AutoEnroll(c *gin.Context) {
	var req dto.AutoEnrollRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, invalidPayload(err))
			return
		}
	}
	if req.SectionID == nil {
		req.SectionID = optionalQuery(c, "section_id")
	}
	result, err := h.enrollment.AutoEnroll(c.Request.Context(), c.Param("id"), req.SectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListSubjects godoc
// @Summary List a student's enrolled subjects
// @Tags Enrollment
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/subjects [get]
func (h *EnrollmentHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.enrollment.ListStudentSubjects(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

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

type communicationManager interface {
	List(ctx context.Context, filter models.CommunicationFilter, actor *models.JWTClaims) ([]models.CommunicationDetail, *models.Pagination, error)
	Create(ctx context.Context, req service.CommunicationRequest, actor *models.JWTClaims) (*models.CommunicationMessage, error)
}

// CommunicationHandler exposes the message board.
type CommunicationHandler struct {
	messages communicationManager
}

// NewCommunicationHandler constructs a CommunicationHandler.
func NewCommunicationHandler(messages *service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{messages: messages}
}

// List godoc
// @Summary List messages
// @Tags Communications
// @Produce json
// @Param student_id query string false "Student"
// @Success 200 {object} response.Envelope
// @Router /communications [get]
func (h *CommunicationHandler) List(c *gin.Context) {
	filter := models.CommunicationFilter{StudentID: strings.TrimSpace(c.Query("student_id"))}
	filter.Page, filter.PageSize = pageParams(c)
	messages, pagination, err := h.messages.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, pagination)
}

// Create godoc
// @Summary Post a message
// @Tags Communications
// @Accept json
// @Produce json
// @Param payload body service.CommunicationRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /communications [post]
func (h *CommunicationHandler) Create(c *gin.Context) {
	var req service.CommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	message, err := h.messages.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

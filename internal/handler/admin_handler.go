package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

// AdminInitTokenHeader carries the token guarding schema initialisation.
const AdminInitTokenHeader = "X-Admin-Init-Token"

type schemaInitializer interface {
	Init(ctx context.Context, token string) (*service.InitResult, error)
}

// AdminHandler exposes maintenance endpoints.
type AdminHandler struct {
	admin schemaInitializer
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Init godoc
// @Summary Ensure the database schema
// @Tags Admin
// @Produce json
// @Param X-Admin-Init-Token header string false "Init token"
// @Param token query string false "Init token"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /admin/init [post]
func (h *AdminHandler) Init(c *gin.Context) {
	token := c.GetHeader(AdminInitTokenHeader)
	if token == "" {
		token = c.Query("token")
	}
	result, err := h.admin.Init(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

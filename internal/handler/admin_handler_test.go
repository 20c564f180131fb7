package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type initializerMock struct {
	token string
}

func (m *initializerMock) Init(ctx context.Context, token string) (*service.InitResult, error) {
	m.token = token
	if token != "open-sesame" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid init token")
	}
	return &service.InitResult{Message: "tables ensured", Version: 3}, nil
}

func TestAdminInitReadsHeaderThenQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &initializerMock{}
	router := gin.New()
	router.POST("/admin/init", (&AdminHandler{admin: mock}).Init)

	req := httptest.NewRequest(http.MethodPost, "/admin/init", nil)
	req.Header.Set(AdminInitTokenHeader, "open-sesame")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tables ensured")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/init?token=open-sesame", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "open-sesame", mock.token)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/init", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

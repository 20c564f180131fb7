package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type authenticatorMock struct {
	login models.LoginRequest
}

func (m *authenticatorMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.login = req
	if req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func (m *authenticatorMock) SignupTeacher(ctx context.Context, req models.TeacherSignupRequest) (*models.UserInfo, error) {
	return &models.UserInfo{ID: "t-1", Username: req.Username, Role: models.RoleTeacher}, nil
}

func (m *authenticatorMock) SignupParent(ctx context.Context, req models.ParentSignupRequest) (*models.UserInfo, error) {
	if req.StudentNumber == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &models.UserInfo{ID: "p-1", Username: req.Username, Role: models.RoleParent}, nil
}

func newAuthRouter(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/signup/teacher", h.SignupTeacher)
	r.POST("/auth/signup/parent", h.SignupParent)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	mock := &authenticatorMock{}
	router := newAuthRouter(&AuthHandler{service: mock})

	w := postJSON(router, "/auth/login", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", mock.login.Username)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)

	w = postJSON(router, "/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/auth/login", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupHandlers(t *testing.T) {
	router := newAuthRouter(&AuthHandler{service: &authenticatorMock{}})

	w := postJSON(router, "/auth/signup/teacher", `{"username":"mrs.lim","password":"secret1","full_name":"Ana Lim"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/auth/signup/parent", `{"username":"dad","password":"secret1","full_name":"Ben","student_number":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeReturnsScopedClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &AuthHandler{service: &authenticatorMock{}}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "t-1", Role: models.RoleTeacher, TeacherBand: models.LevelBandSHS})

	h.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"teacher_band":"SHS"`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

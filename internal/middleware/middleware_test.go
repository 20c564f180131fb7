package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type validatorStub struct {
	claims map[string]*models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := v.claims[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := validatorStub{claims: map[string]*models.JWTClaims{
		"admin":   {UserID: "u-1", Role: models.RoleAdmin},
		"teacher": {UserID: "u-2", Role: models.RoleTeacher},
		"parent":  {UserID: "u-3", Role: models.RoleParent},
	}}
	r := gin.New()
	r.Use(JWT(validator))
	r.GET("/admin", AdminOnly(), func(c *gin.Context) { c.String(http.StatusOK, CurrentUser(c).UserID) })
	r.GET("/staff", Staff(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func serve(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingOrMalformedHeader(t *testing.T) {
	r := newProtectedRouter()

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "Token admin").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "Bearer nope").Code)
}

func TestRoleGuards(t *testing.T) {
	r := newProtectedRouter()

	w := serve(r, "/admin", "Bearer admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", "bearer teacher").Code)
	assert.Equal(t, http.StatusOK, serve(r, "/staff", "Bearer teacher").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/staff", "Bearer parent").Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/meta", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, ExtractMeta(c))
	})

	w := serve(r, "/meta", "")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["cache_hit"])
	assert.Contains(t, body, "processing_time_ms")
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/metrics", "/students/a", "/students/b", "/nope", "/also-nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	series, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

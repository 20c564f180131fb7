package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
)

type dashboardReaderMock struct {
	hit bool
}

func (m *dashboardReaderMock) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	return &models.DashboardStats{TotalStudents: 30}, m.hit, nil
}

func (m *dashboardReaderMock) AdviserInsights(ctx context.Context) (*models.AdviserInsights, error) {
	return &models.AdviserInsights{LowestAverages: []models.StudentAverage{}, LowestAttendances: []models.StudentPresentRate{}}, nil
}

func TestDashboardStatsExposesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &DashboardHandler{dashboard: &dashboardReaderMock{hit: true}}
	router := gin.New()
	router.Use(internalmiddleware.WithResponseMeta())
	router.GET("/dashboard/stats", h.Stats)
	router.GET("/dashboard/adviser-insights", h.AdviserInsights)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.DashboardStats `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 30, body.Data.TotalStudents)
	assert.Equal(t, true, body.Meta["cache_hit"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/adviser-insights", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

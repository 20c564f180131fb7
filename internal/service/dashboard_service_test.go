package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type memoryCacheRepo struct {
	items   map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

type dashboardRepoStub struct {
	statsCalls int
	err        error
}

func (d *dashboardRepoStub) Stats(ctx context.Context) (*models.DashboardStats, error) {
	d.statsCalls++
	if d.err != nil {
		return nil, d.err
	}
	return &models.DashboardStats{
		TotalStudents:   12,
		Attendance:      []models.AttendanceCount{{Status: models.AttendancePresent, Count: 40}},
		SubjectAverages: []models.SubjectAverage{{Subject: "Science", Average: 86.6666}},
	}, nil
}

func (d *dashboardRepoStub) LowestAverages(ctx context.Context, limit int) ([]models.StudentAverage, error) {
	return []models.StudentAverage{{StudentID: "stu-1", StudentName: "Juan Cruz", Average: 71.125}}, nil
}

func (d *dashboardRepoStub) LowestPresentRates(ctx context.Context, limit int) ([]models.StudentPresentRate, error) {
	return []models.StudentPresentRate{{StudentID: "stu-2", StudentName: "Ana Reyes", PresentRate: 66.6666, Marks: 3}}, nil
}

func TestDashboardServiceStatsUsesCache(t *testing.T) {
	repo := &dashboardRepoStub{}
	store := newMemoryCacheRepo()
	cache := NewCacheService(store, NewMetricsService(), time.Minute, nil, true)
	service := NewDashboardService(repo, cache, DashboardServiceConfig{}, nil)

	stats, hit, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 86.67, stats.SubjectAverages[0].Average)

	stats, hit, err = service.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 12, stats.TotalStudents)
	assert.Equal(t, 1, repo.statsCalls)

	service.Invalidate(context.Background())
	assert.Equal(t, []string{dashboardStatsKey}, store.deleted)
}

func TestDashboardServiceStatsWithoutCache(t *testing.T) {
	repo := &dashboardRepoStub{}
	service := NewDashboardService(repo, nil, DashboardServiceConfig{}, nil)

	_, hit, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	_, _, err = service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.statsCalls)

	repo.err = errors.New("db down")
	_, _, err = service.Stats(context.Background())
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestDashboardServiceAdviserInsightsRounds(t *testing.T) {
	service := NewDashboardService(&dashboardRepoStub{}, nil, DashboardServiceConfig{}, nil)

	insights, err := service.AdviserInsights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 71.13, insights.LowestAverages[0].Average)
	assert.Equal(t, 66.67, insights.LowestAttendances[0].PresentRate)
}

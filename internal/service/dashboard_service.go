package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

const (
	dashboardStatsKey   = "dashboard:stats"
	dashboardCacheGlob  = "dashboard:*"
	adviserInsightLimit = 5
)

type dashboardRepository interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	LowestAverages(ctx context.Context, limit int) ([]models.StudentAverage, error)
	LowestPresentRates(ctx context.Context, limit int) ([]models.StudentPresentRate, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes school-wide statistics and adviser insights.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	cfg    DashboardServiceConfig
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(repo dashboardRepository, cache *CacheService, cfg DashboardServiceConfig, logger *zap.Logger) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, cfg: cfg, logger: logger}
}

// Stats returns the dashboard statistics and whether they came from the cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	value, hit, err := s.cache.Remember(ctx, dashboardStatsKey, s.cfg.CacheTTL, &cached, func(ctx context.Context) (interface{}, error) {
		stats, err := s.repo.Stats(ctx)
		if err != nil {
			return nil, err
		}
		if stats.Attendance == nil {
			stats.Attendance = []models.AttendanceCount{}
		}
		if stats.SubjectAverages == nil {
			stats.SubjectAverages = []models.SubjectAverage{}
		}
		for i := range stats.SubjectAverages {
			stats.SubjectAverages[i].Average = round2(stats.SubjectAverages[i].Average)
		}
		return stats, nil
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}
	return value.(*models.DashboardStats), hit, nil
}

// AdviserInsights lists the learners with the lowest averages and present rates.
func (s *DashboardService) AdviserInsights(ctx context.Context) (*models.AdviserInsights, error) {
	averages, err := s.repo.LowestAverages(ctx, adviserInsightLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lowest averages")
	}
	rates, err := s.repo.LowestPresentRates(ctx, adviserInsightLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance rates")
	}
	insights := &models.AdviserInsights{
		LowestAverages:    make([]models.StudentAverage, 0, len(averages)),
		LowestAttendances: make([]models.StudentPresentRate, 0, len(rates)),
	}
	for _, avg := range averages {
		avg.Average = round2(avg.Average)
		insights.LowestAverages = append(insights.LowestAverages, avg)
	}
	for _, rate := range rates {
		rate.PresentRate = round2(rate.PresentRate)
		insights.LowestAttendances = append(insights.LowestAttendances, rate)
	}
	return insights, nil
}

// Invalidate drops cached dashboard payloads.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCacheGlob); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

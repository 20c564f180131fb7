package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

// SchemaMigrator applies pending migrations and returns the schema version.
type SchemaMigrator func(ctx context.Context) (int64, error)

type cacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// InitResult reports the outcome of a schema initialisation.
type InitResult struct {
	Message string `json:"message"`
	Version int64  `json:"version"`
}

// AdminService runs operational maintenance tasks.
type AdminService struct {
	migrate   SchemaMigrator
	dashboard cacheInvalidator
	initToken string
	logger    *zap.Logger
}

// NewAdminService constructs an AdminService. An empty initToken leaves Init unguarded.
func NewAdminService(migrate SchemaMigrator, dashboard cacheInvalidator, initToken string, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{migrate: migrate, dashboard: dashboard, initToken: strings.TrimSpace(initToken), logger: logger}
}

// Init ensures the schema is current. It is idempotent.
func (s *AdminService) Init(ctx context.Context, providedToken string) (*InitResult, error) {
	if s.initToken != "" && subtle.ConstantTimeCompare([]byte(s.initToken), []byte(providedToken)) != 1 {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid init token")
	}
	version, err := s.migrate(ctx)
	if err != nil {
		s.logger.Error("schema init failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "init failed")
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
	s.logger.Info("schema initialised", zap.Int64("version", version))
	return &InitResult{Message: "tables ensured", Version: version}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

const weightTolerance = 0.001

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByName(ctx context.Context, name string, band models.LevelBand, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	CreateWithTx(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectRequest captures fields for creating or updating subjects.
type SubjectRequest struct {
	Name        string                 `json:"name" validate:"required,max=100"`
	Category    models.SubjectCategory `json:"category" validate:"required,oneof=Core Applied Specialized Institutional"`
	LevelBand   models.LevelBand       `json:"level_band" validate:"required,oneof=JHS SHS"`
	Track       *string                `json:"track" validate:"omitempty,max=50"`
	GradeMin    *int                   `json:"grade_min" validate:"omitempty,min=7,max=12"`
	GradeMax    *int                   `json:"grade_max" validate:"omitempty,min=7,max=12"`
	WeightWW    float64                `json:"weight_ww" validate:"gte=0,lte=1"`
	WeightPT    float64                `json:"weight_pt" validate:"gte=0,lte=1"`
	WeightQA    float64                `json:"weight_qa" validate:"gte=0,lte=1"`
	WeeklyHours *int                   `json:"weekly_hours" validate:"omitempty,min=1,max=20"`
	TeacherID   *string                `json:"teacher_id"`
}

// SubjectService handles subject catalog workflows.
type SubjectService struct {
	repo      subjectRepository
	teachers  scheduleTeacherReader
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, teachers scheduleTeacherReader, tx txProvider, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, teachers: teachers, tx: tx, validator: validate, logger: logger}
}

// List returns paginated subjects. Teachers with a band only see that band.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter, actor *models.JWTClaims) ([]models.Subject, *models.Pagination, error) {
	if band := actor.BandScope(); band != nil {
		if filter.LevelBand != nil && *filter.LevelBand != *band {
			return []models.Subject{}, newPagination(filter.Page, filter.PageSize, 0), nil
		}
		filter.LevelBand = band
	}
	if filter.Grade != nil && (*filter.Grade < 7 || *filter.Grade > 12) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "grade must be between 7 and 12")
	}
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns subject detail.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get subject")
	}
	return subject, nil
}

// Create inserts a new subject.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	subject, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// Update modifies subject data.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	subject, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	subject.ID = existing.ID
	subject.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject along with its schedule entries and enrollments.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

// SeedCatalog inserts the subjects that are not in the catalog yet, in one transaction.
// It returns how many were created.
func (s *SubjectService) SeedCatalog(ctx context.Context, catalog []SubjectRequest) (created int, err error) {
	pending := make([]*models.Subject, 0, len(catalog))
	for _, req := range catalog {
		subject, buildErr := s.build(ctx, req, "")
		if buildErr != nil {
			if appErrors.FromError(buildErr).Code == appErrors.ErrConflict.Code {
				continue
			}
			return 0, buildErr
		}
		pending = append(pending, subject)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, subject := range pending {
		if err = s.repo.CreateWithTx(ctx, tx, subject); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed subject "+subject.Name)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit subject catalog")
	}
	s.logger.Info("subject catalog seeded", zap.Int("created", len(pending)))
	return len(pending), nil
}

func (s *SubjectService) build(ctx context.Context, req SubjectRequest, excludeID string) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if req.GradeMin != nil && req.GradeMax != nil && *req.GradeMin > *req.GradeMax {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade_min must not exceed grade_max")
	}
	if math.Abs(req.WeightWW+req.WeightPT+req.WeightQA-1) > weightTolerance {
		return nil, appErrors.ErrInvalidWeights
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, req.LevelBand, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already exists in this band")
	}

	teacherID := trimmedOrNil(req.TeacherID)
	if teacherID != nil {
		teacher, err := s.teachers.FindByID(ctx, *teacherID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		if teacher.Role != models.RoleTeacher {
			return nil, appErrors.Clone(appErrors.ErrValidation, "teacher_id must reference a teacher account")
		}
	}

	return &models.Subject{
		Name:        name,
		Category:    req.Category,
		LevelBand:   req.LevelBand,
		Track:       trimmedOrNil(req.Track),
		GradeMin:    req.GradeMin,
		GradeMax:    req.GradeMax,
		WeightWW:    req.WeightWW,
		WeightPT:    req.WeightPT,
		WeightQA:    req.WeightQA,
		WeeklyHours: req.WeeklyHours,
		TeacherID:   teacherID,
	}, nil
}

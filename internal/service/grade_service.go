package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.GradeDetail, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

// GradeRequest represents a single assessment score payload.
type GradeRequest struct {
	StudentID  string   `json:"student_id" validate:"required"`
	Subject    string   `json:"subject" validate:"required,max=100"`
	Assessment string   `json:"assessment" validate:"required,max=100"`
	GradeValue *float64 `json:"grade_value" validate:"required,gte=0,lte=100"`
	RecordedOn string   `json:"recorded_on" validate:"omitempty,datetime=2006-01-02"`
}

// GradeService records assessment scores.
type GradeService struct {
	repo      gradeRepository
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradeService constructs a GradeService.
func NewGradeService(repo gradeRepository, students studentReader, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &GradeService{repo: repo, students: students, validator: validate, logger: logger, now: time.Now}
}

// List returns grades newest first, scoped to the actor.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter, actor *models.JWTClaims) ([]models.GradeDetail, *models.Pagination, error) {
	filter.Band = actor.BandScope()
	if child, ok := actor.ChildScope(); ok {
		if child == "" || (filter.StudentID != "" && filter.StudentID != child) {
			return []models.GradeDetail{}, newPagination(filter.Page, filter.PageSize, 0), nil
		}
		filter.ChildID = child
	}
	grades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	if grades == nil {
		grades = []models.GradeDetail{}
	}
	return grades, newPagination(filter.Page, filter.PageSize, total), nil
}

// Create records a grade. recorded_on defaults to today.
func (s *GradeService) Create(ctx context.Context, req GradeRequest, actor *models.JWTClaims) (*models.GradeDetail, error) {
	grade, err := s.build(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}
	return s.get(ctx, grade.ID)
}

// Update replaces the score fields of an existing grade.
func (s *GradeService) Update(ctx context.Context, id string, req GradeRequest, actor *models.JWTClaims) (*models.GradeDetail, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	grade, err := s.build(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	grade.ID = existing.ID
	grade.StudentID = existing.StudentID
	grade.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, grade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	return s.get(ctx, id)
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}

func (s *GradeService) get(ctx context.Context, id string) (*models.GradeDetail, error) {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return grade, nil
}

func (s *GradeService) build(ctx context.Context, req GradeRequest, actor *models.JWTClaims) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	student, err := requireStudent(ctx, s.students, req.StudentID, actor)
	if err != nil {
		return nil, err
	}
	recordedOn, err := parseOptionalDate(req.RecordedOn)
	if err != nil {
		return nil, err
	}
	if recordedOn == nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		recordedOn = &today
	}
	return &models.Grade{
		StudentID:  student.ID,
		Subject:    strings.TrimSpace(req.Subject),
		Assessment: strings.TrimSpace(req.Assessment),
		GradeValue: *req.GradeValue,
		RecordedOn: *recordedOn,
		RecordedBy: actorID(actor),
	}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type behaviorRepository interface {
	List(ctx context.Context, filter models.BehaviorFilter) ([]models.BehaviorReportDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.BehaviorReportDetail, error)
	Create(ctx context.Context, report *models.BehaviorReport) error
	Delete(ctx context.Context, id string) error
}

// BehaviorRequest is the payload for filing an incident.
type BehaviorRequest struct {
	StudentID    string                  `json:"student_id" validate:"required"`
	IncidentDate string                  `json:"incident_date" validate:"required,datetime=2006-01-02"`
	Severity     models.BehaviorSeverity `json:"severity" validate:"required,oneof=Low Medium High"`
	Description  string                  `json:"description" validate:"required,max=500"`
	ActionTaken  *string                 `json:"action_taken" validate:"omitempty,max=500"`
}

// BehaviorService files and lists behavior reports.
type BehaviorService struct {
	repo      behaviorRepository
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBehaviorService constructs a BehaviorService.
func NewBehaviorService(repo behaviorRepository, students studentReader, validate *validator.Validate, logger *zap.Logger) *BehaviorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &BehaviorService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns behavior reports scoped to the actor.
func (s *BehaviorService) List(ctx context.Context, filter models.BehaviorFilter, actor *models.JWTClaims) ([]models.BehaviorReportDetail, *models.Pagination, error) {
	filter.Band = actor.BandScope()
	if child, ok := actor.ChildScope(); ok {
		if child == "" || (filter.StudentID != "" && filter.StudentID != child) {
			return []models.BehaviorReportDetail{}, newPagination(filter.Page, filter.PageSize, 0), nil
		}
		filter.ChildID = child
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list behavior reports")
	}
	if reports == nil {
		reports = []models.BehaviorReportDetail{}
	}
	return reports, newPagination(filter.Page, filter.PageSize, total), nil
}

// Create files a behavior report.
func (s *BehaviorService) Create(ctx context.Context, req BehaviorRequest, actor *models.JWTClaims) (*models.BehaviorReportDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid behavior report payload")
	}
	student, err := requireStudent(ctx, s.students, req.StudentID, actor)
	if err != nil {
		return nil, err
	}
	date, err := parseOptionalDate(req.IncidentDate)
	if err != nil {
		return nil, err
	}
	report := &models.BehaviorReport{
		StudentID:    student.ID,
		IncidentDate: *date,
		Severity:     req.Severity,
		Description:  strings.TrimSpace(req.Description),
		ActionTaken:  trimmedOrNil(req.ActionTaken),
		ReportedBy:   actorID(actor),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to file behavior report")
	}
	if report.Severity == models.BehaviorSeverityHigh {
		s.logger.Warn("high severity incident filed", zap.String("report_id", report.ID), zap.String("student_id", student.ID))
	}
	detail, err := s.repo.FindByID(ctx, report.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load behavior report")
	}
	return detail, nil
}

// Delete removes a behavior report.
func (s *BehaviorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "behavior report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete behavior report")
	}
	return nil
}

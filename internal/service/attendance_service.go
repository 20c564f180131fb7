package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceDetail, error)
	Create(ctx context.Context, mark *models.Attendance) error
	Update(ctx context.Context, mark *models.Attendance) error
	Delete(ctx context.Context, id string) error
}

// AttendanceRequest is the payload for a daily attendance mark.
type AttendanceRequest struct {
	StudentID      string                  `json:"student_id" validate:"required"`
	AttendanceDate string                  `json:"attendance_date" validate:"required,datetime=2006-01-02"`
	Status         models.AttendanceStatus `json:"status" validate:"required,oneof=Present Absent Tardy"`
}

// AttendanceService records daily attendance.
type AttendanceService struct {
	repo      attendanceRepository
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, students studentReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &AttendanceService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns attendance marks scoped to the actor.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter, actor *models.JWTClaims) ([]models.AttendanceDetail, *models.Pagination, error) {
	filter.Band = actor.BandScope()
	if child, ok := actor.ChildScope(); ok {
		if child == "" || (filter.StudentID != "" && filter.StudentID != child) {
			return []models.AttendanceDetail{}, newPagination(filter.Page, filter.PageSize, 0), nil
		}
		filter.ChildID = child
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "date_to must not be before date_from")
	}
	marks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	if marks == nil {
		marks = []models.AttendanceDetail{}
	}
	return marks, newPagination(filter.Page, filter.PageSize, total), nil
}

// Create records an attendance mark.
func (s *AttendanceService) Create(ctx context.Context, req AttendanceRequest, actor *models.JWTClaims) (*models.AttendanceDetail, error) {
	mark, err := s.build(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, mark); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return s.get(ctx, mark.ID)
}

// Update changes the date or status of a mark.
func (s *AttendanceService) Update(ctx context.Context, id string, req AttendanceRequest, actor *models.JWTClaims) (*models.AttendanceDetail, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	mark, err := s.build(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	mark.ID = existing.ID
	mark.StudentID = existing.StudentID
	mark.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, mark); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}
	return s.get(ctx, id)
}

// Delete removes a mark.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	return nil
}

func (s *AttendanceService) get(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	mark, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return mark, nil
}

func (s *AttendanceService) build(ctx context.Context, req AttendanceRequest, actor *models.JWTClaims) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	student, err := requireStudent(ctx, s.students, req.StudentID, actor)
	if err != nil {
		return nil, err
	}
	date, err := parseOptionalDate(req.AttendanceDate)
	if err != nil {
		return nil, err
	}
	return &models.Attendance{
		StudentID:      student.ID,
		AttendanceDate: *date,
		Status:         req.Status,
		RecordedBy:     actorID(actor),
	}, nil
}

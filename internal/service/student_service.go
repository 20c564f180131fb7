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

const dateLayout = "2006-01-02"

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByStudentNumber(ctx context.Context, number string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentRequest holds payload for creating or updating students.
type StudentRequest struct {
	StudentNumber   string  `json:"student_number" validate:"required,max=30"`
	FirstName       string  `json:"first_name" validate:"required,max=100"`
	MiddleName      *string `json:"middle_name" validate:"omitempty,max=1"`
	LastName        string  `json:"last_name" validate:"required,max=100"`
	DateOfBirth     string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	GradeLevel      *string `json:"grade_level" validate:"omitempty,max=20"`
	HomeroomTeacher *string `json:"homeroom_teacher" validate:"omitempty,max=100"`
	SectionID       *string `json:"section_id"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	sections  scheduleSectionReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, sections scheduleSectionReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &StudentService{repo: repo, sections: sections, validator: validate, logger: logger}
}

// List returns students visible to the actor. Teachers see their band, parents their child.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter, actor *models.JWTClaims) ([]models.StudentDetail, *models.Pagination, error) {
	if band := actor.BandScope(); band != nil {
		filter.Band = band
	}
	if child, ok := actor.ChildScope(); ok {
		if child == "" {
			return []models.StudentDetail{}, newPagination(filter.Page, filter.PageSize, 0), nil
		}
		filter.StudentID = child
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.StudentDetail{}
	}
	return students, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get fetches a student the actor is allowed to see.
func (s *StudentService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.StudentDetail, error) {
	return requireStudent(ctx, s.repo, id, actor)
}

// Create registers a student. The student number must be unique.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.StudentDetail, error) {
	student, err := s.buildStudent(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return s.Get(ctx, student.ID, nil)
}

// Update modifies an existing student.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.StudentDetail, error) {
	existing, err := s.Get(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	student, err := s.buildStudent(ctx, req, id)
	if err != nil {
		return nil, err
	}
	student.ID = existing.ID
	student.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.Get(ctx, id, nil)
}

// Delete removes a student together with the records that reference them.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func (s *StudentService) buildStudent(ctx context.Context, req StudentRequest, excludeID string) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	number := strings.TrimSpace(req.StudentNumber)
	exists, err := s.repo.ExistsByStudentNumber(ctx, number, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student number already exists")
	}

	sectionID := trimmedOrNil(req.SectionID)
	if sectionID != nil {
		if _, err := s.sections.FindByID(ctx, *sectionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
		}
	}
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return &models.Student{
		StudentNumber:   number,
		FirstName:       strings.TrimSpace(req.FirstName),
		MiddleName:      trimmedOrNil(req.MiddleName),
		LastName:        strings.TrimSpace(req.LastName),
		DateOfBirth:     dob,
		GradeLevel:      trimmedOrNil(req.GradeLevel),
		HomeroomTeacher: trimmedOrNil(req.HomeroomTeacher),
		SectionID:       sectionID,
	}, nil
}

// requireStudent loads a student and applies the actor's scope.
func requireStudent(ctx context.Context, repo studentReader, id string, actor *models.JWTClaims) (*models.StudentDetail, error) {
	student, err := repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := authorizeStudentAccess(actor, student); err != nil {
		return nil, err
	}
	return student, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dates must use YYYY-MM-DD")
	}
	return &parsed, nil
}

func actorID(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}

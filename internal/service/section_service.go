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

type sectionRepository interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
}

type sectionScheduleCleaner interface {
	DeleteBySection(ctx context.Context, sectionID string) (int64, error)
}

// SectionRequest is the payload for creating or updating sections.
type SectionRequest struct {
	Name       string  `json:"name" validate:"required,max=50"`
	GradeLevel string  `json:"grade_level" validate:"required,max=20"`
	Track      *string `json:"track" validate:"omitempty,max=50"`
	AdviserID  *string `json:"adviser_id"`
}

// SectionService manages sections.
type SectionService struct {
	repo      sectionRepository
	schedule  sectionScheduleCleaner
	teachers  scheduleTeacherReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService constructs a SectionService.
func NewSectionService(repo sectionRepository, schedule sectionScheduleCleaner, teachers scheduleTeacherReader, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, schedule: schedule, teachers: teachers, validator: validate, logger: logger}
}

// List returns paginated sections.
func (s *SectionService) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, *models.Pagination, error) {
	sections, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	if sections == nil {
		sections = []models.Section{}
	}
	return sections, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a section by ID.
func (s *SectionService) Get(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// Create inserts a section.
func (s *SectionService) Create(ctx context.Context, req SectionRequest) (*models.Section, error) {
	section, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	return section, nil
}

// Update modifies a section.
func (s *SectionService) Update(ctx context.Context, id string, req SectionRequest) (*models.Section, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	section, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	section.ID = existing.ID
	section.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	return section, nil
}

// Delete clears the section's timetable and removes the section.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	cleared, err := s.schedule.DeleteBySection(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear section schedule")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	s.logger.Info("section deleted", zap.String("section_id", id), zap.Int64("cleared_entries", cleared))
	return nil
}

func (s *SectionService) build(ctx context.Context, req SectionRequest, excludeID string) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "section name already exists")
	}
	adviserID := trimmedOrNil(req.AdviserID)
	if adviserID != nil {
		adviser, err := s.teachers.FindByID(ctx, *adviserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "adviser not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load adviser")
		}
		if adviser.Role != models.RoleTeacher {
			return nil, appErrors.Clone(appErrors.ErrValidation, "adviser_id must reference a teacher account")
		}
	}
	return &models.Section{
		Name:       name,
		GradeLevel: strings.TrimSpace(req.GradeLevel),
		Track:      trimmedOrNil(req.Track),
		AdviserID:  adviserID,
	}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

type studentSubjectStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubjectDetail, error)
	ListSubjectIDs(ctx context.Context, studentID string) ([]string, error)
	InsertWithTx(ctx context.Context, exec sqlx.ExtContext, links []models.StudentSubject) (int64, error)
}

// EnrollmentService links students to the subjects their grade and track call for.
type EnrollmentService struct {
	students studentReader
	sections scheduleSectionReader
	subjects scheduleSubjectReader
	links    studentSubjectStore
	tx       txProvider
	logger   *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(students studentReader, sections scheduleSectionReader, subjects scheduleSubjectReader, links studentSubjectStore, tx txProvider, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		students: students,
		sections: sections,
		subjects: subjects,
		links:    links,
		tx:       tx,
		logger:   logger,
	}
}

// AutoEnroll creates the missing student-subject links. sectionID overrides the student's
// own section when non-empty. Running it again creates nothing new.
func (s *EnrollmentService) AutoEnroll(ctx context.Context, studentID string, sectionID *string) (*dto.AutoEnrollResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	targetSection := student.SectionID
	if sectionID != nil && strings.TrimSpace(*sectionID) != "" {
		trimmed := strings.TrimSpace(*sectionID)
		targetSection = &trimmed
	}

	var section *models.Section
	if targetSection != nil && *targetSection != "" {
		section, err = s.sections.FindByID(ctx, *targetSection)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
		}
	}

	gradeLevel := ""
	if student.GradeLevel != nil {
		gradeLevel = *student.GradeLevel
	}
	if strings.TrimSpace(gradeLevel) == "" && section != nil {
		gradeLevel = section.GradeLevel
	}
	grade, band, ok := models.BandForGradeLevel(gradeLevel)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student grade level must be between 7 and 12")
	}

	track := ""
	if section != nil {
		track = section.TrackValue()
	}

	catalog, err := s.subjects.ListByBand(ctx, band)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	linkedIDs, err := s.links.ListSubjectIDs(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current enrollment")
	}
	linked := make(map[string]struct{}, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = struct{}{}
	}

	var sectionRef *string
	if section != nil {
		id := section.ID
		sectionRef = &id
	}
	resp := &dto.AutoEnrollResponse{
		StudentID: student.ID,
		SectionID: sectionRef,
		Grade:     grade,
		Enrolled:  []dto.EnrolledSubject{},
		Skipped:   []dto.EnrolledSubject{},
	}
	pending := make([]models.StudentSubject, 0)
	for _, subject := range catalog {
		if !subject.EligibleFor(grade, band, track) {
			continue
		}
		item := dto.EnrolledSubject{SubjectID: subject.ID, SubjectName: subject.Name, TeacherID: subject.TeacherID}
		if _, ok := linked[subject.ID]; ok {
			resp.Skipped = append(resp.Skipped, item)
			continue
		}
		pending = append(pending, models.StudentSubject{
			StudentID: student.ID,
			SubjectID: subject.ID,
			TeacherID: subject.TeacherID,
			SectionID: sectionRef,
		})
		resp.Enrolled = append(resp.Enrolled, item)
	}

	if len(pending) == 0 {
		return resp, nil
	}
	if err := s.insert(ctx, pending); err != nil {
		return nil, err
	}
	s.logger.Info("student auto-enrolled",
		zap.String("student_id", student.ID),
		zap.Int("enrolled", len(resp.Enrolled)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

func (s *EnrollmentService) insert(ctx context.Context, links []models.StudentSubject) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = s.links.InsertWithTx(ctx, tx, links); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit enrollment")
	}
	return nil
}

// ListStudentSubjects returns a student's subject links with names.
func (s *EnrollmentService) ListStudentSubjects(ctx context.Context, studentID string, actor *models.JWTClaims) ([]models.StudentSubjectDetail, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := authorizeStudentAccess(actor, student); err != nil {
		return nil, err
	}
	links, err := s.links.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student subjects")
	}
	if links == nil {
		links = []models.StudentSubjectDetail{}
	}
	return links, nil
}

// authorizeStudentAccess applies the band scope of teachers and the child scope of parents.
func authorizeStudentAccess(actor *models.JWTClaims, student *models.StudentDetail) error {
	if actor == nil {
		return nil
	}
	if childID, ok := actor.ChildScope(); ok {
		if childID == "" || childID != student.ID {
			return appErrors.Clone(appErrors.ErrForbidden, "parents may only view their linked student")
		}
		return nil
	}
	if band := actor.BandScope(); band != nil {
		grade := ""
		if student.GradeLevel != nil {
			grade = *student.GradeLevel
		}
		_, studentBand, ok := models.BandForGradeLevel(grade)
		if !ok || studentBand != *band {
			return appErrors.Clone(appErrors.ErrForbidden, "student is outside your level band")
		}
	}
	return nil
}

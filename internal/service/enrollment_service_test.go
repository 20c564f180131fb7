package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type studentReaderStub struct {
	students map[string]*models.StudentDetail
}

func (s *studentReaderStub) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

type studentSubjectStoreStub struct {
	links     []models.StudentSubject
	insertErr error
	inserts   int
}

func (s *studentSubjectStoreStub) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubjectDetail, error) {
	var out []models.StudentSubjectDetail
	for _, link := range s.links {
		if link.StudentID == studentID {
			out = append(out, models.StudentSubjectDetail{StudentSubject: link})
		}
	}
	return out, nil
}

func (s *studentSubjectStoreStub) ListSubjectIDs(ctx context.Context, studentID string) ([]string, error) {
	var ids []string
	for _, link := range s.links {
		if link.StudentID == studentID {
			ids = append(ids, link.SubjectID)
		}
	}
	return ids, nil
}

func (s *studentSubjectStoreStub) InsertWithTx(ctx context.Context, exec sqlx.ExtContext, links []models.StudentSubject) (int64, error) {
	s.inserts++
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.links = append(s.links, links...)
	return int64(len(links)), nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, *studentSubjectStoreStub, *txProviderMock) {
	t.Helper()
	tx, _ := newTxProviderMock(t)
	students := &studentReaderStub{students: map[string]*models.StudentDetail{
		"stu-9":    {Student: models.Student{ID: "stu-9", GradeLevel: strPtr("Grade 9")}},
		"stu-11":   {Student: models.Student{ID: "stu-11", GradeLevel: strPtr("Grade 11"), SectionID: strPtr("sec-stem")}},
		"stu-none": {Student: models.Student{ID: "stu-none"}},
		"stu-sec":  {Student: models.Student{ID: "stu-sec", SectionID: strPtr("sec-8")}},
	}}
	sections := &sectionReaderStub{sections: map[string]*models.Section{
		"sec-stem": {ID: "sec-stem", Name: "11-STEM", GradeLevel: "Grade 11", Track: strPtr("STEM")},
		"sec-8":    {ID: "sec-8", Name: "8-A", GradeLevel: "Grade 8"},
	}}
	subjects := &subjectBandStub{subjects: []models.Subject{
		{ID: "math-7", Name: "Mathematics 7", LevelBand: models.LevelBandJHS, GradeMin: intPtr(7), GradeMax: intPtr(7)},
		{ID: "math-9", Name: "Mathematics 9", LevelBand: models.LevelBandJHS, GradeMin: intPtr(9), GradeMax: intPtr(9), TeacherID: strPtr("t-1")},
		{ID: "tle", Name: "TLE", LevelBand: models.LevelBandJHS, Track: strPtr("ICT")},
		{ID: "filipino", Name: "Filipino", LevelBand: models.LevelBandJHS},
		{ID: "gen-math", Name: "General Mathematics", LevelBand: models.LevelBandSHS},
		{ID: "pre-calc", Name: "Pre-Calculus", LevelBand: models.LevelBandSHS, Track: strPtr("stem")},
		{ID: "bus-math", Name: "Business Math", LevelBand: models.LevelBandSHS, Track: strPtr("ABM")},
	}}
	links := &studentSubjectStoreStub{}
	service := NewEnrollmentService(students, sections, subjects, links, tx, nil)
	return service, links, tx.(*txProviderMock)
}

func TestEnrollmentAutoEnrollJuniorIgnoresTrack(t *testing.T) {
	service, links, tx := newEnrollmentFixture(t)
	tx.mock.ExpectBegin()
	tx.mock.ExpectCommit()

	resp, err := service.AutoEnroll(context.Background(), "stu-9", nil)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Grade)

	var ids []string
	for _, item := range resp.Enrolled {
		ids = append(ids, item.SubjectID)
	}
	assert.Equal(t, []string{"math-9", "tle", "filipino"}, ids)
	assert.Empty(t, resp.Skipped)
	require.Len(t, links.links, 3)
	assert.Equal(t, "t-1", *links.links[0].TeacherID)
	assert.Nil(t, links.links[0].SectionID)
	assert.NoError(t, tx.mock.ExpectationsWereMet())
}

func TestEnrollmentAutoEnrollIsIdempotent(t *testing.T) {
	service, links, tx := newEnrollmentFixture(t)
	tx.mock.ExpectBegin()
	tx.mock.ExpectCommit()

	_, err := service.AutoEnroll(context.Background(), "stu-9", nil)
	require.NoError(t, err)

	resp, err := service.AutoEnroll(context.Background(), "stu-9", nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Enrolled)
	assert.Len(t, resp.Skipped, 3)
	assert.Len(t, links.links, 3)
	assert.Equal(t, 1, links.inserts)
}

func TestEnrollmentAutoEnrollSeniorFiltersTrack(t *testing.T) {
	service, links, tx := newEnrollmentFixture(t)
	tx.mock.ExpectBegin()
	tx.mock.ExpectCommit()

	resp, err := service.AutoEnroll(context.Background(), "stu-11", nil)
	require.NoError(t, err)
	var ids []string
	for _, item := range resp.Enrolled {
		ids = append(ids, item.SubjectID)
	}
	assert.Equal(t, []string{"gen-math", "pre-calc"}, ids)
	require.NotNil(t, resp.SectionID)
	assert.Equal(t, "sec-stem", *resp.SectionID)
	assert.Equal(t, "sec-stem", *links.links[0].SectionID)
}

func TestEnrollmentAutoEnrollFallsBackToSectionGrade(t *testing.T) {
	service, _, tx := newEnrollmentFixture(t)
	tx.mock.ExpectBegin()
	tx.mock.ExpectCommit()

	resp, err := service.AutoEnroll(context.Background(), "stu-sec", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Grade)
}

func TestEnrollmentAutoEnrollErrors(t *testing.T) {
	service, _, _ := newEnrollmentFixture(t)

	_, err := service.AutoEnroll(context.Background(), "missing", nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = service.AutoEnroll(context.Background(), "stu-9", strPtr("sec-missing"))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = service.AutoEnroll(context.Background(), "stu-none", nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentAutoEnrollRollsBack(t *testing.T) {
	service, links, tx := newEnrollmentFixture(t)
	links.insertErr = errors.New("constraint violation")
	tx.mock.ExpectBegin()
	tx.mock.ExpectRollback()

	_, err := service.AutoEnroll(context.Background(), "stu-9", nil)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.NoError(t, tx.mock.ExpectationsWereMet())
}

func TestEnrollmentListStudentSubjectsScopes(t *testing.T) {
	service, links, _ := newEnrollmentFixture(t)
	links.links = []models.StudentSubject{{ID: "l-1", StudentID: "stu-9", SubjectID: "filipino"}}

	parent := &models.JWTClaims{Role: models.RoleParent, StudentID: "stu-9"}
	rows, err := service.ListStudentSubjects(context.Background(), "stu-9", parent)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	otherParent := &models.JWTClaims{Role: models.RoleParent, StudentID: "stu-11"}
	_, err = service.ListStudentSubjects(context.Background(), "stu-9", otherParent)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	seniorTeacher := &models.JWTClaims{Role: models.RoleTeacher, TeacherBand: models.LevelBandSHS}
	_, err = service.ListStudentSubjects(context.Background(), "stu-9", seniorTeacher)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	rows, err = service.ListStudentSubjects(context.Background(), "stu-11", nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
}

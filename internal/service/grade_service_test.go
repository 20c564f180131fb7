package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type gradeRepoStub struct {
	grades     map[string]*models.Grade
	lastFilter models.GradeFilter
}

func (r *gradeRepoStub) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, int, error) {
	r.lastFilter = filter
	var out []models.GradeDetail
	for _, grade := range r.grades {
		out = append(out, models.GradeDetail{Grade: *grade})
	}
	return out, len(out), nil
}

func (r *gradeRepoStub) FindByID(ctx context.Context, id string) (*models.GradeDetail, error) {
	grade, ok := r.grades[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.GradeDetail{Grade: *grade, StudentName: "Juan Cruz"}, nil
}

func (r *gradeRepoStub) Create(ctx context.Context, grade *models.Grade) error {
	grade.ID = fmt.Sprintf("g-%d", len(r.grades)+1)
	clone := *grade
	r.grades[grade.ID] = &clone
	return nil
}

func (r *gradeRepoStub) Update(ctx context.Context, grade *models.Grade) error {
	if _, ok := r.grades[grade.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *grade
	r.grades[grade.ID] = &clone
	return nil
}

func (r *gradeRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.grades[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.grades, id)
	return nil
}

func recordStudents() *studentReaderStub {
	return &studentReaderStub{students: map[string]*models.StudentDetail{
		"stu-8":  {Student: models.Student{ID: "stu-8", GradeLevel: strPtr("Grade 8")}},
		"stu-12": {Student: models.Student{ID: "stu-12", GradeLevel: strPtr("Grade 12")}},
	}}
}

func floatPtr(v float64) *float64 { return &v }

func TestGradeServiceCreateDefaultsRecordedOn(t *testing.T) {
	repo := &gradeRepoStub{grades: map[string]*models.Grade{}}
	service := NewGradeService(repo, recordStudents(), nil, nil)
	service.now = func() time.Time { return time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC) }
	actor := &models.JWTClaims{UserID: "u-t", Role: models.RoleTeacher, TeacherBand: models.LevelBandJHS}

	grade, err := service.Create(context.Background(), GradeRequest{StudentID: "stu-8", Subject: "Science", Assessment: "Quiz 1", GradeValue: floatPtr(0)}, actor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), grade.RecordedOn)
	assert.Equal(t, 0.0, grade.GradeValue)
	require.NotNil(t, grade.RecordedBy)
	assert.Equal(t, "u-t", *grade.RecordedBy)
}

func TestGradeServiceCreateRejects(t *testing.T) {
	repo := &gradeRepoStub{grades: map[string]*models.Grade{}}
	service := NewGradeService(repo, recordStudents(), nil, nil)
	juniorTeacher := &models.JWTClaims{Role: models.RoleTeacher, TeacherBand: models.LevelBandJHS}

	_, err := service.Create(context.Background(), GradeRequest{StudentID: "stu-8", Subject: "Science", Assessment: "Quiz", GradeValue: floatPtr(101)}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), GradeRequest{StudentID: "stu-8", Subject: "Science", Assessment: "Quiz"}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), GradeRequest{StudentID: "stu-12", Subject: "Physics", Assessment: "Quiz", GradeValue: floatPtr(90)}, juniorTeacher)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), GradeRequest{StudentID: "ghost", Subject: "Physics", Assessment: "Quiz", GradeValue: floatPtr(90)}, nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceUpdateAndDelete(t *testing.T) {
	repo := &gradeRepoStub{grades: map[string]*models.Grade{
		"g-1": {ID: "g-1", StudentID: "stu-8", Subject: "Science", Assessment: "Quiz", GradeValue: 70},
	}}
	service := NewGradeService(repo, recordStudents(), nil, nil)

	grade, err := service.Update(context.Background(), "g-1", GradeRequest{StudentID: "stu-8", Subject: "Science", Assessment: "Quiz", GradeValue: floatPtr(85), RecordedOn: "2024-05-01"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 85.0, grade.GradeValue)
	assert.Equal(t, 2024, grade.RecordedOn.Year())

	require.NoError(t, service.Delete(context.Background(), "g-1"))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(service.Delete(context.Background(), "g-1")).Code)
}

func TestGradeServiceListScopes(t *testing.T) {
	repo := &gradeRepoStub{grades: map[string]*models.Grade{}}
	service := NewGradeService(repo, recordStudents(), nil, nil)

	_, _, err := service.List(context.Background(), models.GradeFilter{}, &models.JWTClaims{Role: models.RoleParent, StudentID: "stu-8"})
	require.NoError(t, err)
	assert.Equal(t, "stu-8", repo.lastFilter.ChildID)

	rows, _, err := service.List(context.Background(), models.GradeFilter{StudentID: "stu-12"}, &models.JWTClaims{Role: models.RoleParent, StudentID: "stu-8"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, _, err = service.List(context.Background(), models.GradeFilter{}, &models.JWTClaims{Role: models.RoleTeacher, TeacherBand: models.LevelBandSHS})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Band)
	assert.Equal(t, models.LevelBandSHS, *repo.lastFilter.Band)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type subjectRepoStub struct {
	subjects   map[string]*models.Subject
	lastFilter models.SubjectFilter
	txCreates  int
	txErr      error
}

func newSubjectRepoStub() *subjectRepoStub {
	return &subjectRepoStub{subjects: map[string]*models.Subject{
		"sub-1": {ID: "sub-1", Name: "Filipino", Category: models.SubjectCategoryCore, LevelBand: models.LevelBandJHS, WeightWW: 0.3, WeightPT: 0.5, WeightQA: 0.2},
	}}
}

func (r *subjectRepoStub) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	r.lastFilter = filter
	return nil, 0, nil
}

func (r *subjectRepoStub) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	subject, ok := r.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *subject
	return &clone, nil
}

func (r *subjectRepoStub) ExistsByName(ctx context.Context, name string, band models.LevelBand, excludeID string) (bool, error) {
	for id, subject := range r.subjects {
		if strings.EqualFold(subject.Name, name) && subject.LevelBand == band && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *subjectRepoStub) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = fmt.Sprintf("sub-%d", len(r.subjects)+1)
	clone := *subject
	r.subjects[subject.ID] = &clone
	return nil
}

func (r *subjectRepoStub) CreateWithTx(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	r.txCreates++
	if r.txErr != nil {
		return r.txErr
	}
	return r.Create(ctx, subject)
}

func (r *subjectRepoStub) Update(ctx context.Context, subject *models.Subject) error {
	clone := *subject
	r.subjects[subject.ID] = &clone
	return nil
}

func (r *subjectRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.subjects[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.subjects, id)
	return nil
}

func subjectTeachers() *userFinderStub {
	return &userFinderStub{users: map[string]*models.User{
		"t-1":     {ID: "t-1", Role: models.RoleTeacher},
		"admin-1": {ID: "admin-1", Role: models.RoleAdmin},
	}}
}

func validSubject(name string) SubjectRequest {
	return SubjectRequest{
		Name: name, Category: models.SubjectCategoryCore, LevelBand: models.LevelBandSHS,
		WeightWW: 0.25, WeightPT: 0.45, WeightQA: 0.30,
	}
}

func TestSubjectServiceCreateValidates(t *testing.T) {
	repo := newSubjectRepoStub()
	service := NewSubjectService(repo, subjectTeachers(), nil, nil, nil)

	req := validSubject("General Mathematics")
	req.TeacherID = strPtr("t-1")
	req.GradeMin, req.GradeMax = intPtr(11), intPtr(12)
	subject, err := service.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "t-1", *subject.TeacherID)

	bad := validSubject("Physics")
	bad.WeightQA = 0.5
	_, err = service.Create(context.Background(), bad)
	assert.Equal(t, appErrors.ErrInvalidWeights.Code, appErrors.FromError(err).Code)

	bad = validSubject("Physics")
	bad.GradeMin, bad.GradeMax = intPtr(12), intPtr(11)
	_, err = service.Create(context.Background(), bad)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	bad = validSubject("Physics")
	bad.GradeMin = intPtr(6)
	_, err = service.Create(context.Background(), bad)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	bad = validSubject("Physics")
	bad.LevelBand = "ES"
	_, err = service.Create(context.Background(), bad)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	bad = validSubject("Physics")
	bad.TeacherID = strPtr("admin-1")
	_, err = service.Create(context.Background(), bad)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), validSubject("general mathematics"))
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceListRestrictsTeacherBand(t *testing.T) {
	repo := newSubjectRepoStub()
	service := NewSubjectService(repo, subjectTeachers(), nil, nil, nil)
	teacher := &models.JWTClaims{Role: models.RoleTeacher, TeacherBand: models.LevelBandJHS}

	_, _, err := service.List(context.Background(), models.SubjectFilter{}, teacher)
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.LevelBand)
	assert.Equal(t, models.LevelBandJHS, *repo.lastFilter.LevelBand)

	senior := models.LevelBandSHS
	rows, _, err := service.List(context.Background(), models.SubjectFilter{LevelBand: &senior}, teacher)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, _, err = service.List(context.Background(), models.SubjectFilter{Grade: intPtr(13)}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceUpdateKeepsOwnName(t *testing.T) {
	repo := newSubjectRepoStub()
	service := NewSubjectService(repo, subjectTeachers(), nil, nil, nil)

	req := SubjectRequest{Name: "Filipino", Category: models.SubjectCategoryCore, LevelBand: models.LevelBandJHS, WeightWW: 0.3, WeightPT: 0.5, WeightQA: 0.2, WeeklyHours: intPtr(5)}
	subject, err := service.Update(context.Background(), "sub-1", req)
	require.NoError(t, err)
	assert.Equal(t, 5, *subject.WeeklyHours)

	_, err = service.Update(context.Background(), "missing", req)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	require.NoError(t, service.Delete(context.Background(), "sub-1"))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(service.Delete(context.Background(), "sub-1")).Code)
}

func TestSubjectServiceSeedCatalogSkipsExisting(t *testing.T) {
	repo := newSubjectRepoStub()
	tx, mock := newTxProviderMock(t)
	service := NewSubjectService(repo, subjectTeachers(), tx, nil, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	filipino := SubjectRequest{Name: "Filipino", Category: models.SubjectCategoryCore, LevelBand: models.LevelBandJHS, WeightWW: 0.3, WeightPT: 0.5, WeightQA: 0.2}
	created, err := service.SeedCatalog(context.Background(), []SubjectRequest{filipino, validSubject("Earth Science")})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, repo.txCreates)
	assert.NoError(t, mock.ExpectationsWereMet())

	created, err = service.SeedCatalog(context.Background(), []SubjectRequest{filipino})
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSubjectServiceSeedCatalogRollsBack(t *testing.T) {
	repo := newSubjectRepoStub()
	repo.txErr = errors.New("insert failed")
	tx, mock := newTxProviderMock(t)
	service := NewSubjectService(repo, subjectTeachers(), tx, nil, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := service.SeedCatalog(context.Background(), []SubjectRequest{validSubject("Earth Science")})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

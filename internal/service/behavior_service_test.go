package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type behaviorRepoStub struct {
	reports    map[string]*models.BehaviorReport
	lastFilter models.BehaviorFilter
}

func (r *behaviorRepoStub) List(ctx context.Context, filter models.BehaviorFilter) ([]models.BehaviorReportDetail, int, error) {
	r.lastFilter = filter
	return nil, 0, nil
}

func (r *behaviorRepoStub) FindByID(ctx context.Context, id string) (*models.BehaviorReportDetail, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.BehaviorReportDetail{BehaviorReport: *report, StudentName: "Juan Cruz"}, nil
}

func (r *behaviorRepoStub) Create(ctx context.Context, report *models.BehaviorReport) error {
	report.ID = "b-1"
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *behaviorRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.reports[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.reports, id)
	return nil
}

func TestBehaviorServiceCreate(t *testing.T) {
	repo := &behaviorRepoStub{reports: map[string]*models.BehaviorReport{}}
	service := NewBehaviorService(repo, recordStudents(), nil, nil)
	actor := &models.JWTClaims{UserID: "u-t", Role: models.RoleTeacher, TeacherBand: models.LevelBandSHS}

	report, err := service.Create(context.Background(), BehaviorRequest{
		StudentID: "stu-12", IncidentDate: "2024-06-03", Severity: models.BehaviorSeverityHigh,
		Description: " Fighting during recess ", ActionTaken: strPtr("  "),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Fighting during recess", report.Description)
	assert.Nil(t, report.ActionTaken)
	assert.Equal(t, "Juan Cruz", report.StudentName)

	_, err = service.Create(context.Background(), BehaviorRequest{
		StudentID: "stu-8", IncidentDate: "2024-06-03", Severity: models.BehaviorSeverityLow, Description: "Late",
	}, actor)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), BehaviorRequest{
		StudentID: "stu-8", IncidentDate: "2024-06-03", Severity: "Severe", Description: "Late",
	}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBehaviorServiceListAndDelete(t *testing.T) {
	repo := &behaviorRepoStub{reports: map[string]*models.BehaviorReport{"b-9": {ID: "b-9"}}}
	service := NewBehaviorService(repo, recordStudents(), nil, nil)

	rows, pagination, err := service.List(context.Background(), models.BehaviorFilter{Page: 2}, &models.JWTClaims{Role: models.RoleParent, StudentID: "stu-8"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, "stu-8", repo.lastFilter.ChildID)

	require.NoError(t, service.Delete(context.Background(), "b-9"))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(service.Delete(context.Background(), "b-9")).Code)
}

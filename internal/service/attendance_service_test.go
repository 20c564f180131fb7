package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type attendanceRepoStub struct {
	marks map[string]*models.Attendance
}

func (r *attendanceRepoStub) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	var out []models.AttendanceDetail
	for _, mark := range r.marks {
		out = append(out, models.AttendanceDetail{Attendance: *mark})
	}
	return out, len(out), nil
}

func (r *attendanceRepoStub) FindByID(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	mark, ok := r.marks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.AttendanceDetail{Attendance: *mark}, nil
}

func (r *attendanceRepoStub) Create(ctx context.Context, mark *models.Attendance) error {
	mark.ID = "a-1"
	clone := *mark
	r.marks[mark.ID] = &clone
	return nil
}

func (r *attendanceRepoStub) Update(ctx context.Context, mark *models.Attendance) error {
	clone := *mark
	r.marks[mark.ID] = &clone
	return nil
}

func (r *attendanceRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.marks[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.marks, id)
	return nil
}

func TestAttendanceServiceCreateAndUpdate(t *testing.T) {
	repo := &attendanceRepoStub{marks: map[string]*models.Attendance{}}
	service := NewAttendanceService(repo, recordStudents(), nil, nil)

	mark, err := service.Create(context.Background(), AttendanceRequest{StudentID: "stu-8", AttendanceDate: "2024-06-03", Status: models.AttendancePresent}, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), mark.AttendanceDate)

	mark, err = service.Update(context.Background(), "a-1", AttendanceRequest{StudentID: "stu-8", AttendanceDate: "2024-06-03", Status: models.AttendanceTardy}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceTardy, mark.Status)

	_, err = service.Create(context.Background(), AttendanceRequest{StudentID: "stu-8", AttendanceDate: "2024-06-03", Status: "Excused"}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = service.Create(context.Background(), AttendanceRequest{StudentID: "stu-8", AttendanceDate: "03/06/2024", Status: models.AttendanceAbsent}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceListRejectsInvertedRange(t *testing.T) {
	service := NewAttendanceService(&attendanceRepoStub{marks: map[string]*models.Attendance{}}, recordStudents(), nil, nil)
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, _, err := service.List(context.Background(), models.AttendanceFilter{DateFrom: &from, DateTo: &to}, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = service.Delete(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

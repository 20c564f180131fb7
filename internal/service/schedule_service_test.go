package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/timetable"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type sectionReaderStub struct {
	sections map[string]*models.Section
	err      error
}

func (s *sectionReaderStub) FindByID(ctx context.Context, id string) (*models.Section, error) {
	if s.err != nil {
		return nil, s.err
	}
	section, ok := s.sections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return section, nil
}

type subjectBandStub struct {
	subjects []models.Subject
}

func (s *subjectBandStub) ListByBand(ctx context.Context, band models.LevelBand) ([]models.Subject, error) {
	var out []models.Subject
	for _, subject := range s.subjects {
		if subject.LevelBand == band {
			out = append(out, subject)
		}
	}
	return out, nil
}

type roomListStub struct {
	rooms []models.Room
}

func (s *roomListStub) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type userFinderStub struct {
	users map[string]*models.User
}

func (s *userFinderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type scheduleEntryRepoStub struct {
	existing   []models.ScheduleEntry
	bySection  []models.ScheduleEntryDetail
	entry      *models.ScheduleEntryDetail
	replaceErr error
	replaced   []models.ScheduleEntry
	deleted    []string
	cleared    string
}

func (s *scheduleEntryRepoStub) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntryDetail, int, error) {
	return s.bySection, len(s.bySection), nil
}

func (s *scheduleEntryRepoStub) ListBySection(ctx context.Context, sectionID string) ([]models.ScheduleEntryDetail, error) {
	return s.bySection, nil
}

func (s *scheduleEntryRepoStub) ListExcludingSection(ctx context.Context, sectionID string) ([]models.ScheduleEntry, error) {
	return s.existing, nil
}

func (s *scheduleEntryRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleEntryDetail, error) {
	if s.entry == nil || s.entry.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.entry, nil
}

func (s *scheduleEntryRepoStub) DeleteBySection(ctx context.Context, sectionID string) (int64, error) {
	s.cleared = sectionID
	return int64(len(s.bySection)), nil
}

func (s *scheduleEntryRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *scheduleEntryRepoStub) ReplaceSectionWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string, entries []models.ScheduleEntry) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	for i := range entries {
		entries[i].ID = fmt.Sprintf("entry-%d", i+1)
	}
	s.replaced = entries
	return nil
}

type scheduleFixture struct {
	service  *ScheduleService
	sections *sectionReaderStub
	subjects *subjectBandStub
	rooms    *roomListStub
	entries  *scheduleEntryRepoStub
	metrics  *MetricsService
	mock     sqlmock.Sqlmock
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	stem := "STEM"
	teacher := "t-1"
	fx := &scheduleFixture{
		sections: &sectionReaderStub{sections: map[string]*models.Section{
			"sec-7a":  {ID: "sec-7a", Name: "Grade 7-A", GradeLevel: "Grade 7"},
			"sec-11":  {ID: "sec-11", Name: "Grade 11 STEM", GradeLevel: "G11-STEM", Track: &stem},
			"sec-bad": {ID: "sec-bad", Name: "Kinder", GradeLevel: "Kindergarten"},
		}},
		subjects: &subjectBandStub{subjects: []models.Subject{
			{ID: "math-7", Name: "Mathematics 7", Category: models.SubjectCategoryCore, LevelBand: models.LevelBandJHS, TeacherID: &teacher},
			{ID: "eng-7", Name: "English", Category: models.SubjectCategoryCore, LevelBand: models.LevelBandJHS},
		}},
		rooms:   &roomListStub{rooms: []models.Room{{ID: "r-1", Name: "Room 101"}}},
		entries: &scheduleEntryRepoStub{},
		metrics: NewMetricsService(),
		mock:    mock,
	}
	teachers := &userFinderStub{users: map[string]*models.User{
		"t-1": {ID: "t-1", FullName: "Ana Reyes", Role: models.RoleTeacher},
	}}
	fx.service = NewScheduleService(fx.sections, fx.subjects, fx.rooms, teachers, fx.entries, tx, fx.metrics, ScheduleServiceConfig{}, zap.NewNop())
	return fx
}

func TestScheduleServiceGenerateRespectsExistingBookings(t *testing.T) {
	fx := newScheduleFixture(t)
	teacher := "t-1"
	fx.entries.existing = []models.ScheduleEntry{
		{ID: "other", SectionID: "sec-7b", TeacherID: &teacher, RoomID: "r-2", DayOfWeek: 0, StartTime: "07:00", EndTime: "09:00"},
	}
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.service.Generate(context.Background(), "sec-7a", false)
	require.NoError(t, err)

	require.Len(t, resp.Created, 4)
	assert.Empty(t, resp.Failed)

	first := resp.Created[0]
	assert.Equal(t, "math-7", first.SubjectID)
	assert.Equal(t, "Monday", first.DayName)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "11:00", first.EndTime)
	assert.Equal(t, "Room 101", first.RoomName)
	require.NotNil(t, first.TeacherName)
	assert.Equal(t, "Ana Reyes", *first.TeacherName)
	assert.Equal(t, "entry-1", first.ID)

	second := resp.Created[1]
	assert.Equal(t, "13:00", second.StartTime)

	english := resp.Created[2]
	assert.Equal(t, "eng-7", english.SubjectID)
	assert.Equal(t, "07:00", english.StartTime)
	assert.Nil(t, english.TeacherID)
	assert.Nil(t, english.TeacherName)

	assert.Len(t, fx.entries.replaced, 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(fx.metrics.schedulerPlacements))
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestScheduleServiceGenerateReportsUnplacedBlocks(t *testing.T) {
	fx := newScheduleFixture(t)
	hours := 50
	fx.subjects.subjects = []models.Subject{
		{ID: "marathon", Name: "Immersion", Category: models.SubjectCategoryApplied, LevelBand: models.LevelBandJHS, WeeklyHours: &hours},
	}
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.service.Generate(context.Background(), "sec-7a", true)
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, 3, resp.Created[0].BlockHours)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, 47, resp.Failed[0].BlockHours)
	assert.Equal(t, "Immersion", resp.Failed[0].SubjectName)
	assert.True(t, resp.IncludeSaturday)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.schedulerRuns.WithLabelValues("partial")))
}

func TestScheduleServiceGenerateFiltersTrack(t *testing.T) {
	fx := newScheduleFixture(t)
	stem, abm := "stem", "ABM"
	fx.subjects.subjects = []models.Subject{
		{ID: "pre-calc", Name: "Pre-Calculus", Category: models.SubjectCategorySpecialized, LevelBand: models.LevelBandSHS, Track: &stem},
		{ID: "bus-math", Name: "Business Math", Category: models.SubjectCategorySpecialized, LevelBand: models.LevelBandSHS, Track: &abm},
		{ID: "oral", Name: "Oral Communication", Category: models.SubjectCategoryCore, LevelBand: models.LevelBandSHS},
	}
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.service.Generate(context.Background(), "sec-11", false)
	require.NoError(t, err)

	subjects := map[string]bool{}
	for _, created := range resp.Created {
		subjects[created.SubjectID] = true
	}
	assert.True(t, subjects["pre-calc"])
	assert.True(t, subjects["oral"])
	assert.False(t, subjects["bus-math"])
}

func TestScheduleServiceGenerateInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		section string
		mutate  func(fx *scheduleFixture)
		code    string
	}{
		{name: "empty section id", section: "  ", code: appErrors.ErrValidation.Code},
		{name: "unknown section", section: "missing", code: appErrors.ErrNotFound.Code},
		{name: "unparseable grade", section: "sec-bad", code: appErrors.ErrValidation.Code},
		{name: "no eligible subjects", section: "sec-11", code: appErrors.ErrPreconditionFailed.Code},
		{name: "no rooms", section: "sec-7a", mutate: func(fx *scheduleFixture) { fx.rooms.rooms = nil }, code: appErrors.ErrPreconditionFailed.Code},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newScheduleFixture(t)
			if tc.mutate != nil {
				tc.mutate(fx)
			}
			_, err := fx.service.Generate(context.Background(), tc.section, false)
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
			assert.Nil(t, fx.entries.replaced)
			assert.NoError(t, fx.mock.ExpectationsWereMet())
		})
	}
}

func TestScheduleServiceGenerateRollsBackOnPersistError(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.entries.replaceErr = errors.New("insert failed")
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	_, err := fx.service.Generate(context.Background(), "sec-7a", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.schedulerRuns.WithLabelValues("error")))
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestScheduleServiceGenerateUsesLoadTableOverrides(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newScheduleFixture(t)
	fx.subjects.subjects = fx.subjects.subjects[1:]
	fx.service = NewScheduleService(fx.sections, fx.subjects, fx.rooms, nil, fx.entries, tx, nil,
		ScheduleServiceConfig{LoadTable: timetable.NewLoadTable(map[string]int{"English": 1})}, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := fx.service.Generate(context.Background(), "sec-7a", false)
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, 1, resp.Created[0].BlockHours)
}

func TestScheduleServiceSectionTimetableAddsDayNames(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.entries.bySection = []models.ScheduleEntryDetail{
		{ScheduleEntry: models.ScheduleEntry{ID: "e-1", DayOfWeek: 2, StartTime: "07:00", EndTime: "08:00"}},
	}

	entries, err := fx.service.SectionTimetable(context.Background(), "sec-7a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Wednesday", entries[0].DayName)

	_, err = fx.service.SectionTimetable(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceListEntriesRejectsBadDay(t *testing.T) {
	fx := newScheduleFixture(t)
	day := 9
	_, _, err := fx.service.ListEntries(context.Background(), models.ScheduleFilter{DayOfWeek: &day})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, pagination, err := fx.service.ListEntries(context.Background(), models.ScheduleFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestScheduleServiceClearAndDelete(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.entries.bySection = []models.ScheduleEntryDetail{{}, {}}
	fx.entries.entry = &models.ScheduleEntryDetail{ScheduleEntry: models.ScheduleEntry{ID: "e-1"}}

	removed, err := fx.service.ClearSection(context.Background(), "sec-7a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, "sec-7a", fx.entries.cleared)

	require.NoError(t, fx.service.DeleteEntry(context.Background(), "e-1"))
	assert.Equal(t, []string{"e-1"}, fx.entries.deleted)

	err = fx.service.DeleteEntry(context.Background(), "e-404")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

type remoteLockStub struct {
	acquire bool
	err     error
	calls   int
	release int
}

func (s *remoteLockStub) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	s.calls++
	return s.acquire, s.err
}

func (s *remoteLockStub) ReleaseLock(ctx context.Context, key, token string) error {
	s.release++
	return nil
}

func TestScheduleRunLockerAcquiresAndReleases(t *testing.T) {
	remote := &remoteLockStub{acquire: true}
	locker := NewScheduleRunLocker(remote, time.Second, nil)

	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 1, remote.release)

	unlock, err = locker.Lock(context.Background())
	require.NoError(t, err)
	unlock()
}

func TestScheduleRunLockerTimesOutWhenHeld(t *testing.T) {
	locker := NewScheduleRunLocker(&remoteLockStub{acquire: false}, 120*time.Millisecond, nil)

	_, err := locker.Lock(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLockNotAcquired.Code, appErrors.FromError(err).Code)

	// the local mutex must be free again
	locker.remote = nil
	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	unlock()
}

func TestScheduleRunLockerFallsBackOnRedisError(t *testing.T) {
	remote := &remoteLockStub{err: errors.New("connection refused")}
	locker := NewScheduleRunLocker(remote, time.Second, nil)

	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 0, remote.release)
}

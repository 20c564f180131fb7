package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/timetable"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type scheduleSectionReader interface {
	FindByID(ctx context.Context, id string) (*models.Section, error)
}

type scheduleSubjectReader interface {
	ListByBand(ctx context.Context, band models.LevelBand) ([]models.Subject, error)
}

type scheduleRoomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type scheduleTeacherReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type scheduleEntryRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntryDetail, int, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.ScheduleEntryDetail, error)
	ListExcludingSection(ctx context.Context, sectionID string) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntryDetail, error)
	DeleteBySection(ctx context.Context, sectionID string) (int64, error)
	Delete(ctx context.Context, id string) error
	ReplaceSectionWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string, entries []models.ScheduleEntry) error
}

// ScheduleServiceConfig tunes the allocator run.
type ScheduleServiceConfig struct {
	LoadTable *timetable.LoadTable
	Locker    *ScheduleRunLocker
}

// ScheduleService generates section timetables and exposes the stored schedule.
type ScheduleService struct {
	sections  scheduleSectionReader
	subjects  scheduleSubjectReader
	rooms     scheduleRoomReader
	teachers  scheduleTeacherReader
	entries   scheduleEntryRepository
	tx        txProvider
	metrics   *MetricsService
	loadTable *timetable.LoadTable
	locker    *ScheduleRunLocker
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleService wires the schedule service.
func NewScheduleService(
	sections scheduleSectionReader,
	subjects scheduleSubjectReader,
	rooms scheduleRoomReader,
	teachers scheduleTeacherReader,
	entries scheduleEntryRepository,
	tx txProvider,
	metrics *MetricsService,
	cfg ScheduleServiceConfig,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LoadTable == nil {
		cfg.LoadTable = timetable.NewLoadTable(nil)
	}
	return &ScheduleService{
		sections:  sections,
		subjects:  subjects,
		rooms:     rooms,
		teachers:  teachers,
		entries:   entries,
		tx:        tx,
		metrics:   metrics,
		loadTable: cfg.LoadTable,
		locker:    cfg.Locker,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate rebuilds the weekly timetable of a section. Blocks that fit nowhere are reported
// in Failed; they do not fail the run.
func (s *ScheduleService) Generate(ctx context.Context, sectionID string, includeSaturday bool) (resp *dto.GenerateScheduleResponse, err error) {
	started := s.now()
	defer func() {
		if err != nil {
			s.metrics.ObserveScheduleRun("error", 0, 0, s.now().Sub(started))
		}
	}()

	sectionID = strings.TrimSpace(sectionID)
	if sectionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section id is required")
	}
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	grade, band, ok := models.BandForGradeLevel(section.GradeLevel)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section grade level must be between 7 and 12")
	}

	catalog, err := s.subjects.ListByBand(ctx, band)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	eligible := make([]models.Subject, 0, len(catalog))
	for _, subject := range catalog {
		if subject.EligibleFor(grade, band, section.TrackValue()) {
			eligible = append(eligible, subject)
		}
	}
	if len(eligible) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no eligible subjects for section")
	}

	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no rooms configured")
	}

	teacherNames, err := s.teacherNames(ctx, eligible)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		unlock, lockErr := s.locker.Lock(ctx)
		if lockErr != nil {
			return nil, lockErr
		}
		defer unlock()
	}

	existing, err := s.entries.ListExcludingSection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing schedule")
	}
	bookings, err := toBookings(existing)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read existing schedule")
	}

	result := timetable.Allocate(timetable.Request{
		SectionID:       sectionID,
		Subjects:        s.toAllocatorSubjects(eligible, band),
		Rooms:           toAllocatorRooms(rooms),
		Existing:        bookings,
		IncludeSaturday: includeSaturday,
	})

	entries := make([]models.ScheduleEntry, len(result.Placements))
	for i, placement := range result.Placements {
		entries[i] = models.ScheduleEntry{
			SectionID: sectionID,
			SubjectID: placement.SubjectID,
			TeacherID: optionalString(placement.TeacherID),
			RoomID:    placement.RoomID,
			DayOfWeek: placement.Day,
			StartTime: timetable.FormatClock(placement.Start),
			EndTime:   timetable.FormatClock(placement.End),
		}
	}

	if err = s.persist(ctx, sectionID, entries); err != nil {
		return nil, err
	}

	roomNames := make(map[string]string, len(rooms))
	for _, room := range rooms {
		roomNames[room.ID] = room.Name
	}

	resp = &dto.GenerateScheduleResponse{
		SectionID:       section.ID,
		SectionName:     section.Name,
		IncludeSaturday: includeSaturday,
		Created:         make([]dto.CreatedScheduleEntry, 0, len(result.Placements)),
		Failed:          make([]dto.FailedScheduleBlock, 0, len(result.Failures)),
	}
	for i, placement := range result.Placements {
		created := dto.CreatedScheduleEntry{
			ID:          entries[i].ID,
			SectionID:   section.ID,
			SectionName: section.Name,
			SubjectID:   placement.SubjectID,
			SubjectName: placement.SubjectName,
			TeacherID:   entries[i].TeacherID,
			RoomID:      placement.RoomID,
			RoomName:    roomNames[placement.RoomID],
			DayOfWeek:   placement.Day,
			DayName:     timetable.DayName(placement.Day),
			StartTime:   entries[i].StartTime,
			EndTime:     entries[i].EndTime,
			BlockHours:  placement.BlockHours,
		}
		if name, ok := teacherNames[placement.TeacherID]; ok {
			created.TeacherName = &name
		}
		resp.Created = append(resp.Created, created)
	}
	for _, failure := range result.Failures {
		resp.Failed = append(resp.Failed, dto.FailedScheduleBlock{
			SubjectID:   failure.SubjectID,
			SubjectName: failure.SubjectName,
			BlockHours:  failure.BlockHours,
		})
	}

	outcome := "complete"
	if len(resp.Failed) > 0 {
		outcome = "partial"
	}
	s.metrics.ObserveScheduleRun(outcome, len(resp.Created), len(resp.Failed), s.now().Sub(started))
	s.logger.Info("timetable generated",
		zap.String("section_id", sectionID),
		zap.Int("placed", len(resp.Created)),
		zap.Int("failed", len(resp.Failed)),
		zap.Bool("include_saturday", includeSaturday),
	)
	return resp, nil
}

func (s *ScheduleService) persist(ctx context.Context, sectionID string, entries []models.ScheduleEntry) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.entries.ReplaceSectionWithTx(ctx, tx, sectionID, entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
	}
	return nil
}

func (s *ScheduleService) teacherNames(ctx context.Context, subjects []models.Subject) (map[string]string, error) {
	names := make(map[string]string)
	if s.teachers == nil {
		return names, nil
	}
	for _, subject := range subjects {
		if subject.TeacherID == nil || *subject.TeacherID == "" {
			continue
		}
		id := *subject.TeacherID
		if _, seen := names[id]; seen {
			continue
		}
		user, err := s.teachers.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		names[id] = user.FullName
	}
	return names, nil
}

func (s *ScheduleService) toAllocatorSubjects(subjects []models.Subject, band models.LevelBand) []timetable.Subject {
	out := make([]timetable.Subject, 0, len(subjects))
	for _, subject := range subjects {
		hours := s.loadTable.Hours(subject.Name, band, subject.Category)
		if subject.WeeklyHours != nil && *subject.WeeklyHours > 0 {
			hours = *subject.WeeklyHours
		}
		teacherID := ""
		if subject.TeacherID != nil {
			teacherID = *subject.TeacherID
		}
		out = append(out, timetable.Subject{
			ID:          subject.ID,
			Name:        subject.Name,
			WeeklyHours: hours,
			TeacherID:   teacherID,
		})
	}
	return out
}

func toAllocatorRooms(rooms []models.Room) []timetable.Room {
	out := make([]timetable.Room, len(rooms))
	for i, room := range rooms {
		out[i] = timetable.Room{ID: room.ID, Name: room.Name}
	}
	return out
}

func toBookings(entries []models.ScheduleEntry) ([]timetable.Booking, error) {
	bookings := make([]timetable.Booking, 0, len(entries))
	for _, entry := range entries {
		start, err := timetable.ParseClock(entry.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := timetable.ParseClock(entry.EndTime)
		if err != nil {
			return nil, err
		}
		teacherID := ""
		if entry.TeacherID != nil {
			teacherID = *entry.TeacherID
		}
		bookings = append(bookings, timetable.Booking{
			SectionID: entry.SectionID,
			TeacherID: teacherID,
			RoomID:    entry.RoomID,
			Day:       entry.DayOfWeek,
			Start:     start,
			End:       end,
		})
	}
	return bookings, nil
}

// ListEntries returns schedule entries matching the filter.
func (s *ScheduleService) ListEntries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntryDetail, *models.Pagination, error) {
	if filter.DayOfWeek != nil && (*filter.DayOfWeek < 0 || *filter.DayOfWeek > 6) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 0 and 6")
	}
	entries, total, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	withDayNames(entries)
	page, size := normalizePagination(filter.Page, filter.PageSize)
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// SectionTimetable returns every entry of a section ordered by day and start time.
func (s *ScheduleService) SectionTimetable(ctx context.Context, sectionID string) ([]models.ScheduleEntryDetail, error) {
	if _, err := s.requireSection(ctx, sectionID); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section timetable")
	}
	withDayNames(entries)
	return entries, nil
}

// ClearSection removes all entries of a section and reports how many were deleted.
func (s *ScheduleService) ClearSection(ctx context.Context, sectionID string) (int64, error) {
	if _, err := s.requireSection(ctx, sectionID); err != nil {
		return 0, err
	}
	removed, err := s.entries.DeleteBySection(ctx, sectionID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear section timetable")
	}
	s.logger.Info("section timetable cleared", zap.String("section_id", sectionID), zap.Int64("removed", removed))
	return removed, nil
}

// DeleteEntry removes a single schedule entry.
func (s *ScheduleService) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.entries.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}

func (s *ScheduleService) requireSection(ctx context.Context, sectionID string) (*models.Section, error) {
	if strings.TrimSpace(sectionID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section id is required")
	}
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

func withDayNames(entries []models.ScheduleEntryDetail) {
	for i := range entries {
		entries[i].DayName = timetable.DayName(entries[i].DayOfWeek)
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func normalizePagination(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

func newPagination(page, size, total int) *models.Pagination {
	page, size = normalizePagination(page, size)
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

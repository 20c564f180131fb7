package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sis-api/internal/models"
)

const scheduleEntryColumns = `se.id, se.section_id, se.subject_id, se.teacher_id, se.room_id, se.day_of_week,
        to_char(se.start_time, 'HH24:MI') AS start_time, to_char(se.end_time, 'HH24:MI') AS end_time, se.created_at`

const scheduleDetailJoins = `FROM schedule_entries se
        JOIN sections sec ON sec.id = se.section_id
        JOIN subjects sub ON sub.id = se.subject_id
        JOIN rooms r ON r.id = se.room_id
        LEFT JOIN users u ON u.id = se.teacher_id`

const scheduleDetailColumns = scheduleEntryColumns + `,
        sec.name AS section_name, sub.name AS subject_name, u.full_name AS teacher_name, r.name AS room_name`

// ScheduleRepository persists timetable entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedule entries with display names, filtered and paginated.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntryDetail, int, error) {
	where := &whereBuilder{}
	if filter.SectionID != "" {
		where.add("se.section_id = $%d", filter.SectionID)
	}
	if filter.TeacherID != "" {
		where.add("se.teacher_id = $%d", filter.TeacherID)
	}
	if filter.RoomID != "" {
		where.add("se.room_id = $%d", filter.RoomID)
	}
	if filter.DayOfWeek != nil {
		where.add("se.day_of_week = $%d", *filter.DayOfWeek)
	}
	base := scheduleDetailJoins + " WHERE 1=1" + where.clause()

	allowedSorts := map[string]string{
		"day_of_week": "se.day_of_week",
		"start_time":  "se.start_time",
		"section":     "sec.name",
		"room":        "r.name",
		"created_at":  "se.created_at",
	}
	sortBy, ok := allowedSorts[filter.SortBy]
	if !ok {
		sortBy = "se.day_of_week"
	}
	order := sortOrder(filter.SortOrder, "ASC")
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, se.start_time ASC, se.id ASC LIMIT %d OFFSET %d", scheduleDetailColumns, base, sortBy, order, limit, offset)
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule entries: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule entries: %w", err)
	}
	return entries, total, nil
}

// ListBySection returns a section's full timetable ordered by day and start time.
func (r *ScheduleRepository) ListBySection(ctx context.Context, sectionID string) ([]models.ScheduleEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE se.section_id = $1 ORDER BY se.day_of_week ASC, se.start_time ASC, se.id ASC", scheduleDetailColumns, scheduleDetailJoins)
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, sectionID); err != nil {
		return nil, fmt.Errorf("list schedule entries by section: %w", err)
	}
	return entries, nil
}

// ListBySections returns the timetables of several sections, grouped by section name.
func (r *ScheduleRepository) ListBySections(ctx context.Context, sectionIDs []string) ([]models.ScheduleEntryDetail, error) {
	if len(sectionIDs) == 0 {
		return []models.ScheduleEntryDetail{}, nil
	}
	query := fmt.Sprintf("SELECT %s %s WHERE se.section_id = ANY($1) ORDER BY sec.name ASC, se.section_id ASC, se.day_of_week ASC, se.start_time ASC, se.id ASC", scheduleDetailColumns, scheduleDetailJoins)
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(sectionIDs)); err != nil {
		return nil, fmt.Errorf("list schedule entries by sections: %w", err)
	}
	return entries, nil
}

// ListExcludingSection returns every entry that does not belong to the section. These
// are the fixed bookings an allocator run for that section must work around.
func (r *ScheduleRepository) ListExcludingSection(ctx context.Context, sectionID string) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries se WHERE se.section_id <> $1", scheduleEntryColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, sectionID); err != nil {
		return nil, fmt.Errorf("list schedule entries excluding section: %w", err)
	}
	return entries, nil
}

// FindByID loads a schedule entry by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE se.id = $1", scheduleDetailColumns, scheduleDetailJoins)
	var entry models.ScheduleEntryDetail
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CountByRoom reports how many entries use a room.
func (r *ScheduleRepository) CountByRoom(ctx context.Context, roomID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM schedule_entries WHERE room_id = $1`, roomID); err != nil {
		return 0, fmt.Errorf("count schedule entries by room: %w", err)
	}
	return total, nil
}

// ReplaceSectionWithTx deletes every entry of the section and inserts the given ones
// using the caller's transaction.
func (r *ScheduleRepository) ReplaceSectionWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string, entries []models.ScheduleEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("clear section schedule: %w", err)
	}
	return r.bulkInsert(ctx, tx, entries)
}

func (r *ScheduleRepository) bulkInsert(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	now := time.Now().UTC()
	for i := range entries {
		payload := entries[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO schedule_entries (id, section_id, subject_id, teacher_id, room_id, day_of_week, start_time, end_time, created_at) VALUES (:id, :section_id, :subject_id, :teacher_id, :room_id, :day_of_week, :start_time, :end_time, :created_at)`, &payload); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
		entries[i] = payload
	}
	return nil
}

// DeleteBySection removes every entry of a section and returns the number removed.
func (r *ScheduleRepository) DeleteBySection(ctx context.Context, sectionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE section_id = $1`, sectionID)
	if err != nil {
		return 0, fmt.Errorf("delete section schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete section schedule: %w", err)
	}
	return affected, nil
}

// Delete removes a schedule entry by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

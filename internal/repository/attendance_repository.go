package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const attendanceDetailColumns = `a.id, a.student_id, a.attendance_date, a.status, a.recorded_by, a.created_at, a.updated_at,
        s.first_name || ' ' || s.last_name AS student_name`

// AttendanceRepository persists daily attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance marks newest first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	where := &whereBuilder{}
	if filter.StudentID != "" {
		where.add("a.student_id = $%d", filter.StudentID)
	}
	if filter.ChildID != "" {
		where.add("a.student_id = $%d", filter.ChildID)
	}
	if filter.Status != nil {
		where.add("a.status = $%d", *filter.Status)
	}
	if filter.DateFrom != nil {
		where.add("a.attendance_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where.add("a.attendance_date <= $%d", *filter.DateTo)
	}
	where.band("s.grade_level", filter.Band)
	base := "FROM attendance a JOIN students s ON s.id = a.student_id WHERE 1=1" + where.clause()
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY a.attendance_date DESC, s.last_name ASC LIMIT %d OFFSET %d", attendanceDetailColumns, base, limit, offset)
	var marks []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &marks, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return marks, total, nil
}

// FindByID loads an attendance mark.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance a JOIN students s ON s.id = a.student_id WHERE a.id = $1", attendanceDetailColumns)
	var mark models.AttendanceDetail
	if err := r.db.GetContext(ctx, &mark, query, id); err != nil {
		return nil, err
	}
	return &mark, nil
}

// Create inserts an attendance mark.
func (r *AttendanceRepository) Create(ctx context.Context, mark *models.Attendance) error {
	if mark.ID == "" {
		mark.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mark.CreatedAt.IsZero() {
		mark.CreatedAt = now
	}
	mark.UpdatedAt = now
	const query = `INSERT INTO attendance (id, student_id, attendance_date, status, recorded_by, created_at, updated_at)
        VALUES (:id, :student_id, :attendance_date, :status, :recorded_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mark); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update modifies an attendance mark.
func (r *AttendanceRepository) Update(ctx context.Context, mark *models.Attendance) error {
	mark.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET attendance_date = :attendance_date, status = :status, recorded_by = :recorded_by,
        updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, mark)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an attendance mark.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

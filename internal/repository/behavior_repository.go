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

const behaviorDetailColumns = `b.id, b.student_id, b.incident_date, b.severity, b.description, b.action_taken, b.reported_by,
        b.created_at, s.first_name || ' ' || s.last_name AS student_name`

// BehaviorRepository manages persistence for behavior reports.
type BehaviorRepository struct {
	db *sqlx.DB
}

// NewBehaviorRepository constructs a new repository.
func NewBehaviorRepository(db *sqlx.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

// List returns behavior reports per provided filter.
func (r *BehaviorRepository) List(ctx context.Context, filter models.BehaviorFilter) ([]models.BehaviorReportDetail, int, error) {
	where := &whereBuilder{}
	if filter.StudentID != "" {
		where.add("b.student_id = $%d", filter.StudentID)
	}
	if filter.ChildID != "" {
		where.add("b.student_id = $%d", filter.ChildID)
	}
	if filter.Severity != nil {
		where.add("b.severity = $%d", *filter.Severity)
	}
	where.band("s.grade_level", filter.Band)
	base := "FROM behavior_reports b JOIN students s ON s.id = b.student_id WHERE 1=1" + where.clause()
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY b.incident_date DESC, b.created_at DESC LIMIT %d OFFSET %d", behaviorDetailColumns, base, limit, offset)
	var reports []models.BehaviorReportDetail
	if err := r.db.SelectContext(ctx, &reports, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list behavior reports: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count behavior reports: %w", err)
	}
	return reports, total, nil
}

// FindByID loads a behavior report.
func (r *BehaviorRepository) FindByID(ctx context.Context, id string) (*models.BehaviorReportDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM behavior_reports b JOIN students s ON s.id = b.student_id WHERE b.id = $1", behaviorDetailColumns)
	var report models.BehaviorReportDetail
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// Create inserts a new behavior report.
func (r *BehaviorRepository) Create(ctx context.Context, report *models.BehaviorReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO behavior_reports (id, student_id, incident_date, severity, description, action_taken, reported_by, created_at)
        VALUES (:id, :student_id, :incident_date, :severity, :description, :action_taken, :reported_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create behavior report: %w", err)
	}
	return nil
}

// Delete removes a behavior report.
func (r *BehaviorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM behavior_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete behavior report: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

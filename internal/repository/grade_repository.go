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

const gradeDetailColumns = `g.id, g.student_id, g.subject, g.assessment, g.grade_value, g.recorded_on, g.recorded_by,
        g.created_at, g.updated_at, s.first_name || ' ' || s.last_name AS student_name`

// GradeRepository persists assessment scores.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grades newest first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, int, error) {
	where := &whereBuilder{}
	if filter.StudentID != "" {
		where.add("g.student_id = $%d", filter.StudentID)
	}
	if filter.ChildID != "" {
		where.add("g.student_id = $%d", filter.ChildID)
	}
	if filter.Subject != "" {
		where.add("g.subject = $%d", filter.Subject)
	}
	where.band("s.grade_level", filter.Band)
	base := "FROM grades g JOIN students s ON s.id = g.student_id WHERE 1=1" + where.clause()
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY g.recorded_on DESC, g.created_at DESC LIMIT %d OFFSET %d", gradeDetailColumns, base, limit, offset)
	var grades []models.GradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list grades: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count grades: %w", err)
	}
	return grades, total, nil
}

// FindByID loads a grade by id.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.GradeDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM grades g JOIN students s ON s.id = g.student_id WHERE g.id = $1", gradeDetailColumns)
	var grade models.GradeDetail
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Create inserts a grade.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	if grade.RecordedOn.IsZero() {
		grade.RecordedOn = now.Truncate(24 * time.Hour)
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, subject, assessment, grade_value, recorded_on, recorded_by, created_at, updated_at)
        VALUES (:id, :student_id, :subject, :assessment, :grade_value, :recorded_on, :recorded_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update modifies a grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET subject = :subject, assessment = :assessment, grade_value = :grade_value,
        recorded_on = :recorded_on, recorded_by = :recorded_by, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, grade)
	if err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

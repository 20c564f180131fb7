package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const studentDetailColumns = `s.id, s.student_number, s.first_name, s.middle_name, s.last_name, s.date_of_birth, s.grade_level,
        s.homeroom_teacher, s.section_id, s.created_at, s.updated_at, sec.name AS section_name`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	where := &whereBuilder{}
	if filter.StudentID != "" {
		where.add("s.id = $%d", filter.StudentID)
	}
	if filter.SectionID != "" {
		where.add("s.section_id = $%d", filter.SectionID)
	}
	if filter.GradeLevel != "" {
		where.add("s.grade_level = $%d", filter.GradeLevel)
	}
	where.band("s.grade_level", filter.Band)
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		where.add("(LOWER(s.first_name || ' ' || s.last_name) LIKE $%[1]d OR LOWER(s.student_number) LIKE $%[1]d)", pattern)
	}
	base := "FROM students s LEFT JOIN sections sec ON sec.id = s.section_id WHERE 1=1" + where.clause()

	allowedSorts := map[string]string{
		"last_name":      "s.last_name",
		"first_name":     "s.first_name",
		"student_number": "s.student_number",
		"grade_level":    "s.grade_level",
		"created_at":     "s.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "s.last_name"
	}
	order := sortOrder(filter.SortOrder, "ASC")
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, s.id ASC LIMIT %d OFFSET %d", studentDetailColumns, base, column, order, limit, offset)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM students s LEFT JOIN sections sec ON sec.id = s.section_id WHERE s.id = $1", studentDetailColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByStudentNumber fetches a student by school-issued number.
func (r *StudentRepository) FindByStudentNumber(ctx context.Context, number string) (*models.StudentDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM students s LEFT JOIN sections sec ON sec.id = s.section_id WHERE s.student_number = $1", studentDetailColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, number); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByStudentNumber checks if a student number is taken, optionally excluding an ID.
func (r *StudentRepository) ExistsByStudentNumber(ctx context.Context, number string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_number = $1"
	args := []interface{}{number}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student number: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, student_number, first_name, middle_name, last_name, date_of_birth, grade_level, homeroom_teacher, section_id, created_at, updated_at)
        VALUES (:id, :student_number, :first_name, :middle_name, :last_name, :date_of_birth, :grade_level, :homeroom_teacher, :section_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET student_number = :student_number, first_name = :first_name, middle_name = :middle_name,
        last_name = :last_name, date_of_birth = :date_of_birth, grade_level = :grade_level, homeroom_teacher = :homeroom_teacher,
        section_id = :section_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student. Grades, attendance, behavior reports, communications and
// subject enrollments cascade with it.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// StudentSubjectRepository persists student to subject links.
type StudentSubjectRepository struct {
	db *sqlx.DB
}

// NewStudentSubjectRepository constructs a StudentSubjectRepository.
func NewStudentSubjectRepository(db *sqlx.DB) *StudentSubjectRepository {
	return &StudentSubjectRepository{db: db}
}

// ListByStudent returns a student's subjects with names, in catalog order.
func (r *StudentSubjectRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubjectDetail, error) {
	const query = `SELECT ss.id, ss.student_id, ss.subject_id, ss.teacher_id, ss.section_id, ss.created_at,
        sub.name AS subject_name, sub.category, u.full_name AS teacher_name
        FROM student_subjects ss
        JOIN subjects sub ON sub.id = ss.subject_id
        LEFT JOIN users u ON u.id = ss.teacher_id
        WHERE ss.student_id = $1
        ORDER BY sub.category ASC, sub.name ASC, sub.id ASC`
	var links []models.StudentSubjectDetail
	if err := r.db.SelectContext(ctx, &links, query, studentID); err != nil {
		return nil, fmt.Errorf("list student subjects: %w", err)
	}
	return links, nil
}

// ListSubjectIDs returns the ids of subjects already linked to the student.
func (r *StudentSubjectRepository) ListSubjectIDs(ctx context.Context, studentID string) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT subject_id FROM student_subjects WHERE student_id = $1`, studentID); err != nil {
		return nil, fmt.Errorf("list student subject ids: %w", err)
	}
	return ids, nil
}

// InsertWithTx creates links inside the caller's transaction and reports how many rows
// were actually written. Rows violating the (student, subject) uniqueness are skipped.
func (r *StudentSubjectRepository) InsertWithTx(ctx context.Context, exec sqlx.ExtContext, links []models.StudentSubject) (int64, error) {
	if exec == nil {
		return 0, fmt.Errorf("nil executor provided")
	}
	const query = `INSERT INTO student_subjects (id, student_id, subject_id, teacher_id, section_id, created_at)
        VALUES (:id, :student_id, :subject_id, :teacher_id, :section_id, :created_at)
        ON CONFLICT (student_id, subject_id) DO NOTHING`
	now := time.Now().UTC()
	var inserted int64
	for i := range links {
		if links[i].ID == "" {
			links[i].ID = uuid.NewString()
		}
		if links[i].CreatedAt.IsZero() {
			links[i].CreatedAt = now
		}
		res, err := sqlx.NamedExecContext(ctx, exec, query, &links[i])
		if err != nil {
			return inserted, fmt.Errorf("insert student subject: %w", err)
		}
		if rows, err := res.RowsAffected(); err == nil {
			inserted += rows
		}
	}
	return inserted, nil
}

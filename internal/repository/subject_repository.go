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

const subjectColumns = `id, name, category, level_band, track, grade_min, grade_max, weight_ww, weight_pt, weight_qa,
        weekly_hours, teacher_id, created_at, updated_at`

// subjectCatalogOrder is the stable iteration order the allocator and enrollment rely on.
const subjectCatalogOrder = "level_band ASC, category ASC, track ASC NULLS FIRST, name ASC, id ASC"

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching filters with pagination metadata.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	where := &whereBuilder{}
	if filter.LevelBand != nil {
		where.add("level_band = $%d", *filter.LevelBand)
	}
	if filter.Track != "" {
		where.add("LOWER(track) = $%d", strings.ToLower(filter.Track))
	}
	if filter.Category != nil {
		where.add("category = $%d", *filter.Category)
	}
	if filter.Grade != nil {
		where.add("(grade_min IS NULL OR grade_min <= $%d)", *filter.Grade)
		where.add("(grade_max IS NULL OR grade_max >= $%d)", *filter.Grade)
	}
	if filter.Search != "" {
		where.add("LOWER(name) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}
	base := "FROM subjects WHERE 1=1" + where.clause()
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", subjectColumns, base, subjectCatalogOrder, limit, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// ListByBand returns the whole catalog of a band in catalog order.
func (r *SubjectRepository) ListByBand(ctx context.Context, band models.LevelBand) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE level_band = $1 ORDER BY %s", subjectColumns, subjectCatalogOrder)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, band); err != nil {
		return nil, fmt.Errorf("list subjects by band: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject by its ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByName checks whether a subject name is already used within a band.
func (r *SubjectRepository) ExistsByName(ctx context.Context, name string, band models.LevelBand, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE LOWER(name) = LOWER($1) AND level_band = $2"
	args := []interface{}{name, band}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject name: %w", err)
	}
	return true, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.create(ctx, r.db, subject)
}

// CreateWithTx inserts a subject using the caller's executor.
func (r *SubjectRepository) CreateWithTx(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	return r.create(ctx, exec, subject)
}

func (r *SubjectRepository) create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	const query = `INSERT INTO subjects (id, name, category, level_band, track, grade_min, grade_max, weight_ww, weight_pt, weight_qa, weekly_hours, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :category, :level_band, :track, :grade_min, :grade_max, :weight_ww, :weight_pt, :weight_qa, :weekly_hours, :teacher_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies an existing subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, category = :category, level_band = :level_band, track = :track,
        grade_min = :grade_min, grade_max = :grade_max, weight_ww = :weight_ww, weight_pt = :weight_pt, weight_qa = :weight_qa,
        weekly_hours = :weekly_hours, teacher_id = :teacher_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a subject by ID.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

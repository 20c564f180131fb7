package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// CommunicationRepository persists messages between staff and families.
type CommunicationRepository struct {
	db *sqlx.DB
}

// NewCommunicationRepository constructs a CommunicationRepository.
func NewCommunicationRepository(db *sqlx.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

// List returns messages newest first with the linked student's name.
func (r *CommunicationRepository) List(ctx context.Context, filter models.CommunicationFilter) ([]models.CommunicationDetail, int, error) {
	where := &whereBuilder{}
	if filter.StudentID != "" {
		where.add("c.student_id = $%d", filter.StudentID)
	}
	base := "FROM communications c LEFT JOIN students s ON s.id = c.student_id WHERE 1=1" + where.clause()
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT c.id, c.student_id, c.sender_name, c.sender_role, c.recipient, c.subject, c.message_body, c.created_at,
        CASE WHEN s.id IS NULL THEN NULL ELSE s.first_name || ' ' || s.last_name END AS student_name
        %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d`, base, limit, offset)
	var messages []models.CommunicationDetail
	if err := r.db.SelectContext(ctx, &messages, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list communications: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, where.args...); err != nil {
		return nil, 0, fmt.Errorf("count communications: %w", err)
	}
	return messages, total, nil
}

// Create inserts a message.
func (r *CommunicationRepository) Create(ctx context.Context, message *models.CommunicationMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO communications (id, student_id, sender_name, sender_role, recipient, subject, message_body, created_at)
        VALUES (:id, :student_id, :sender_name, :sender_role, :recipient, :subject, :message_body, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create communication: %w", err)
	}
	return nil
}

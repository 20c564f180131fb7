package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type communicationRepository interface {
	List(ctx context.Context, filter models.CommunicationFilter) ([]models.CommunicationDetail, int, error)
	Create(ctx context.Context, message *models.CommunicationMessage) error
}

// CommunicationRequest is the payload for posting a message.
type CommunicationRequest struct {
	StudentID   *string `json:"student_id"`
	Recipient   *string `json:"recipient" validate:"omitempty,max=100"`
	Subject     string  `json:"subject" validate:"required,max=200"`
	MessageBody string  `json:"message_body" validate:"required,max=5000"`
}

// CommunicationService posts and lists messages between staff and families.
type CommunicationService struct {
	repo      communicationRepository
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommunicationService constructs a CommunicationService.
func NewCommunicationService(repo communicationRepository, students studentReader, validate *validator.Validate, logger *zap.Logger) *CommunicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &CommunicationService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns messages newest first. Parents only see messages about their child.
func (s *CommunicationService) List(ctx context.Context, filter models.CommunicationFilter, actor *models.JWTClaims) ([]models.CommunicationDetail, *models.Pagination, error) {
	if child, ok := actor.ChildScope(); ok {
		if child == "" || (filter.StudentID != "" && filter.StudentID != child) {
			return []models.CommunicationDetail{}, newPagination(filter.Page, filter.PageSize, 0), nil
		}
		filter.StudentID = child
	}
	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list communications")
	}
	if messages == nil {
		messages = []models.CommunicationDetail{}
	}
	return messages, newPagination(filter.Page, filter.PageSize, total), nil
}

// Create posts a message signed with the actor's name and role.
func (s *CommunicationService) Create(ctx context.Context, req CommunicationRequest, actor *models.JWTClaims) (*models.CommunicationMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid communication payload")
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	studentID := trimmedOrNil(req.StudentID)
	if child, ok := actor.ChildScope(); ok {
		if studentID == nil {
			studentID = &child
		}
	}
	if studentID != nil {
		if _, err := requireStudent(ctx, s.students, *studentID, actor); err != nil {
			return nil, err
		}
	}

	sender := strings.TrimSpace(actor.FullName)
	if sender == "" {
		sender = actor.Username
	}
	message := &models.CommunicationMessage{
		StudentID:   studentID,
		SenderName:  sender,
		SenderRole:  string(actor.Role),
		Recipient:   trimmedOrNil(req.Recipient),
		Subject:     strings.TrimSpace(req.Subject),
		MessageBody: strings.TrimSpace(req.MessageBody),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to post communication")
	}
	return message, nil
}

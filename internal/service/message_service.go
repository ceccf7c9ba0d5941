package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

const senderAdmin = "ADMIN"

type messageRepository interface {
	ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationMessage, error)
	Create(ctx context.Context, msg *models.ApplicationMessage) error
}

type applicationReader interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
}

type staffLister interface {
	ListByRoles(ctx context.Context, roles []models.Role) ([]models.User, error)
}

// PostMessageRequest is one entry to append to a conversation thread.
type PostMessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// MessageService manages per-application conversation threads and the
// notification fan-out they trigger.
type MessageService struct {
	repo          messageRepository
	applications  applicationReader
	users         staffLister
	notifications notificationWriter
	logger        *zap.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, applications applicationReader, users staffLister, notifications notificationWriter, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		repo:          repo,
		applications:  applications,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// List returns a thread ordered oldest first.
func (s *MessageService) List(ctx context.Context, applicationID string) ([]models.ApplicationMessage, error) {
	messages, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	if messages == nil {
		messages = []models.ApplicationMessage{}
	}
	return messages, nil
}

// Post appends a message to the thread. An ADMIN message notifies the
// application owner; any other sender notifies every ADMIN/USER account
// except the owner.
func (s *MessageService) Post(ctx context.Context, applicationID string, req PostMessageRequest) (*models.ApplicationMessage, error) {
	if req.Sender == "" || req.Message == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sender and message required")
	}

	msg := &models.ApplicationMessage{
		ApplicationID: applicationID,
		Sender:        req.Sender,
		Message:       req.Message,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create message")
	}

	if err := s.dispatch(ctx, applicationID, req); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) dispatch(ctx context.Context, applicationID string, req PostMessageRequest) error {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	link := "/applications/" + applicationID

	if req.Sender == senderAdmin {
		if app.UserID == nil {
			return nil
		}
		n := &models.Notification{
			UserID:    *app.UserID,
			Title:     "رسالة جديدة",
			Message:   "أدمن: " + truncateMessage(req.Message),
			Link:      link,
			CreatedAt: now,
			Type:      models.NotificationMessage,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
		}
		return nil
	}

	staff, err := s.users.ListByRoles(ctx, []models.Role{models.RoleAdmin, models.RoleUser})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recipients")
	}
	for i := range staff {
		if app.UserID != nil && staff[i].ID == *app.UserID {
			continue
		}
		n := &models.Notification{
			UserID:    staff[i].ID,
			Title:     "رسالة جديدة",
			Message:   "طلب #" + applicationID + ": " + truncateMessage(req.Message),
			Link:      link,
			CreatedAt: now,
			Type:      models.NotificationMessage,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
		}
	}
	return nil
}

// truncateMessage takes the first 50 characters and always appends "...".
// Shorter messages still get the suffix; callers depend on that shape.
func truncateMessage(message string) string {
	runes := []rune(message)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes) + "..."
}

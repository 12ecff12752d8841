package service

import (
	"context"
	"errors"

	"lineup/internal/cache"
	"lineup/internal/models"
	"lineup/internal/observability"
	"lineup/internal/repository"

	"gorm.io/gorm"
)

// NotificationService provides notification business logic.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// CreateNotificationInput is the input for creating a notification.
type CreateNotificationInput struct {
	RecipientID string
	ActorID     *string
	Type        string
	Message     string
	TargetID    *string
	TargetType  *string
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// CreateNotification stores a notification for the recipient.
func (s *NotificationService) CreateNotification(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: in.RecipientID,
		ActorID:     in.ActorID,
		Type:        in.Type,
		Message:     in.Message,
		TargetID:    in.TargetID,
		TargetType:  in.TargetType,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	observability.NotificationsCreated.WithLabelValues(in.Type).Inc()
	cache.InvalidateNotifications(ctx, in.RecipientID)
	return notification, nil
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, recipientID string, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

// SetRead writes the read state. Marking an already-read notification read is
// a successful no-op. Only the recipient may change the state.
func (s *NotificationService) SetRead(ctx context.Context, notificationID, requesterID string, isRead bool) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Notification not found")
	}
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != requesterID {
		return nil, models.NewForbiddenError("Only the recipient can update this notification")
	}

	if err := s.notificationRepo.SetRead(ctx, notificationID, isRead); err != nil {
		return nil, err
	}
	notification.IsRead = isRead
	cache.InvalidateNotifications(ctx, requesterID)
	return notification, nil
}

// CountUnread returns the recipient's unread notification count.
func (s *NotificationService) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

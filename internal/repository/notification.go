package repository

import (
	"context"

	"lineup/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data operations.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	SetRead(ctx context.Context, id string, isRead bool) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// SetRead writes the given read state unconditionally, so marking an
// already-read notification read again succeeds.
func (r *notificationRepository) SetRead(ctx context.Context, id string, isRead bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", isRead).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("recipient_id = ?", recipientID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&notifications).Error
	})
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Notification{}).
			Where("recipient_id = ? AND is_read = ?", recipientID, false).
			Count(&count).Error
	})
	return count, err
}

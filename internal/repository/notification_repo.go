package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillgate/skillgate-api/internal/models"
)

// NotificationRepository defines persistence for reviewer notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.ReviewerNotification) error
	List(ctx context.Context, limit, offset int) ([]models.ReviewerNotification, error)
	MarkRead(ctx context.Context, id uint) (models.ReviewerNotification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.ReviewerNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) List(ctx context.Context, limit, offset int) ([]models.ReviewerNotification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []models.ReviewerNotification
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) (models.ReviewerNotification, error) {
	var notification models.ReviewerNotification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return models.ReviewerNotification{}, err
	}

	if notification.Read {
		return notification, nil
	}

	notification.Read = true
	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return models.ReviewerNotification{}, err
	}

	return notification, nil
}

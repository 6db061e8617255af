package services

import (
	"context"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"gorm.io/gorm"
)

const notificationPageSize = 50

const EventNotification = "notification"

type NotificationService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewNotificationService(db *gorm.DB, notifier Notifier) *NotificationService {
	return &NotificationService{db: db, notifier: notifierOrNop(notifier)}
}

// Create stores a notification and pushes it to the user's socket room.
// A failed push is not an error.
func (s *NotificationService) Create(ctx context.Context, userID string, kind models.NotificationType, title, message string) (*models.Notification, error) {
	n := models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, apperrors.FromDB(err, "notification")
	}
	s.notifier.NotifyUser(userID, EventNotification, n)
	return &n, nil
}

// notify is Create for side effects of other operations; failures are
// logged only.
func (s *NotificationService) notify(ctx context.Context, userID string, kind models.NotificationType, title, message string) {
	if _, err := s.Create(ctx, userID, kind, title, message); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Str("type", string(kind)).Msg("Failed to create notification")
	}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(notificationPageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "notification")
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.FromDB(err, "notification")
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).Where("id = ?", notificationID).First(&n).Error; err != nil {
		return apperrors.FromDB(err, "notification")
	}
	if n.UserID != userID {
		return apperrors.Forbidden("Not your notification")
	}
	if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return apperrors.FromDB(err, "notification")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.FromDB(result.Error, "notification")
	}
	return result.RowsAffected, nil
}

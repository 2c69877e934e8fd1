package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type NotificationRepository interface {
	Create(ctx context.Context, data *entity.Notification) error
	CreateMany(ctx context.Context, data []*entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	GetList(ctx context.Context, userID string, offset, limit int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, data *entity.Notification) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *notificationRepository) CreateMany(
	ctx context.Context, data []*entity.Notification,
) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).CreateInBatches(data, 100).Error
}

func (r *notificationRepository) GetByID(
	ctx context.Context, id string,
) (*entity.Notification, error) {
	var record entity.Notification
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *notificationRepository) GetList(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Notification, error) {
	var records []entity.Notification
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("id=?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Notification{}, "user_id=?", userID).Error
}

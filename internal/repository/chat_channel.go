package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type ChatChannelRepository interface {
	Create(ctx context.Context, data *entity.ChatChannel) error
	GetByID(ctx context.Context, id int64) (*entity.ChatChannel, error)
	GetByDirectKey(ctx context.Context, key string) (*entity.ChatChannel, error)
	GetByGroupID(ctx context.Context, groupID string) (*entity.ChatChannel, error)
	GetDirectChannelsOfUser(ctx context.Context, userID string) ([]entity.ChatChannel, error)
	SetLastMessage(ctx context.Context, id, messageID int64) error
	DeleteByGroupID(ctx context.Context, groupID string) error
	DeleteDirectChannelsOfUser(ctx context.Context, userID string) error
}

type chatChannelRepository struct{}

func NewChatChannelRepository() *chatChannelRepository {
	return &chatChannelRepository{}
}

func (r *chatChannelRepository) Create(ctx context.Context, data *entity.ChatChannel) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *chatChannelRepository) GetByID(ctx context.Context, id int64) (*entity.ChatChannel, error) {
	var record entity.ChatChannel
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *chatChannelRepository) GetByDirectKey(
	ctx context.Context, key string,
) (*entity.ChatChannel, error) {
	var record entity.ChatChannel
	if err := xcontext.DB(ctx).Where("direct_key=?", key).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *chatChannelRepository) GetByGroupID(
	ctx context.Context, groupID string,
) (*entity.ChatChannel, error) {
	var record entity.ChatChannel
	if err := xcontext.DB(ctx).Where("group_id=?", groupID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *chatChannelRepository) GetDirectChannelsOfUser(
	ctx context.Context, userID string,
) ([]entity.ChatChannel, error) {
	var records []entity.ChatChannel
	err := xcontext.DB(ctx).
		Where("user_a_id=? OR user_b_id=?", userID, userID).
		Order("last_message_id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// SetLastMessage only moves the pointer forward. Out of order deliveries keep
// the newest snowflake.
func (r *chatChannelRepository) SetLastMessage(ctx context.Context, id, messageID int64) error {
	return xcontext.DB(ctx).Model(&entity.ChatChannel{}).
		Where("id=? AND last_message_id < ?", id, messageID).
		Update("last_message_id", messageID).Error
}

func (r *chatChannelRepository) DeleteByGroupID(ctx context.Context, groupID string) error {
	return xcontext.DB(ctx).Delete(&entity.ChatChannel{}, "group_id=?", groupID).Error
}

func (r *chatChannelRepository) DeleteDirectChannelsOfUser(
	ctx context.Context, userID string,
) error {
	return xcontext.DB(ctx).
		Delete(&entity.ChatChannel{}, "user_a_id=? OR user_b_id=?", userID, userID).Error
}

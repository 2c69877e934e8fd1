package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type FriendshipRepository interface {
	Create(ctx context.Context, data *entity.Friendship) error
	GetByID(ctx context.Context, id string) (*entity.Friendship, error)
	GetByPair(ctx context.Context, userA, userB string) (*entity.Friendship, error)
	GetFriends(ctx context.Context, userID string) ([]entity.Friendship, error)
	GetPendingToUser(ctx context.Context, userID string) ([]entity.Friendship, error)
	GetPendingFromUser(ctx context.Context, userID string) ([]entity.Friendship, error)
	CountFriends(ctx context.Context, userID string) (int64, error)
	UpdateStatus(ctx context.Context, id string, status entity.FriendshipStatus) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type friendshipRepository struct{}

func NewFriendshipRepository() *friendshipRepository {
	return &friendshipRepository{}
}

func (r *friendshipRepository) Create(ctx context.Context, data *entity.Friendship) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *friendshipRepository) GetByID(ctx context.Context, id string) (*entity.Friendship, error) {
	var record entity.Friendship
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByPair looks the pair up in both directions. At most one row exists for
// any two users.
func (r *friendshipRepository) GetByPair(
	ctx context.Context, userA, userB string,
) (*entity.Friendship, error) {
	var record entity.Friendship
	err := xcontext.DB(ctx).
		Where("(requester_id=? AND target_id=?) OR (requester_id=? AND target_id=?)",
			userA, userB, userB, userA).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *friendshipRepository) GetFriends(
	ctx context.Context, userID string,
) ([]entity.Friendship, error) {
	var records []entity.Friendship
	err := xcontext.DB(ctx).
		Where("(requester_id=? OR target_id=?) AND status=?",
			userID, userID, entity.FriendshipAccepted).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendshipRepository) GetPendingToUser(
	ctx context.Context, userID string,
) ([]entity.Friendship, error) {
	var records []entity.Friendship
	err := xcontext.DB(ctx).
		Where("target_id=? AND status=?", userID, entity.FriendshipPending).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendshipRepository) GetPendingFromUser(
	ctx context.Context, userID string,
) ([]entity.Friendship, error) {
	var records []entity.Friendship
	err := xcontext.DB(ctx).
		Where("requester_id=? AND status=?", userID, entity.FriendshipPending).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendshipRepository) CountFriends(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Friendship{}).
		Where("(requester_id=? OR target_id=?) AND status=?",
			userID, userID, entity.FriendshipAccepted).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *friendshipRepository) UpdateStatus(
	ctx context.Context, id string, status entity.FriendshipStatus,
) error {
	return xcontext.DB(ctx).Model(&entity.Friendship{}).
		Where("id=?", id).
		Update("status", status).Error
}

func (r *friendshipRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Friendship{}, "id=?", id).Error
}

func (r *friendshipRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().
		Delete(&entity.Friendship{}, "requester_id=? OR target_id=?", userID, userID).Error
}

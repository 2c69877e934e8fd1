package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type GroupMemberRepository interface {
	Create(ctx context.Context, data *entity.GroupMember) error
	Get(ctx context.Context, groupID, userID string) (*entity.GroupMember, error)
	GetMembers(ctx context.Context, groupID string) ([]entity.GroupMember, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.GroupMember, error)
	UpdateRole(ctx context.Context, groupID, userID string, role entity.GroupRole) error
	Count(ctx context.Context, groupID string) (int64, error)
	Delete(ctx context.Context, groupID, userID string) error
	DeleteByGroupID(ctx context.Context, groupID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type groupMemberRepository struct{}

func NewGroupMemberRepository() *groupMemberRepository {
	return &groupMemberRepository{}
}

func (r *groupMemberRepository) Create(ctx context.Context, data *entity.GroupMember) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *groupMemberRepository) Get(
	ctx context.Context, groupID, userID string,
) (*entity.GroupMember, error) {
	var record entity.GroupMember
	err := xcontext.DB(ctx).
		Where("group_id=? AND user_id=?", groupID, userID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *groupMemberRepository) GetMembers(
	ctx context.Context, groupID string,
) ([]entity.GroupMember, error) {
	var records []entity.GroupMember
	err := xcontext.DB(ctx).
		Where("group_id=?", groupID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *groupMemberRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.GroupMember, error) {
	var records []entity.GroupMember
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *groupMemberRepository) UpdateRole(
	ctx context.Context, groupID, userID string, role entity.GroupRole,
) error {
	return xcontext.DB(ctx).Model(&entity.GroupMember{}).
		Where("group_id=? AND user_id=?", groupID, userID).
		Update("role", role).Error
}

func (r *groupMemberRepository) Count(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.GroupMember{}).
		Where("group_id=?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *groupMemberRepository) Delete(ctx context.Context, groupID, userID string) error {
	return xcontext.DB(ctx).
		Delete(&entity.GroupMember{}, "group_id=? AND user_id=?", groupID, userID).Error
}

func (r *groupMemberRepository) DeleteByGroupID(ctx context.Context, groupID string) error {
	return xcontext.DB(ctx).Delete(&entity.GroupMember{}, "group_id=?", groupID).Error
}

func (r *groupMemberRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.GroupMember{}, "user_id=?", userID).Error
}

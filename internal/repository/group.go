package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type GroupRepository interface {
	Create(ctx context.Context, data *entity.Group) error
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.Group, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Group, error)
	GetPublicPaged(ctx context.Context, offset, limit int) ([]entity.Group, error)
	GetAll(ctx context.Context) ([]entity.Group, error)
	UpdateTrendingScore(ctx context.Context, id string, score float64) error
	TransferOwner(ctx context.Context, id, newOwnerID string) error
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type groupRepository struct{}

func NewGroupRepository() *groupRepository {
	return &groupRepository{}
}

func (r *groupRepository) Create(ctx context.Context, data *entity.Group) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *groupRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.Group{}).
		Where("id=?", id).
		Updates(data).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	var record entity.Group
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *groupRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Group, error) {
	var records []entity.Group
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *groupRepository) GetByInviteCode(ctx context.Context, code string) (*entity.Group, error) {
	var record entity.Group
	if err := xcontext.DB(ctx).Where("invite_code=?", code).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *groupRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Group, error) {
	var records []entity.Group
	if err := xcontext.DB(ctx).Where("owner_id=?", ownerID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *groupRepository) GetPublicPaged(
	ctx context.Context, offset, limit int,
) ([]entity.Group, error) {
	var records []entity.Group
	err := xcontext.DB(ctx).
		Where("is_private=?", false).
		Order("trending_score DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *groupRepository) GetAll(ctx context.Context) ([]entity.Group, error) {
	var records []entity.Group
	if err := xcontext.DB(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *groupRepository) UpdateTrendingScore(ctx context.Context, id string, score float64) error {
	return xcontext.DB(ctx).Model(&entity.Group{}).
		Where("id=?", id).
		Update("trending_score", score).Error
}

func (r *groupRepository) TransferOwner(ctx context.Context, id, newOwnerID string) error {
	return xcontext.DB(ctx).Model(&entity.Group{}).
		Where("id=?", id).
		Update("owner_id", newOwnerID).Error
}

func (r *groupRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Group{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *groupRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Group{}, "id=?", id).Error
}

package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type GoalRepository interface {
	Create(ctx context.Context, data *entity.Goal) error
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	GetByID(ctx context.Context, id string) (*entity.Goal, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Goal, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type goalRepository struct{}

func NewGoalRepository() *goalRepository {
	return &goalRepository{}
}

func (r *goalRepository) Create(ctx context.Context, data *entity.Goal) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *goalRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.Goal{}).
		Where("id=?", id).
		Updates(data).Error
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*entity.Goal, error) {
	var record entity.Goal
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *goalRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Goal, error) {
	var records []entity.Goal
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("target_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *goalRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Goal{}, "id=?", id).Error
}

func (r *goalRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Goal{}, "user_id=?", userID).Error
}

package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type ProjectRepository interface {
	Create(ctx context.Context, data *entity.Project) error
	UpdateByID(ctx context.Context, id string, data *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Project, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type projectRepository struct{}

func NewProjectRepository() *projectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Create(ctx context.Context, data *entity.Project) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *projectRepository) UpdateByID(ctx context.Context, id string, data *entity.Project) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.Color != "" {
		updateMap["color"] = data.Color
	}

	return xcontext.DB(ctx).Model(&entity.Project{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var record entity.Project
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *projectRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Project, error) {
	var records []entity.Project
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *projectRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Project{}, "id=?", id).Error
}

func (r *projectRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Project{}, "user_id=?", userID).Error
}

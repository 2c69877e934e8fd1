package repository

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type FileRepository interface {
	Create(ctx context.Context, data *entity.File) error
	BulkInsert(ctx context.Context, data []*entity.File) error
	GetByID(ctx context.Context, id string) (*entity.File, error)
	DeleteByCreator(ctx context.Context, userID string) error
}

type fileRepository struct{}

func NewFileRepository() *fileRepository {
	return &fileRepository{}
}

func (r *fileRepository) Create(ctx context.Context, data *entity.File) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *fileRepository) BulkInsert(ctx context.Context, data []*entity.File) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(data).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*entity.File, error) {
	var record entity.File
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *fileRepository) DeleteByCreator(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.File{}, "created_by=?", userID).Error
}

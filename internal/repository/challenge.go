package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type ChallengeRepository interface {
	Create(ctx context.Context, data *entity.Challenge) error
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Challenge, error)
	GetActive(ctx context.Context, now time.Time) ([]entity.Challenge, error)
	GetEnded(ctx context.Context, now time.Time) ([]entity.Challenge, error)
	SetActive(ctx context.Context, id string, isActive bool) error
	DeleteByID(ctx context.Context, id string) error
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, data *entity.Challenge) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *challengeRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("id=?", id).
		Updates(data).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var record entity.Challenge
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *challengeRepository) GetList(
	ctx context.Context, offset, limit int,
) ([]entity.Challenge, error) {
	var records []entity.Challenge
	err := xcontext.DB(ctx).
		Order("start_date DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *challengeRepository) GetActive(
	ctx context.Context, now time.Time,
) ([]entity.Challenge, error) {
	var records []entity.Challenge
	err := xcontext.DB(ctx).
		Where("is_active=? AND start_date <= ? AND end_date >= ?", true, now, now).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetEnded returns challenges still flagged active whose window has passed,
// so the closing sweep can settle them exactly once.
func (r *challengeRepository) GetEnded(
	ctx context.Context, now time.Time,
) ([]entity.Challenge, error) {
	var records []entity.Challenge
	err := xcontext.DB(ctx).
		Where("is_active=? AND end_date < ?", true, now).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *challengeRepository) SetActive(ctx context.Context, id string, isActive bool) error {
	return xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("id=?", id).
		Update("is_active", isActive).Error
}

func (r *challengeRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Challenge{}, "id=?", id).Error
}

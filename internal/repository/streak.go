package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type StreakRepository interface {
	Upsert(ctx context.Context, data *entity.Streak) error
	Get(ctx context.Context, userID string, streakType entity.StreakType) (*entity.Streak, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Streak, error)
	GetAllByType(ctx context.Context, streakType entity.StreakType) ([]entity.Streak, error)
	ResetIdle(ctx context.Context, streakType entity.StreakType, activeSince time.Time) (int64, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type streakRepository struct{}

func NewStreakRepository() *streakRepository {
	return &streakRepository{}
}

func (r *streakRepository) Upsert(ctx context.Context, data *entity.Streak) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "type"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"current_count":      data.CurrentCount,
				"longest_count":      data.LongestCount,
				"last_activity_date": data.LastActivityDate,
			}),
		}).Create(data).Error
}

func (r *streakRepository) Get(
	ctx context.Context, userID string, streakType entity.StreakType,
) (*entity.Streak, error) {
	var record entity.Streak
	err := xcontext.DB(ctx).
		Where("user_id=? AND type=?", userID, streakType).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *streakRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Streak, error) {
	var records []entity.Streak
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *streakRepository) GetAllByType(
	ctx context.Context, streakType entity.StreakType,
) ([]entity.Streak, error) {
	var records []entity.Streak
	err := xcontext.DB(ctx).
		Where("type=? AND current_count > 0", streakType).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ResetIdle zeroes every running streak whose last activity is older than
// activeSince. Longest counts are kept.
func (r *streakRepository) ResetIdle(
	ctx context.Context, streakType entity.StreakType, activeSince time.Time,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Streak{}).
		Where("type=? AND current_count > 0 AND last_activity_date < ?", streakType, activeSince).
		Update("current_count", 0)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *streakRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.Streak{}, "user_id=?", userID).Error
}

package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

// UserHours is one aggregate row: total logged hours of one user inside a
// window.
type UserHours struct {
	UserID string
	Hours  float64
}

type DailyLogFilter struct {
	UserID string
	Start  time.Time
	End    time.Time
}

type DailyLogRepository interface {
	Create(ctx context.Context, data *entity.DailyLog) error
	UpdateByID(ctx context.Context, id string, hours float64, description string) error
	GetByID(ctx context.Context, id string) (*entity.DailyLog, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*entity.DailyLog, error)
	GetList(ctx context.Context, filter DailyLogFilter) ([]entity.DailyLog, error)
	Count(ctx context.Context, userID string) (int64, error)
	CountDays(ctx context.Context, filter DailyLogFilter) (int64, error)
	SumHours(ctx context.Context, filter DailyLogFilter) (float64, error)
	SumHoursPerUser(ctx context.Context, start, end time.Time) ([]UserHours, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type dailyLogRepository struct{}

func NewDailyLogRepository() *dailyLogRepository {
	return &dailyLogRepository{}
}

func (r *dailyLogRepository) Create(ctx context.Context, data *entity.DailyLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *dailyLogRepository) UpdateByID(
	ctx context.Context, id string, hours float64, description string,
) error {
	return xcontext.DB(ctx).Model(&entity.DailyLog{}).
		Where("id=?", id).
		Updates(map[string]any{"hours": hours, "description": description}).Error
}

func (r *dailyLogRepository) GetByID(ctx context.Context, id string) (*entity.DailyLog, error) {
	var record entity.DailyLog
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *dailyLogRepository) GetByUserAndDate(
	ctx context.Context, userID string, date time.Time,
) (*entity.DailyLog, error) {
	var record entity.DailyLog
	err := xcontext.DB(ctx).
		Where("user_id=? AND date=?", userID, date).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *dailyLogRepository) GetList(
	ctx context.Context, filter DailyLogFilter,
) ([]entity.DailyLog, error) {
	var records []entity.DailyLog
	if err := applyDailyLogFilter(ctx, filter).Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *dailyLogRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.DailyLog{}).
		Where("user_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *dailyLogRepository) CountDays(ctx context.Context, filter DailyLogFilter) (int64, error) {
	var count int64
	if err := applyDailyLogFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *dailyLogRepository) SumHours(ctx context.Context, filter DailyLogFilter) (float64, error) {
	var total *float64
	err := applyDailyLogFilter(ctx, filter).
		Select("SUM(hours)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	if total == nil {
		return 0, nil
	}

	return *total, nil
}

func (r *dailyLogRepository) SumHoursPerUser(
	ctx context.Context, start, end time.Time,
) ([]UserHours, error) {
	var rows []UserHours
	err := applyDailyLogFilter(ctx, DailyLogFilter{Start: start, End: end}).
		Select("user_id, SUM(hours) as hours").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *dailyLogRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.DailyLog{}, "id=?", id).Error
}

func (r *dailyLogRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.DailyLog{}, "user_id=?", userID).Error
}

func applyDailyLogFilter(ctx context.Context, filter DailyLogFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.DailyLog{})
	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if !filter.Start.IsZero() {
		tx = tx.Where("date >= ?", filter.Start)
	}

	if !filter.End.IsZero() {
		tx = tx.Where("date < ?", filter.End)
	}

	return tx
}

package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type HabitRepository interface {
	Create(ctx context.Context, data *entity.Habit) error
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	SetArchived(ctx context.Context, id string, isArchived bool) error
	GetByID(ctx context.Context, id string) (*entity.Habit, error)
	GetByUserID(ctx context.Context, userID string, includeArchived bool) ([]entity.Habit, error)
	Count(ctx context.Context, userID string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error

	CreateCompletion(ctx context.Context, data *entity.HabitCompletion) error
	GetCompletion(ctx context.Context, habitID string, date time.Time) (*entity.HabitCompletion, error)
	GetCompletions(ctx context.Context, userID string, start, end time.Time) ([]entity.HabitCompletion, error)
	CountCompletions(ctx context.Context, habitID string, start, end time.Time) (int64, error)
	CountCompletionsOnDate(ctx context.Context, userID string, date time.Time) (int64, error)
	DeleteCompletion(ctx context.Context, habitID string, date time.Time) error
	DeleteCompletionsByHabit(ctx context.Context, habitID string) error
	DeleteCompletionsByUserID(ctx context.Context, userID string) error
}

type habitRepository struct{}

func NewHabitRepository() *habitRepository {
	return &habitRepository{}
}

func (r *habitRepository) Create(ctx context.Context, data *entity.Habit) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *habitRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.Habit{}).
		Where("id=?", id).
		Updates(data).Error
}

func (r *habitRepository) SetArchived(ctx context.Context, id string, isArchived bool) error {
	return xcontext.DB(ctx).Model(&entity.Habit{}).
		Where("id=?", id).
		Update("is_archived", isArchived).Error
}

func (r *habitRepository) GetByID(ctx context.Context, id string) (*entity.Habit, error) {
	var record entity.Habit
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *habitRepository) GetByUserID(
	ctx context.Context, userID string, includeArchived bool,
) ([]entity.Habit, error) {
	tx := xcontext.DB(ctx).Where("user_id=?", userID)
	if !includeArchived {
		tx = tx.Where("is_archived=?", false)
	}

	var records []entity.Habit
	if err := tx.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *habitRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Habit{}).
		Where("user_id=? AND is_archived=?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *habitRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Habit{}, "id=?", id).Error
}

func (r *habitRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Habit{}, "user_id=?", userID).Error
}

func (r *habitRepository) CreateCompletion(ctx context.Context, data *entity.HabitCompletion) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *habitRepository) GetCompletion(
	ctx context.Context, habitID string, date time.Time,
) (*entity.HabitCompletion, error) {
	var record entity.HabitCompletion
	err := xcontext.DB(ctx).
		Where("habit_id=? AND date=?", habitID, date).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *habitRepository) GetCompletions(
	ctx context.Context, userID string, start, end time.Time,
) ([]entity.HabitCompletion, error) {
	tx := xcontext.DB(ctx).Where("user_id=?", userID)
	if !start.IsZero() {
		tx = tx.Where("date >= ?", start)
	}

	if !end.IsZero() {
		tx = tx.Where("date < ?", end)
	}

	var records []entity.HabitCompletion
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *habitRepository) CountCompletions(
	ctx context.Context, habitID string, start, end time.Time,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.HabitCompletion{}).Where("habit_id=?", habitID)
	if !start.IsZero() {
		tx = tx.Where("date >= ?", start)
	}

	if !end.IsZero() {
		tx = tx.Where("date < ?", end)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *habitRepository) CountCompletionsOnDate(
	ctx context.Context, userID string, date time.Time,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.HabitCompletion{}).
		Where("user_id=? AND date=?", userID, date).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *habitRepository) DeleteCompletion(
	ctx context.Context, habitID string, date time.Time,
) error {
	return xcontext.DB(ctx).
		Delete(&entity.HabitCompletion{}, "habit_id=? AND date=?", habitID, date).Error
}

func (r *habitRepository) DeleteCompletionsByHabit(ctx context.Context, habitID string) error {
	return xcontext.DB(ctx).Delete(&entity.HabitCompletion{}, "habit_id=?", habitID).Error
}

func (r *habitRepository) DeleteCompletionsByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.HabitCompletion{}, "user_id=?", userID).Error
}

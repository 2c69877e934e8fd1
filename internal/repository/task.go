package repository

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

// ProjectDayHours is one aggregate row: hours of one project on one day,
// carrying the project color so callers can blend day colors directly.
type ProjectDayHours struct {
	Date  time.Time
	Color string
	Hours float64
}

type TaskFilter struct {
	UserID      string
	ProjectID   string
	Start       time.Time
	End         time.Time
	IsCompleted *bool
}

type TaskRepository interface {
	Create(ctx context.Context, data *entity.Task) error
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	SetCompleted(ctx context.Context, id string, isCompleted bool) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	GetList(ctx context.Context, filter TaskFilter) ([]entity.Task, error)
	ProjectHoursByDay(ctx context.Context, userID string, start, end time.Time) ([]ProjectDayHours, error)
	CountCompleted(ctx context.Context, userID string) (int64, error)
	ClearProject(ctx context.Context, projectID string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type taskRepository struct{}

func NewTaskRepository() *taskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, data *entity.Task) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *taskRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.Task{}).
		Where("id=?", id).
		Updates(data).Error
}

func (r *taskRepository) SetCompleted(ctx context.Context, id string, isCompleted bool) error {
	return xcontext.DB(ctx).Model(&entity.Task{}).
		Where("id=?", id).
		Update("is_completed", isCompleted).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	var record entity.Task
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *taskRepository) GetList(ctx context.Context, filter TaskFilter) ([]entity.Task, error) {
	tx := xcontext.DB(ctx).Model(&entity.Task{})
	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.ProjectID != "" {
		tx = tx.Where("project_id=?", filter.ProjectID)
	}

	if !filter.Start.IsZero() {
		tx = tx.Where("date >= ?", filter.Start)
	}

	if !filter.End.IsZero() {
		tx = tx.Where("date < ?", filter.End)
	}

	if filter.IsCompleted != nil {
		tx = tx.Where("is_completed=?", *filter.IsCompleted)
	}

	var records []entity.Task
	if err := tx.Order("date DESC, created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// ProjectHoursByDay sums completed task hours per (day, project) inside the
// window. Tasks without a project fall back to the default color so they
// still pull the blend toward neutral.
func (r *taskRepository) ProjectHoursByDay(
	ctx context.Context, userID string, start, end time.Time,
) ([]ProjectDayHours, error) {
	var rows []ProjectDayHours
	err := xcontext.DB(ctx).Model(&entity.Task{}).
		Select("tasks.date as date, COALESCE(projects.color, ?) as color, SUM(tasks.hours) as hours",
			entity.DefaultProjectColor).
		Joins("LEFT JOIN projects ON projects.id=tasks.project_id").
		Where("tasks.user_id=? AND tasks.is_completed=?", userID, true).
		Where("tasks.date >= ? AND tasks.date < ?", start, end).
		Group("tasks.date, projects.color").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *taskRepository) CountCompleted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Task{}).
		Where("user_id=? AND is_completed=?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *taskRepository) ClearProject(ctx context.Context, projectID string) error {
	return xcontext.DB(ctx).Model(&entity.Task{}).
		Where("project_id=?", projectID).
		Update("project_id", gorm.Expr("NULL")).Error
}

func (r *taskRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Task{}, "id=?", id).Error
}

func (r *taskRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Task{}, "user_id=?", userID).Error
}

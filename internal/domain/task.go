package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskDomain interface {
	Create(context.Context, *model.CreateTaskRequest) (*model.CreateTaskResponse, error)
	Update(context.Context, *model.UpdateTaskRequest) (*model.UpdateTaskResponse, error)
	Delete(context.Context, *model.DeleteTaskRequest) (*model.DeleteTaskResponse, error)
	GetList(context.Context, *model.GetTasksRequest) (*model.GetTasksResponse, error)
}

type taskDomain struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

func NewTaskDomain(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) *taskDomain {
	return &taskDomain{taskRepo: taskRepo, projectRepo: projectRepo}
}

func (d *taskDomain) Create(
	ctx context.Context, req *model.CreateTaskRequest,
) (*model.CreateTaskResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
	}

	userID := xcontext.RequestUserID(ctx)
	projectID, err := d.verifyProject(ctx, userID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	task := &entity.Task{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    userID,
		ProjectID: projectID,
		Date:      date,
		Title:     req.Title,
		Hours:     req.Hours,
	}

	if err := d.taskRepo.Create(ctx, task); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create task: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTaskResponse{Task: model.ConvertTask(task)}, nil
}

func (d *taskDomain) Update(
	ctx context.Context, req *model.UpdateTaskRequest,
) (*model.UpdateTaskResponse, error) {
	task, err := d.getOwnedTask(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	projectID, err := d.verifyProject(ctx, task.UserID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	updated := map[string]any{
		"project_id":   projectID,
		"hours":        req.Hours,
		"is_completed": req.IsCompleted,
	}
	if req.Title != "" {
		updated["title"] = req.Title
	}

	if err := d.taskRepo.UpdateByID(ctx, req.ID, updated); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update task: %v", err)
		return nil, errorx.Unknown
	}

	task, err = d.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get task after update: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateTaskResponse{Task: model.ConvertTask(task)}, nil
}

func (d *taskDomain) Delete(
	ctx context.Context, req *model.DeleteTaskRequest,
) (*model.DeleteTaskResponse, error) {
	if _, err := d.getOwnedTask(ctx, req.ID); err != nil {
		return nil, err
	}

	if err := d.taskRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete task: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteTaskResponse{}, nil
}

func (d *taskDomain) GetList(
	ctx context.Context, req *model.GetTasksRequest,
) (*model.GetTasksResponse, error) {
	filter := repository.TaskFilter{UserID: xcontext.RequestUserID(ctx)}

	var err error
	if req.Date != "" {
		date, err := dateutil.ParseDate(req.Date)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
		}

		filter.Start, filter.End = date, date.AddDate(0, 0, 1)
	} else {
		if req.Start != "" {
			if filter.Start, err = dateutil.ParseDate(req.Start); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid start date %s", req.Start)
			}
		}

		if req.End != "" {
			if filter.End, err = dateutil.ParseDate(req.End); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid end date %s", req.End)
			}
		}
	}

	tasks, err := d.taskRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Task{}
	for i := range tasks {
		result = append(result, model.ConvertTask(&tasks[i]))
	}

	return &model.GetTasksResponse{Tasks: result}, nil
}

func (d *taskDomain) getOwnedTask(ctx context.Context, id string) (*entity.Task, error) {
	task, err := d.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task: %v", err)
		return nil, errorx.Unknown
	}

	if task.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return task, nil
}

func (d *taskDomain) verifyProject(
	ctx context.Context, userID, projectID string,
) (sql.NullString, error) {
	if projectID == "" {
		return sql.NullString{}, nil
	}

	project, err := d.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sql.NullString{}, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return sql.NullString{}, errorx.Unknown
	}

	if project.UserID != userID {
		return sql.NullString{}, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return sql.NullString{Valid: true, String: projectID}, nil
}

package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/colormix"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type ProjectDomain interface {
	Create(context.Context, *model.CreateProjectRequest) (*model.CreateProjectResponse, error)
	Update(context.Context, *model.UpdateProjectRequest) (*model.UpdateProjectResponse, error)
	Delete(context.Context, *model.DeleteProjectRequest) (*model.DeleteProjectResponse, error)
	GetList(context.Context, *model.GetProjectsRequest) (*model.GetProjectsResponse, error)
}

type projectDomain struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

func NewProjectDomain(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
) *projectDomain {
	return &projectDomain{projectRepo: projectRepo, taskRepo: taskRepo}
}

func (d *projectDomain) Create(
	ctx context.Context, req *model.CreateProjectRequest,
) (*model.CreateProjectResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	color := req.Color
	if color == "" {
		color = entity.DefaultProjectColor
	} else if !colormix.IsHexColor(color) {
		return nil, errorx.New(errorx.BadRequest, "Invalid color %s", color)
	}

	project := &entity.Project{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: xcontext.RequestUserID(ctx),
		Name:   req.Name,
		Color:  color,
	}

	if err := d.projectRepo.Create(ctx, project); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create project: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateProjectResponse{Project: model.ConvertProject(project)}, nil
}

func (d *projectDomain) Update(
	ctx context.Context, req *model.UpdateProjectRequest,
) (*model.UpdateProjectResponse, error) {
	project, err := d.getOwnedProject(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Color != "" && !colormix.IsHexColor(req.Color) {
		return nil, errorx.New(errorx.BadRequest, "Invalid color %s", req.Color)
	}

	err = d.projectRepo.UpdateByID(ctx, project.ID, &entity.Project{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update project: %v", err)
		return nil, errorx.Unknown
	}

	project, err = d.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project after update: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateProjectResponse{Project: model.ConvertProject(project)}, nil
}

func (d *projectDomain) Delete(
	ctx context.Context, req *model.DeleteProjectRequest,
) (*model.DeleteProjectResponse, error) {
	if _, err := d.getOwnedProject(ctx, req.ID); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Tasks survive the project, they just lose the reference.
	if err := d.taskRepo.ClearProject(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear project of tasks: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.projectRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete project: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteProjectResponse{}, nil
}

func (d *projectDomain) GetList(
	ctx context.Context, req *model.GetProjectsRequest,
) (*model.GetProjectsResponse, error) {
	projects, err := d.projectRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get projects: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Project{}
	for i := range projects {
		result = append(result, model.ConvertProject(&projects[i]))
	}

	return &model.GetProjectsResponse{Projects: result}, nil
}

func (d *projectDomain) getOwnedProject(ctx context.Context, id string) (*entity.Project, error) {
	project, err := d.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	if project.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return project, nil
}

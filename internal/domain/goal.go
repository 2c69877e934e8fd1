package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type GoalDomain interface {
	Create(context.Context, *model.CreateGoalRequest) (*model.CreateGoalResponse, error)
	Update(context.Context, *model.UpdateGoalRequest) (*model.UpdateGoalResponse, error)
	Complete(context.Context, *model.CompleteGoalRequest) (*model.CompleteGoalResponse, error)
	Delete(context.Context, *model.DeleteGoalRequest) (*model.DeleteGoalResponse, error)
	GetList(context.Context, *model.GetGoalsRequest) (*model.GetGoalsResponse, error)
}

type goalDomain struct {
	goalRepo repository.GoalRepository
}

func NewGoalDomain(goalRepo repository.GoalRepository) *goalDomain {
	return &goalDomain{goalRepo: goalRepo}
}

func (d *goalDomain) Create(
	ctx context.Context, req *model.CreateGoalRequest,
) (*model.CreateGoalResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	var targetDate time.Time
	if req.TargetDate != "" {
		var err error
		if targetDate, err = dateutil.ParseDate(req.TargetDate); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid target date %s", req.TargetDate)
		}
	}

	goal := &entity.Goal{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      xcontext.RequestUserID(ctx),
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  targetDate,
	}

	if err := d.goalRepo.Create(ctx, goal); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create goal: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateGoalResponse{Goal: model.ConvertGoal(goal)}, nil
}

func (d *goalDomain) Update(
	ctx context.Context, req *model.UpdateGoalRequest,
) (*model.UpdateGoalResponse, error) {
	if _, err := d.getOwnedGoal(ctx, req.ID); err != nil {
		return nil, err
	}

	updated := map[string]any{"description": req.Description}
	if req.Title != "" {
		updated["title"] = req.Title
	}

	if req.TargetDate != "" {
		targetDate, err := dateutil.ParseDate(req.TargetDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid target date %s", req.TargetDate)
		}

		updated["target_date"] = targetDate
	}

	if err := d.goalRepo.UpdateByID(ctx, req.ID, updated); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update goal: %v", err)
		return nil, errorx.Unknown
	}

	goal, err := d.goalRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get goal after update: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateGoalResponse{Goal: model.ConvertGoal(goal)}, nil
}

func (d *goalDomain) Complete(
	ctx context.Context, req *model.CompleteGoalRequest,
) (*model.CompleteGoalResponse, error) {
	goal, err := d.getOwnedGoal(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if goal.IsCompleted {
		return &model.CompleteGoalResponse{}, nil
	}

	err = d.goalRepo.UpdateByID(ctx, req.ID, map[string]any{
		"is_completed": true,
		"completed_at": sql.NullTime{Valid: true, Time: time.Now()},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete goal: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CompleteGoalResponse{}, nil
}

func (d *goalDomain) Delete(
	ctx context.Context, req *model.DeleteGoalRequest,
) (*model.DeleteGoalResponse, error) {
	if _, err := d.getOwnedGoal(ctx, req.ID); err != nil {
		return nil, err
	}

	if err := d.goalRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete goal: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteGoalResponse{}, nil
}

func (d *goalDomain) GetList(
	ctx context.Context, req *model.GetGoalsRequest,
) (*model.GetGoalsResponse, error) {
	goals, err := d.goalRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get goals: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Goal{}
	for i := range goals {
		result = append(result, model.ConvertGoal(&goals[i]))
	}

	return &model.GetGoalsResponse{Goals: result}, nil
}

func (d *goalDomain) getOwnedGoal(ctx context.Context, id string) (*entity.Goal, error) {
	goal, err := d.goalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found goal")
		}

		xcontext.Logger(ctx).Errorf("Cannot get goal: %v", err)
		return nil, errorx.Unknown
	}

	if goal.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return goal, nil
}

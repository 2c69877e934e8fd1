package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/colormix"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type HabitDomain interface {
	Create(context.Context, *model.CreateHabitRequest) (*model.CreateHabitResponse, error)
	Update(context.Context, *model.UpdateHabitRequest) (*model.UpdateHabitResponse, error)
	Archive(context.Context, *model.ArchiveHabitRequest) (*model.ArchiveHabitResponse, error)
	GetList(context.Context, *model.GetHabitsRequest) (*model.GetHabitsResponse, error)
	ToggleCompletion(context.Context, *model.ToggleHabitCompletionRequest) (*model.ToggleHabitCompletionResponse, error)
	GetCompletions(context.Context, *model.GetHabitCompletionsRequest) (*model.GetHabitCompletionsResponse, error)
}

type habitDomain struct {
	habitRepo  repository.HabitRepository
	streakRepo repository.StreakRepository
}

func NewHabitDomain(
	habitRepo repository.HabitRepository,
	streakRepo repository.StreakRepository,
) *habitDomain {
	return &habitDomain{habitRepo: habitRepo, streakRepo: streakRepo}
}

func (d *habitDomain) Create(
	ctx context.Context, req *model.CreateHabitRequest,
) (*model.CreateHabitResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	if req.TargetPerWeek < 0 || req.TargetPerWeek > 7 {
		return nil, errorx.New(errorx.BadRequest, "Target must be between 0 and 7 days a week")
	}

	color := req.Color
	if color == "" {
		color = entity.DefaultProjectColor
	} else if !colormix.IsHexColor(color) {
		return nil, errorx.New(errorx.BadRequest, "Invalid color %s", color)
	}

	habit := &entity.Habit{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        xcontext.RequestUserID(ctx),
		Name:          req.Name,
		Color:         color,
		TargetPerWeek: req.TargetPerWeek,
	}

	if err := d.habitRepo.Create(ctx, habit); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create habit: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateHabitResponse{Habit: model.ConvertHabit(habit)}, nil
}

func (d *habitDomain) Update(
	ctx context.Context, req *model.UpdateHabitRequest,
) (*model.UpdateHabitResponse, error) {
	if _, err := d.getOwnedHabit(ctx, req.ID); err != nil {
		return nil, err
	}

	updated := map[string]any{}
	if req.Name != "" {
		updated["name"] = req.Name
	}

	if req.Color != "" {
		if !colormix.IsHexColor(req.Color) {
			return nil, errorx.New(errorx.BadRequest, "Invalid color %s", req.Color)
		}

		updated["color"] = req.Color
	}

	if req.TargetPerWeek != 0 {
		if req.TargetPerWeek < 0 || req.TargetPerWeek > 7 {
			return nil, errorx.New(errorx.BadRequest, "Target must be between 0 and 7 days a week")
		}

		updated["target_per_week"] = req.TargetPerWeek
	}

	if len(updated) > 0 {
		if err := d.habitRepo.UpdateByID(ctx, req.ID, updated); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update habit: %v", err)
			return nil, errorx.Unknown
		}
	}

	habit, err := d.habitRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get habit after update: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateHabitResponse{Habit: model.ConvertHabit(habit)}, nil
}

func (d *habitDomain) Archive(
	ctx context.Context, req *model.ArchiveHabitRequest,
) (*model.ArchiveHabitResponse, error) {
	if _, err := d.getOwnedHabit(ctx, req.ID); err != nil {
		return nil, err
	}

	if err := d.habitRepo.SetArchived(ctx, req.ID, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot archive habit: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ArchiveHabitResponse{}, nil
}

func (d *habitDomain) GetList(
	ctx context.Context, req *model.GetHabitsRequest,
) (*model.GetHabitsResponse, error) {
	habits, err := d.habitRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx), req.IncludeArchived)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get habits: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Habit{}
	for i := range habits {
		result = append(result, model.ConvertHabit(&habits[i]))
	}

	return &model.GetHabitsResponse{Habits: result}, nil
}

func (d *habitDomain) ToggleCompletion(
	ctx context.Context, req *model.ToggleHabitCompletionRequest,
) (*model.ToggleHabitCompletionResponse, error) {
	habit, err := d.getOwnedHabit(ctx, req.HabitID)
	if err != nil {
		return nil, err
	}

	if habit.IsArchived {
		return nil, errorx.New(errorx.Unavailable, "Cannot check an archived habit")
	}

	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
	}

	if date.After(dateutil.Today()) {
		return nil, errorx.New(errorx.BadRequest, "Cannot check a future date")
	}

	_, err = d.habitRepo.GetCompletion(ctx, req.HabitID, date)
	switch {
	case err == nil:
		if err := d.habitRepo.DeleteCompletion(ctx, req.HabitID, date); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete habit completion: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ToggleHabitCompletionResponse{IsCompleted: false}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		err := d.habitRepo.CreateCompletion(ctx, &entity.HabitCompletion{
			HabitID: req.HabitID,
			UserID:  habit.UserID,
			Date:    date,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create habit completion: %v", err)
			return nil, errorx.Unknown
		}

		_, err = advanceStreak(ctx, d.streakRepo, habit.UserID, entity.StreakHabit, date)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot advance habit streak: %v", err)
		}

		return &model.ToggleHabitCompletionResponse{IsCompleted: true}, nil

	default:
		xcontext.Logger(ctx).Errorf("Cannot get habit completion: %v", err)
		return nil, errorx.Unknown
	}
}

func (d *habitDomain) GetCompletions(
	ctx context.Context, req *model.GetHabitCompletionsRequest,
) (*model.GetHabitCompletionsResponse, error) {
	var start, end time.Time
	var err error
	if req.Start != "" {
		if start, err = dateutil.ParseDate(req.Start); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid start date %s", req.Start)
		}
	}

	if req.End != "" {
		if end, err = dateutil.ParseDate(req.End); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid end date %s", req.End)
		}
	}

	completions, err := d.habitRepo.GetCompletions(ctx, xcontext.RequestUserID(ctx), start, end)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get habit completions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.HabitCompletion{}
	for i := range completions {
		result = append(result, model.ConvertHabitCompletion(&completions[i]))
	}

	return &model.GetHabitCompletionsResponse{Completions: result}, nil
}

func (d *habitDomain) getOwnedHabit(ctx context.Context, id string) (*entity.Habit, error) {
	habit, err := d.habitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found habit")
		}

		xcontext.Logger(ctx).Errorf("Cannot get habit: %v", err)
		return nil, errorx.Unknown
	}

	if habit.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return habit, nil
}

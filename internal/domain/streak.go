package domain

import (
	"context"
	"errors"
	"time"

	"github.com/pkg/math"
	"github.com/th3void/lotus-routine/internal/domain/statistic"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/enum"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type StreakDomain interface {
	GetStreaks(context.Context, *model.GetStreaksRequest) (*model.GetStreaksResponse, error)
	Reset(context.Context, *model.ResetStreakRequest) (*model.ResetStreakResponse, error)
}

type streakDomain struct {
	streakRepo  repository.StreakRepository
	leaderboard statistic.Leaderboard
}

func NewStreakDomain(
	streakRepo repository.StreakRepository,
	leaderboard statistic.Leaderboard,
) *streakDomain {
	return &streakDomain{
		streakRepo:  streakRepo,
		leaderboard: leaderboard,
	}
}

func (d *streakDomain) GetStreaks(
	ctx context.Context, req *model.GetStreaksRequest,
) (*model.GetStreaksResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	streaks, err := d.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get streaks: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Streak{}
	for i := range streaks {
		result = append(result, model.ConvertStreak(&streaks[i]))
	}

	return &model.GetStreaksResponse{Streaks: result}, nil
}

func (d *streakDomain) Reset(
	ctx context.Context, req *model.ResetStreakRequest,
) (*model.ResetStreakResponse, error) {
	streakType, err := enum.ToEnum[entity.StreakType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid streak type %s", req.Type)
	}

	userID := xcontext.RequestUserID(ctx)
	err = d.streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           userID,
		Type:             streakType,
		CurrentCount:     0,
		LastActivityDate: time.Time{},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset streak: %v", err)
		return nil, errorx.Unknown
	}

	if streakType == entity.StreakDailyLog {
		if err := d.leaderboard.SetStreakLeaderboard(ctx, 0, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update streak leaderboard: %v", err)
		}
	}

	return &model.ResetStreakResponse{}, nil
}

// advanceStreak applies one activity date to the user's streak counter. The
// same day changes nothing, the day after the last activity extends the run,
// anything later restarts at one. It returns the resulting current count.
func advanceStreak(
	ctx context.Context,
	streakRepo repository.StreakRepository,
	userID string,
	streakType entity.StreakType,
	activityDate time.Time,
) (int, error) {
	activityDate = dateutil.BeginningOfDay(activityDate)

	streak, err := streakRepo.Get(ctx, userID, streakType)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		streak = &entity.Streak{UserID: userID, Type: streakType}
	}

	last := dateutil.BeginningOfDay(streak.LastActivityDate)
	switch {
	// A backdated or same-day activity does not move the streak.
	case !activityDate.After(last) && streak.CurrentCount > 0:
		return streak.CurrentCount, nil
	case activityDate.Equal(last.AddDate(0, 0, 1)):
		streak.CurrentCount++
	default:
		streak.CurrentCount = 1
	}

	streak.LongestCount = math.MaxInt(streak.LongestCount, streak.CurrentCount)
	streak.LastActivityDate = activityDate
	if err := streakRepo.Upsert(ctx, streak); err != nil {
		return 0, err
	}

	return streak.CurrentCount, nil
}

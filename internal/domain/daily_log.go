package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/domain/badge"
	"github.com/th3void/lotus-routine/internal/domain/statistic"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

const maxHoursPerDay = 24

type DailyLogDomain interface {
	Upsert(context.Context, *model.UpsertDailyLogRequest) (*model.UpsertDailyLogResponse, error)
	GetList(context.Context, *model.GetDailyLogsRequest) (*model.GetDailyLogsResponse, error)
	Delete(context.Context, *model.DeleteDailyLogRequest) (*model.DeleteDailyLogResponse, error)
}

type dailyLogDomain struct {
	dailyLogRepo    repository.DailyLogRepository
	streakRepo      repository.StreakRepository
	challengeDomain ChallengeProgressTracker
	badgeManager    *badge.Manager
	leaderboard     statistic.Leaderboard
}

func NewDailyLogDomain(
	dailyLogRepo repository.DailyLogRepository,
	streakRepo repository.StreakRepository,
	challengeDomain ChallengeProgressTracker,
	badgeManager *badge.Manager,
	leaderboard statistic.Leaderboard,
) *dailyLogDomain {
	return &dailyLogDomain{
		dailyLogRepo:    dailyLogRepo,
		streakRepo:      streakRepo,
		challengeDomain: challengeDomain,
		badgeManager:    badgeManager,
		leaderboard:     leaderboard,
	}
}

func (d *dailyLogDomain) Upsert(
	ctx context.Context, req *model.UpsertDailyLogRequest,
) (*model.UpsertDailyLogResponse, error) {
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date %s", req.Date)
	}

	if date.After(dateutil.Today()) {
		return nil, errorx.New(errorx.BadRequest, "Cannot log a future date")
	}

	if req.Hours <= 0 || req.Hours > maxHoursPerDay {
		return nil, errorx.New(errorx.BadRequest, "Hours must be between 0 and 24")
	}

	userID := xcontext.RequestUserID(ctx)

	var log *entity.DailyLog
	var hoursDelta float64

	existing, err := d.dailyLogRepo.GetByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		err := d.dailyLogRepo.UpdateByID(ctx, existing.ID, req.Hours, req.Description)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update daily log: %v", err)
			return nil, errorx.Unknown
		}

		hoursDelta = req.Hours - existing.Hours
		existing.Hours = req.Hours
		existing.Description = req.Description
		log = existing

	case errors.Is(err, gorm.ErrRecordNotFound):
		log = &entity.DailyLog{
			Base:        entity.Base{ID: uuid.NewString()},
			UserID:      userID,
			Date:        date,
			Hours:       req.Hours,
			Description: req.Description,
		}

		if err := d.dailyLogRepo.Create(ctx, log); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create daily log: %v", err)
			return nil, errorx.Unknown
		}

		hoursDelta = req.Hours

	default:
		xcontext.Logger(ctx).Errorf("Cannot get daily log: %v", err)
		return nil, errorx.Unknown
	}

	d.afterWrite(ctx, userID, log, hoursDelta)

	return &model.UpsertDailyLogResponse{DailyLog: model.ConvertDailyLog(log)}, nil
}

func (d *dailyLogDomain) GetList(
	ctx context.Context, req *model.GetDailyLogsRequest,
) (*model.GetDailyLogsResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	filter := repository.DailyLogFilter{UserID: userID}
	var err error
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

	logs, err := d.dailyLogRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily logs: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.DailyLog{}
	for i := range logs {
		result = append(result, model.ConvertDailyLog(&logs[i]))
	}

	return &model.GetDailyLogsResponse{DailyLogs: result}, nil
}

func (d *dailyLogDomain) Delete(
	ctx context.Context, req *model.DeleteDailyLogRequest,
) (*model.DeleteDailyLogResponse, error) {
	log, err := d.dailyLogRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found daily log")
		}

		xcontext.Logger(ctx).Errorf("Cannot get daily log: %v", err)
		return nil, errorx.Unknown
	}

	if log.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.dailyLogRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete daily log: %v", err)
		return nil, errorx.Unknown
	}

	err = d.leaderboard.ChangeHoursLeaderboard(ctx, -log.Hours, log.Date, log.UserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update hours leaderboard: %v", err)
	}

	return &model.DeleteDailyLogResponse{}, nil
}

// afterWrite runs the side effects of a log write: streak, leaderboards,
// badges, and challenge progress. They are best-effort, the log row is
// already persisted.
func (d *dailyLogDomain) afterWrite(
	ctx context.Context, userID string, log *entity.DailyLog, hoursDelta float64,
) {
	current, err := advanceStreak(ctx, d.streakRepo, userID, entity.StreakDailyLog, log.Date)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot advance streak: %v", err)
	} else {
		if err := d.leaderboard.SetStreakLeaderboard(ctx, current, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update streak leaderboard: %v", err)
		}
	}

	if hoursDelta != 0 {
		err := d.leaderboard.ChangeHoursLeaderboard(ctx, hoursDelta, log.Date, userID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update hours leaderboard: %v", err)
		}
	}

	err = d.badgeManager.
		WithBadges(badge.StreakWarriorBadgeName, badge.CenturyClubBadgeName).
		ScanAndGive(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot scan badges: %v", err)
	}

	if err := d.challengeDomain.TouchProgress(ctx, userID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update challenge progress: %v", err)
	}
}

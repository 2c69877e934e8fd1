package domain

import (
	"context"

	"github.com/th3void/lotus-routine/internal/domain/statistic"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/colormix"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetUserStats(context.Context, *model.GetUserStatsRequest) (*model.GetUserStatsResponse, error)
}

type statisticDomain struct {
	leaderboard     statistic.Leaderboard
	userRepo        repository.UserRepository
	dailyLogRepo    repository.DailyLogRepository
	taskRepo        repository.TaskRepository
	streakRepo      repository.StreakRepository
	badgeDetailRepo repository.BadgeDetailRepository
}

func NewStatisticDomain(
	leaderboard statistic.Leaderboard,
	userRepo repository.UserRepository,
	dailyLogRepo repository.DailyLogRepository,
	taskRepo repository.TaskRepository,
	streakRepo repository.StreakRepository,
	badgeDetailRepo repository.BadgeDetailRepository,
) *statisticDomain {
	return &statisticDomain{
		leaderboard:     leaderboard,
		userRepo:        userRepo,
		dailyLogRepo:    dailyLogRepo,
		taskRepo:        taskRepo,
		streakRepo:      streakRepo,
		badgeDetailRepo: badgeDetailRepo,
	}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if req.Metric != statistic.MetricHours && req.Metric != statistic.MetricStreak {
		return nil, errorx.New(errorx.BadRequest, "Leaderboard metric must be hours or streak")
	}

	period, err := statistic.ToPeriod(req.Period)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, err.Error())
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit < 0 || req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range 0-50")
	}

	entries, err := d.leaderboard.GetLeaderBoard(ctx, req.Metric, period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	// The sorted set stores only user ids. Hydrate the entries in one query.
	userIDs := []string{}
	for _, e := range entries {
		userIDs = append(userIDs, e.User.ID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	userByID := map[string]*entity.User{}
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	for i := range entries {
		if u, ok := userByID[entries[i].User.ID]; ok {
			entries[i].User = model.ConvertShortUser(u)
		}
	}

	myRank, err := d.leaderboard.GetRank(ctx, xcontext.RequestUserID(ctx), req.Metric, period)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Entries: entries, MyRank: int(myRank)}, nil
}

func (d *statisticDomain) GetUserStats(
	ctx context.Context, req *model.GetUserStatsRequest,
) (*model.GetUserStatsResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	var window repository.DailyLogFilter
	window.UserID = userID

	var err error
	if req.Start != "" {
		if window.Start, err = dateutil.ParseDate(req.Start); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid start date")
		}
	}

	if req.End != "" {
		if window.End, err = dateutil.ParseDate(req.End); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid end date")
		}

		// The window end is exclusive, the request end day is inclusive.
		window.End = window.End.AddDate(0, 0, 1)
	}

	totalHours, err := d.dailyLogRepo.SumHours(ctx, repository.DailyLogFilter{UserID: userID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum hours: %v", err)
		return nil, errorx.Unknown
	}

	totalLogs, err := d.dailyLogRepo.Count(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count daily logs: %v", err)
		return nil, errorx.Unknown
	}

	completedTasks, err := d.taskRepo.CountCompleted(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completed tasks: %v", err)
		return nil, errorx.Unknown
	}

	badgeCount, err := d.badgeDetailRepo.Count(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count badges: %v", err)
		return nil, errorx.Unknown
	}

	streaks, err := d.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get streaks: %v", err)
		return nil, errorx.Unknown
	}

	streakModels := []model.Streak{}
	for i := range streaks {
		streakModels = append(streakModels, model.ConvertStreak(&streaks[i]))
	}

	heatmap, err := d.buildHeatmap(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	return &model.GetUserStatsResponse{
		TotalHours:     totalHours,
		TotalLogs:      totalLogs,
		CompletedTasks: completedTasks,
		BadgeCount:     badgeCount,
		Streaks:        streakModels,
		Heatmap:        heatmap,
	}, nil
}

// buildHeatmap assembles one cell per day with logged hours inside the
// window. The cell color blends the colors of the projects worked on that
// day, weighted by completed task hours; logged hours not covered by any
// task pull the blend toward the default color.
func (d *statisticDomain) buildHeatmap(
	ctx context.Context, userID string, window repository.DailyLogFilter,
) ([]model.HeatmapCell, error) {
	if window.End.IsZero() {
		window.End = dateutil.Today().AddDate(0, 0, 1)
	}

	if window.Start.IsZero() {
		window.Start = window.End.AddDate(0, 0, -366)
	}

	logs, err := d.dailyLogRepo.GetList(ctx, window)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily logs: %v", err)
		return nil, errorx.Unknown
	}

	taskHours, err := d.taskRepo.ProjectHoursByDay(ctx, userID, window.Start, window.End)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get task hours per day: %v", err)
		return nil, errorx.Unknown
	}

	weightsByDay := map[string][]colormix.Weighted{}
	taskTotalByDay := map[string]float64{}
	for _, row := range taskHours {
		day := dateutil.Date(row.Date)
		weightsByDay[day] = append(weightsByDay[day], colormix.Weighted{
			Color:  row.Color,
			Weight: row.Hours,
		})
		taskTotalByDay[day] += row.Hours
	}

	cells := []model.HeatmapCell{}
	for _, log := range logs {
		day := dateutil.Date(log.Date)
		weights := weightsByDay[day]
		if rest := log.Hours - taskTotalByDay[day]; rest > 0 {
			weights = append(weights, colormix.Weighted{
				Color:  entity.DefaultProjectColor,
				Weight: rest,
			})
		}

		cells = append(cells, model.HeatmapCell{
			Date:  day,
			Hours: log.Hours,
			Color: colormix.Mix(weights),
		})
	}

	return cells, nil
}

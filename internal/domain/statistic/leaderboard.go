package statistic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
)

const (
	MetricHours  = "hours"
	MetricStreak = "streak"
)

type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context,
		metric string,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]model.LeaderboardEntry, error)

	GetRank(
		ctx context.Context,
		userID, metric string,
		period entity.LeaderBoardPeriodType,
	) (uint64, error)

	// ChangeHoursLeaderboard applies a logged-hours delta to the periods the
	// log date falls into.
	ChangeHoursLeaderboard(ctx context.Context, delta float64, loggedAt time.Time, userID string) error

	// SetStreakLeaderboard replaces the user's streak score. Streaks are not
	// additive, so the score is set rather than incremented.
	SetStreakLeaderboard(ctx context.Context, current int, userID string) error
}

type leaderboard struct {
	dailyLogRepo repository.DailyLogRepository
	streakRepo   repository.StreakRepository
	redisClient  xredis.Client
}

func New(
	dailyLogRepo repository.DailyLogRepository,
	streakRepo repository.StreakRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		dailyLogRepo: dailyLogRepo,
		streakRepo:   streakRepo,
		redisClient:  redisClient,
	}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context,
	metric string,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]model.LeaderboardEntry, error) {
	key, err := l.ensureLoaded(ctx, metric, period)
	if err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	leaderboard := []model.LeaderboardEntry{}
	for i, z := range results {
		leaderboard = append(leaderboard, model.LeaderboardEntry{
			User:        model.ShortUser{ID: z.Member.(string)},
			Value:       z.Score,
			CurrentRank: offset + i + 1,
		})
	}

	return leaderboard, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context,
	userID, metric string,
	period entity.LeaderBoardPeriodType,
) (uint64, error) {
	key, err := l.ensureLoaded(ctx, metric, period)
	if err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangeHoursLeaderboard(
	ctx context.Context, delta float64, loggedAt time.Time, userID string,
) error {
	periods := []entity.LeaderBoardPeriodType{
		entity.NewLeaderBoardPeriodWeek(loggedAt),
		entity.NewLeaderBoardPeriodMonth(loggedAt),
		entity.NewLeaderBoardPeriodAllTime(),
	}

	for _, period := range periods {
		key := common.RedisKeyLeaderboard(MetricHours, period.Period())
		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
			return errorx.Unknown
		}

		// If the key didn't exist in redis, it will be loaded from database
		// on the next read. No need to update.
		if !ok {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, key, delta, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
		}
	}

	return nil
}

func (l *leaderboard) SetStreakLeaderboard(ctx context.Context, current int, userID string) error {
	periods := []entity.LeaderBoardPeriodType{
		entity.NewLeaderBoardPeriodWeek(time.Now()),
		entity.NewLeaderBoardPeriodMonth(time.Now()),
		entity.NewLeaderBoardPeriodAllTime(),
	}

	for _, period := range periods {
		key := common.RedisKeyLeaderboard(MetricStreak, period.Period())
		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
			return errorx.Unknown
		}

		if !ok {
			continue
		}

		err = l.redisClient.ZAdd(ctx, key, redis.Z{Member: userID, Score: float64(current)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
		}
	}

	return nil
}

// ensureLoaded lazily fills the ZSET from a database aggregate on the first
// read of each metric/period, then returns the redis key.
func (l *leaderboard) ensureLoaded(
	ctx context.Context, metric string, period entity.LeaderBoardPeriodType,
) (string, error) {
	if metric != MetricHours && metric != MetricStreak {
		return "", errorx.New(errorx.BadRequest, "Invalid metric %s", metric)
	}

	key := common.RedisKeyLeaderboard(metric, period.Period())
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return "", errorx.Unknown
	}

	if ok {
		return key, nil
	}

	switch metric {
	case MetricHours:
		err = l.loadHoursFromDB(ctx, key, period)
	case MetricStreak:
		err = l.loadStreaksFromDB(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return key, nil
}

func (l *leaderboard) loadHoursFromDB(
	ctx context.Context, key string, period entity.LeaderBoardPeriodType,
) error {
	sums, err := l.dailyLogRepo.SumHoursPerUser(ctx, period.Start(), period.End())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load hours statistic from database: %v", err)
		return errorx.Unknown
	}

	for _, s := range sums {
		err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: s.UserID, Score: s.Hours})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}

func (l *leaderboard) loadStreaksFromDB(ctx context.Context, key string) error {
	streaks, err := l.streakRepo.GetAllByType(ctx, entity.StreakDailyLog)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load streaks from database: %v", err)
		return errorx.Unknown
	}

	for _, s := range streaks {
		err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: s.UserID, Score: float64(s.CurrentCount)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}

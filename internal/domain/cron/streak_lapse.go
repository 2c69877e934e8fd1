package cron

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain/statistic"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
)

// StreakLapseCronJob zeroes streaks whose last activity is older than
// yesterday. A missed day only counts against the streak once the whole day
// has passed without activity.
type StreakLapseCronJob struct {
	streakRepo  repository.StreakRepository
	redisClient xredis.Client
}

func NewStreakLapseCronJob(
	streakRepo repository.StreakRepository,
	redisClient xredis.Client,
) *StreakLapseCronJob {
	return &StreakLapseCronJob{streakRepo: streakRepo, redisClient: redisClient}
}

func (job *StreakLapseCronJob) Do(ctx context.Context) {
	activeSince := dateutil.Yesterday()

	reset := int64(0)
	for _, streakType := range []entity.StreakType{entity.StreakDailyLog, entity.StreakHabit} {
		n, err := job.streakRepo.ResetIdle(ctx, streakType, activeSince)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reset idle %s streaks: %v", streakType, err)
			continue
		}

		if n > 0 {
			xcontext.Logger(ctx).Infof("Reset %d lapsed %s streaks", n, streakType)
		}

		reset += n
	}

	if reset == 0 {
		return
	}

	// The bulk reset bypasses the leaderboard, so drop the cached streak
	// boards and let the next read reload them from database.
	keys, err := job.redisClient.Keys(ctx, common.RedisKeyLeaderboard(statistic.MetricStreak, "*"))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot list streak leaderboard keys: %v", err)
		return
	}

	if len(keys) > 0 {
		if err := job.redisClient.Del(ctx, keys...); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot drop streak leaderboards: %v", err)
		}
	}
}

func (job *StreakLapseCronJob) RunNow() bool {
	return false
}

func (job *StreakLapseCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}

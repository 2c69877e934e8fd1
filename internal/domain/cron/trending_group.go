package cron

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
)

// TrendingGroupCronJob re-scores every group from its recent message count
// and member count. The message counter is kept in redis by the chat domain
// and decays on its own through the key TTL.
type TrendingGroupCronJob struct {
	groupRepo       repository.GroupRepository
	groupMemberRepo repository.GroupMemberRepository
	redisClient     xredis.Client
}

func NewTrendingGroupCronJob(
	groupRepo repository.GroupRepository,
	groupMemberRepo repository.GroupMemberRepository,
	redisClient xredis.Client,
) *TrendingGroupCronJob {
	return &TrendingGroupCronJob{
		groupRepo:       groupRepo,
		groupMemberRepo: groupMemberRepo,
		redisClient:     redisClient,
	}
}

func (job *TrendingGroupCronJob) Do(ctx context.Context) {
	groups, err := job.groupRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all groups: %v", err)
		return
	}

	for _, g := range groups {
		messages := int64(0)
		raw, err := job.redisClient.Get(ctx, common.RedisKeyGroupActivity(g.ID))
		if err == nil {
			messages, _ = strconv.ParseInt(raw, 10, 64)
		}

		members, err := job.groupMemberRepo.Count(ctx, g.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot count members of group %s: %v", g.ID, err)
			continue
		}

		// Messages carry the score, membership dampens towards large groups
		// slowly, so a chatty small group can out-trend a silent big one.
		score := float64(messages) + 10*math.Log1p(float64(members))
		if err := job.groupRepo.UpdateTrendingScore(ctx, g.ID, score); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update trending score of group %s: %v", g.ID, err)
		}
	}
}

func (job *TrendingGroupCronJob) RunNow() bool {
	return true
}

func (job *TrendingGroupCronJob) Next() time.Time {
	return time.Now().Add(15 * time.Minute)
}

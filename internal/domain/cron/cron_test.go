package cron

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func Test_StreakLapseCronJob(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	streakRepo := repository.NewStreakRepository()

	// alice logged yesterday, bob went quiet two days ago.
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User1.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     3,
		LongestCount:     3,
		LastActivityDate: dateutil.Yesterday(),
	}))
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User2.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     5,
		LongestCount:     5,
		LastActivityDate: dateutil.BeginningOfDay(time.Now().AddDate(0, 0, -2)),
	}))

	dropped := []string{}
	redisClient := &testutil.MockRedisClient{
		KeysFunc: func(ctx context.Context, pattern string) ([]string, error) {
			require.True(t, strings.Contains(pattern, "streak"))
			return []string{"lb:streak:alltime", "lb:streak:2026-08"}, nil
		},
		DelFunc: func(ctx context.Context, key ...string) error {
			dropped = append(dropped, key...)
			return nil
		},
	}

	NewStreakLapseCronJob(streakRepo, redisClient).Do(ctx)

	kept, err := streakRepo.Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 3, kept.CurrentCount)

	lapsed, err := streakRepo.Get(ctx, testutil.User2.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 0, lapsed.CurrentCount)
	require.Equal(t, 5, lapsed.LongestCount)

	require.Equal(t, []string{"lb:streak:alltime", "lb:streak:2026-08"}, dropped)
}

func Test_StreakLapseCronJob_nothingToReset(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	streakRepo := repository.NewStreakRepository()

	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User1.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     2,
		LongestCount:     2,
		LastActivityDate: dateutil.Today(),
	}))

	redisClient := &testutil.MockRedisClient{
		KeysFunc: func(ctx context.Context, pattern string) ([]string, error) {
			t.Fatal("leaderboards must not be dropped when no streak lapsed")
			return nil, nil
		},
	}

	NewStreakLapseCronJob(streakRepo, redisClient).Do(ctx)

	streak, err := streakRepo.Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 2, streak.CurrentCount)
}

func Test_TokenCleanupCronJob(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	passwordResetRepo := repository.NewPasswordResetRepository()
	refreshTokenRepo := repository.NewRefreshTokenRepository()

	require.NoError(t, passwordResetRepo.Create(ctx, &entity.PasswordReset{
		UserID:     testutil.User1.ID,
		TokenHash:  "stale",
		Expiration: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, passwordResetRepo.Create(ctx, &entity.PasswordReset{
		UserID:     testutil.User1.ID,
		TokenHash:  "live",
		Expiration: time.Now().Add(time.Hour),
	}))
	require.NoError(t, refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:     testutil.User1.ID,
		Family:     "stale-family",
		Expiration: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:     testutil.User1.ID,
		Family:     "live-family",
		Expiration: time.Now().Add(time.Hour),
	}))

	NewTokenCleanupCronJob(passwordResetRepo, refreshTokenRepo).Do(ctx)

	var resets []entity.PasswordReset
	require.NoError(t, xcontext.DB(ctx).Find(&resets).Error)
	require.Len(t, resets, 1)
	require.Equal(t, "live", resets[0].TokenHash)

	var tokens []entity.RefreshToken
	require.NoError(t, xcontext.DB(ctx).Find(&tokens).Error)
	require.Len(t, tokens, 1)
	require.Equal(t, "live-family", tokens[0].Family)
}

func Test_ChallengeFinalizeCronJob(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	challengeRepo := repository.NewChallengeRepository()
	participantRepo := repository.NewChallengeParticipantRepository()

	ended := &entity.Challenge{
		Base:      entity.Base{ID: "challenge-ended"},
		CreatedBy: testutil.User1.ID,
		Title:     "August Sprint",
		Type:      entity.ChallengeDailyStreak,
		Rule:      entity.Map{"target": float64(7)},
		StartDate: dateutil.BeginningOfDay(time.Now().AddDate(0, 0, -10)),
		EndDate:   dateutil.BeginningOfDay(time.Now().AddDate(0, 0, -1)),
		IsActive:  true,
	}
	require.NoError(t, challengeRepo.Create(ctx, ended))

	running := &entity.Challenge{
		Base:      entity.Base{ID: "challenge-running"},
		CreatedBy: testutil.User1.ID,
		Title:     "September Sprint",
		Type:      entity.ChallengeDailyStreak,
		Rule:      entity.Map{"target": float64(7)},
		StartDate: dateutil.BeginningOfDay(time.Now().AddDate(0, 0, -1)),
		EndDate:   dateutil.BeginningOfDay(time.Now().AddDate(0, 0, 10)),
		IsActive:  true,
	}
	require.NoError(t, challengeRepo.Create(ctx, running))

	require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: ended.ID,
		UserID:      testutil.User1.ID,
		Progress:    100,
		IsCompleted: true,
	}))
	require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: ended.ID,
		UserID:      testutil.User2.ID,
		Progress:    40,
	}))

	job := NewChallengeFinalizeCronJob(
		challengeRepo,
		participantRepo,
		repository.NewNotificationRepository(),
		&testutil.MockNotificationEngineCaller{},
	)
	job.Do(ctx)

	settled, err := challengeRepo.GetByID(ctx, ended.ID)
	require.NoError(t, err)
	require.False(t, settled.IsActive)

	untouched, err := challengeRepo.GetByID(ctx, running.ID)
	require.NoError(t, err)
	require.True(t, untouched.IsActive)

	var winner entity.Notification
	err = xcontext.DB(ctx).
		Take(&winner, "user_id=? AND type=?", testutil.User1.ID, entity.NotificationChallenge).Error
	require.NoError(t, err)
	require.Equal(t, "Challenge ended", winner.Title)
	require.Equal(t, "The challenge August Sprint has ended. You completed it!", winner.Message)

	var runnerUp entity.Notification
	err = xcontext.DB(ctx).
		Take(&runnerUp, "user_id=? AND type=?", testutil.User2.ID, entity.NotificationChallenge).Error
	require.NoError(t, err)
	require.Equal(t, "The challenge August Sprint has ended. You reached 40%.", runnerUp.Message)

	// The sweep settles a challenge exactly once.
	job.Do(ctx)

	var count int64
	err = xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("type=?", entity.NotificationChallenge).Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func Test_TrendingGroupCronJob(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	groupRepo := repository.NewGroupRepository()
	groupMemberRepo := repository.NewGroupMemberRepository()

	quiet := &entity.Group{
		Base:       entity.Base{ID: "group-quiet"},
		OwnerID:    testutil.User1.ID,
		Name:       "Silent Readers",
		InviteCode: "quiet1",
	}
	require.NoError(t, groupRepo.Create(ctx, quiet))
	require.NoError(t, groupMemberRepo.Create(ctx, &entity.GroupMember{
		GroupID: quiet.ID, UserID: testutil.User1.ID, Role: entity.GroupRoleAdmin,
	}))

	chatty := &entity.Group{
		Base:       entity.Base{ID: "group-chatty"},
		OwnerID:    testutil.User2.ID,
		Name:       "Morning Club",
		InviteCode: "chatty1",
	}
	require.NoError(t, groupRepo.Create(ctx, chatty))
	require.NoError(t, groupMemberRepo.Create(ctx, &entity.GroupMember{
		GroupID: chatty.ID, UserID: testutil.User2.ID, Role: entity.GroupRoleAdmin,
	}))

	redisClient := &testutil.MockRedisClient{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			if key == common.RedisKeyGroupActivity(chatty.ID) {
				return "120", nil
			}

			return "", redis.Nil
		},
	}

	NewTrendingGroupCronJob(groupRepo, groupMemberRepo, redisClient).Do(ctx)

	groups, err := groupRepo.GetAll(ctx)
	require.NoError(t, err)

	scores := map[string]float64{}
	for _, g := range groups {
		scores[g.ID] = g.TrendingScore
	}

	require.Greater(t, scores[chatty.ID], float64(100))
	require.Less(t, scores[quiet.ID], float64(10))
	require.Greater(t, scores[quiet.ID], float64(0))
}

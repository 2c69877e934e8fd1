package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_streakDomain_GetStreaks(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	streakRepo := repository.NewStreakRepository()
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User1.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     3,
		LongestCount:     8,
		LastActivityDate: dateutil.BeginningOfDay(time.Now()),
	}))
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User2.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     1,
		LongestCount:     1,
		LastActivityDate: dateutil.BeginningOfDay(time.Now()),
	}))

	streakDomain := NewStreakDomain(streakRepo, &testutil.MockLeaderboard{})

	resp, err := streakDomain.GetStreaks(ctx, &model.GetStreaksRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Streaks, 1)
	require.Equal(t, "daily_log", resp.Streaks[0].Type)
	require.Equal(t, 3, resp.Streaks[0].CurrentCount)
	require.Equal(t, 8, resp.Streaks[0].LongestCount)

	// Streaks are public profile data.
	resp, err = streakDomain.GetStreaks(ctx, &model.GetStreaksRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Len(t, resp.Streaks, 1)
	require.Equal(t, 1, resp.Streaks[0].CurrentCount)
}

func Test_streakDomain_Reset(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	streakRepo := repository.NewStreakRepository()
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User1.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     4,
		LongestCount:     6,
		LastActivityDate: dateutil.BeginningOfDay(time.Now()),
	}))

	leaderboardSets := map[string]int{}
	leaderboard := &testutil.MockLeaderboard{
		SetStreakLeaderboardFunc: func(ctx context.Context, current int, userID string) error {
			leaderboardSets[userID] = current
			return nil
		},
	}

	streakDomain := NewStreakDomain(streakRepo, leaderboard)

	_, err := streakDomain.Reset(ctx, &model.ResetStreakRequest{Type: "daily_log"})
	require.NoError(t, err)

	streak, err := streakRepo.Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 0, streak.CurrentCount)
	require.Equal(t, 0, leaderboardSets[testutil.User1.ID])
	require.Contains(t, leaderboardSets, testutil.User1.ID)

	_, err = streakDomain.Reset(ctx, &model.ResetStreakRequest{Type: "forever"})
	require.Error(t, err)
	require.Equal(t, "Invalid streak type forever", err.Error())
}

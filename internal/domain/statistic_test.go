package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func newTestStatisticDomain(leaderboard *testutil.MockLeaderboard) *statisticDomain {
	if leaderboard == nil {
		leaderboard = &testutil.MockLeaderboard{}
	}

	return NewStatisticDomain(
		leaderboard,
		repository.NewUserRepository(),
		repository.NewDailyLogRepository(),
		repository.NewTaskRepository(),
		repository.NewStreakRepository(),
		repository.NewBadgeDetailRepository(),
	)
}

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	leaderboard := &testutil.MockLeaderboard{
		GetLeaderBoardFunc: func(
			ctx context.Context,
			metric string,
			period entity.LeaderBoardPeriodType,
			offset, limit int,
		) ([]model.LeaderboardEntry, error) {
			return []model.LeaderboardEntry{
				{User: model.ShortUser{ID: testutil.User2.ID}, Value: 12, CurrentRank: 1},
				{User: model.ShortUser{ID: testutil.User1.ID}, Value: 8, CurrentRank: 2},
			}, nil
		},
		GetRankFunc: func(
			ctx context.Context, userID, metric string, period entity.LeaderBoardPeriodType,
		) (uint64, error) {
			return 2, nil
		},
	}

	domain := newTestStatisticDomain(leaderboard)

	resp, err := domain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		Metric: "hours",
		Period: "week",
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, 2, resp.MyRank)

	// Entries come back hydrated with user profiles.
	require.Equal(t, testutil.User2.Name, resp.Entries[0].User.Name)
	require.Equal(t, testutil.User1.Name, resp.Entries[1].User.Name)

	_, err = domain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		Metric: "steps",
		Period: "week",
	})
	require.Error(t, err)

	_, err = domain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		Metric: "hours",
		Period: "decade",
	})
	require.Error(t, err)

	_, err = domain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		Metric: "hours",
		Period: "alltime",
		Limit:  51,
	})
	require.Error(t, err)
}

func Test_statisticDomain_GetUserStats(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	dailyLogDomain := newTestDailyLogDomain()
	_, err := dailyLogDomain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Yesterday()), Hours: 3})
	require.NoError(t, err)

	_, err = dailyLogDomain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 5})
	require.NoError(t, err)

	taskDomain := NewTaskDomain(repository.NewTaskRepository(), repository.NewProjectRepository())
	task, err := taskDomain.Create(ctx, &model.CreateTaskRequest{
		ProjectID: testutil.Project1.ID,
		Date:      dateutil.Date(dateutil.Today()),
		Title:     "Focus block",
		Hours:     2,
	})
	require.NoError(t, err)

	_, err = taskDomain.Update(ctx, &model.UpdateTaskRequest{
		ID:          task.Task.ID,
		ProjectID:   testutil.Project1.ID,
		Hours:       2,
		IsCompleted: true,
	})
	require.NoError(t, err)

	domain := newTestStatisticDomain(nil)
	stats, err := domain.GetUserStats(ctx, &model.GetUserStatsRequest{})
	require.NoError(t, err)

	require.Equal(t, float64(8), stats.TotalHours)
	require.Equal(t, int64(2), stats.TotalLogs)
	require.Equal(t, int64(1), stats.CompletedTasks)

	require.Len(t, stats.Streaks, 1)
	require.Equal(t, 2, stats.Streaks[0].CurrentCount)

	require.Len(t, stats.Heatmap, 2)
	for _, cell := range stats.Heatmap {
		require.NotEmpty(t, cell.Color)
	}

	// Stats of another user are visible but empty.
	stats, err = domain.GetUserStats(ctx, &model.GetUserStatsRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Zero(t, stats.TotalHours)
	require.Empty(t, stats.Heatmap)
}

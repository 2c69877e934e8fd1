package testutil

import (
	"context"
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
)

type MockLeaderboard struct {
	GetLeaderBoardFunc func(
		ctx context.Context,
		metric string,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]model.LeaderboardEntry, error)

	GetRankFunc func(
		ctx context.Context,
		userID, metric string,
		period entity.LeaderBoardPeriodType,
	) (uint64, error)

	ChangeHoursLeaderboardFunc func(
		ctx context.Context, delta float64, loggedAt time.Time, userID string,
	) error

	SetStreakLeaderboardFunc func(ctx context.Context, current int, userID string) error
}

func (m *MockLeaderboard) GetLeaderBoard(
	ctx context.Context,
	metric string,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]model.LeaderboardEntry, error) {
	if m.GetLeaderBoardFunc != nil {
		return m.GetLeaderBoardFunc(ctx, metric, period, offset, limit)
	}

	return nil, nil
}

func (m *MockLeaderboard) GetRank(
	ctx context.Context,
	userID, metric string,
	period entity.LeaderBoardPeriodType,
) (uint64, error) {
	if m.GetRankFunc != nil {
		return m.GetRankFunc(ctx, userID, metric, period)
	}

	return 0, nil
}

func (m *MockLeaderboard) ChangeHoursLeaderboard(
	ctx context.Context, delta float64, loggedAt time.Time, userID string,
) error {
	if m.ChangeHoursLeaderboardFunc != nil {
		return m.ChangeHoursLeaderboardFunc(ctx, delta, loggedAt, userID)
	}

	return nil
}

func (m *MockLeaderboard) SetStreakLeaderboard(ctx context.Context, current int, userID string) error {
	if m.SetStreakLeaderboardFunc != nil {
		return m.SetStreakLeaderboardFunc(ctx, current, userID)
	}

	return nil
}

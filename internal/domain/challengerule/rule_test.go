package challengerule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func newTestFactory() Factory {
	return NewFactory(repository.NewDailyLogRepository(), repository.NewStreakRepository())
}

func logDays(t *testing.T, ctx context.Context, userID string, days ...time.Time) {
	t.Helper()

	repo := repository.NewDailyLogRepository()
	for _, day := range days {
		err := repo.Create(ctx, &entity.DailyLog{
			Base:   entity.Base{ID: uuid.NewString()},
			UserID: userID,
			Date:   dateutil.BeginningOfDay(day),
			Hours:  1,
		})
		require.NoError(t, err)
	}
}

func Test_dailyStreakRule(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	factory := newTestFactory()

	_, err := factory.NewRule(ctx, entity.ChallengeDailyStreak, map[string]any{"target": 0})
	require.Error(t, err)

	_, err = factory.NewRule(ctx, entity.ChallengeDailyStreak, map[string]any{"target": 400})
	require.Error(t, err)

	rule, err := factory.NewRule(ctx, entity.ChallengeDailyStreak, map[string]any{"target": 4})
	require.NoError(t, err)

	challenge := &entity.Challenge{
		Type:      entity.ChallengeDailyStreak,
		StartDate: dateutil.Today().AddDate(0, 0, -7),
		EndDate:   dateutil.Today().AddDate(0, 0, 7),
	}

	// No streak row yet means zero progress, not an error.
	progress, err := rule.Evaluate(ctx, testutil.User1.ID, challenge)
	require.NoError(t, err)
	require.Zero(t, progress)

	err = repository.NewStreakRepository().Upsert(ctx, &entity.Streak{
		UserID:           testutil.User1.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     3,
		LongestCount:     3,
		LastActivityDate: dateutil.Today(),
	})
	require.NoError(t, err)

	progress, err = rule.Evaluate(ctx, testutil.User1.ID, challenge)
	require.NoError(t, err)
	require.Equal(t, 75, progress)
}

func Test_weeklyDaysRule(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	factory := newTestFactory()

	_, err := factory.NewRule(ctx, entity.ChallengeWeeklyDays, map[string]any{"days_per_week": 8})
	require.Error(t, err)

	rule, err := factory.NewRule(ctx, entity.ChallengeWeeklyDays, map[string]any{"days_per_week": 3})
	require.NoError(t, err)

	start := dateutil.Today().AddDate(0, 0, -14)
	challenge := &entity.Challenge{
		Type:      entity.ChallengeWeeklyDays,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 28),
	}

	// First week meets the quota, second week misses it.
	logDays(t, ctx, testutil.User1.ID,
		start, start.AddDate(0, 0, 2), start.AddDate(0, 0, 4),
		start.AddDate(0, 0, 7))

	progress, err := rule.Evaluate(ctx, testutil.User1.ID, challenge)
	require.NoError(t, err)

	// Three elapsed weeks (the current one counts), one of them met.
	require.Equal(t, 33, progress)
}

func Test_perfectWeekRule(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	factory := newTestFactory()

	rule, err := factory.NewRule(ctx, entity.ChallengePerfectWeek, nil)
	require.NoError(t, err)

	start := dateutil.Today().AddDate(0, 0, -14)
	challenge := &entity.Challenge{
		Type:      entity.ChallengePerfectWeek,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 28),
	}

	// Five days of the first week logged: best week is five of seven.
	days := []time.Time{}
	for i := 0; i < 5; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	logDays(t, ctx, testutil.User1.ID, days...)

	progress, err := rule.Evaluate(ctx, testutil.User1.ID, challenge)
	require.NoError(t, err)
	require.Equal(t, 71, progress)

	// Filling in the rest of the week completes the challenge.
	logDays(t, ctx, testutil.User1.ID, start.AddDate(0, 0, 5), start.AddDate(0, 0, 6))

	progress, err = rule.Evaluate(ctx, testutil.User1.ID, challenge)
	require.NoError(t, err)
	require.Equal(t, 100, progress)
}

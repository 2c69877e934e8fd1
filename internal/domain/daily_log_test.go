package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/domain/badge"
	"github.com/th3void/lotus-routine/internal/domain/challengerule"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestDailyLogDomain() *dailyLogDomain {
	dailyLogRepo := repository.NewDailyLogRepository()
	streakRepo := repository.NewStreakRepository()
	badgeRepo := repository.NewBadgeRepository()
	badgeDetailRepo := repository.NewBadgeDetailRepository()

	challengeDomain := NewChallengeDomain(
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		repository.NewUserRepository(),
		repository.NewNotificationRepository(),
		&testutil.MockNotificationEngineCaller{},
		challengerule.NewFactory(dailyLogRepo, streakRepo),
	)

	badgeManager := badge.NewManager(
		badgeRepo, badgeDetailRepo,
		badge.NewStreakWarriorBadgeScanner(badgeRepo, streakRepo),
		badge.NewCenturyClubBadgeScanner(badgeRepo, dailyLogRepo),
	)

	return NewDailyLogDomain(
		dailyLogRepo, streakRepo, challengeDomain, badgeManager, &testutil.MockLeaderboard{})
}

func Test_dailyLogDomain_Upsert(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestDailyLogDomain()

	resp, err := domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date:        dateutil.Date(dateutil.Today()),
		Hours:       2.5,
		Description: "first session",
	})
	require.NoError(t, err)
	require.Equal(t, 2.5, resp.DailyLog.Hours)

	var log entity.DailyLog
	tx := xcontext.DB(ctx).Take(&log, "id", resp.DailyLog.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, testutil.User1.ID, log.UserID)
	require.Equal(t, "first session", log.Description)

	streak, err := repository.NewStreakRepository().
		Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentCount)

	// A second write for the same date replaces the log instead of creating
	// another one, and leaves the streak alone.
	resp2, err := domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date:        dateutil.Date(dateutil.Today()),
		Hours:       4,
		Description: "longer session",
	})
	require.NoError(t, err)
	require.Equal(t, resp.DailyLog.ID, resp2.DailyLog.ID)
	require.Equal(t, float64(4), resp2.DailyLog.Hours)

	var count int64
	tx = xcontext.DB(ctx).Model(&entity.DailyLog{}).
		Where("user_id=?", testutil.User1.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(1), count)

	streak, err = repository.NewStreakRepository().
		Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentCount)
}

func Test_dailyLogDomain_Upsert_extendsStreak(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestDailyLogDomain()

	_, err := domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Yesterday()), Hours: 1})
	require.NoError(t, err)

	_, err = domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 1})
	require.NoError(t, err)

	streak, err := repository.NewStreakRepository().
		Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 2, streak.CurrentCount)
	require.Equal(t, 2, streak.LongestCount)
}

func Test_dailyLogDomain_Upsert_gapRestartsStreak(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestDailyLogDomain()

	_, err := domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today().AddDate(0, 0, -3)), Hours: 1})
	require.NoError(t, err)

	_, err = domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 1})
	require.NoError(t, err)

	streak, err := repository.NewStreakRepository().
		Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentCount)
	require.Equal(t, 1, streak.LongestCount)
}

func Test_dailyLogDomain_Upsert_invalidRequest(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestDailyLogDomain()

	_, err := domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today().AddDate(0, 0, 1)), Hours: 1})
	require.Error(t, err)
	require.Equal(t, "Cannot log a future date", err.Error())

	_, err = domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 25})
	require.Error(t, err)
	require.Equal(t, "Hours must be between 0 and 24", err.Error())

	_, err = domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: "30-08-2026", Hours: 1})
	require.Error(t, err)
}

func Test_dailyLogDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestDailyLogDomain()

	resp, err := domain.Upsert(ctx, &model.UpsertDailyLogRequest{
		Date: dateutil.Date(dateutil.Today()), Hours: 3})
	require.NoError(t, err)

	// Someone else cannot delete the log.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Delete(otherCtx, &model.DeleteDailyLogRequest{ID: resp.DailyLog.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = domain.Delete(ctx, &model.DeleteDailyLogRequest{ID: resp.DailyLog.ID})
	require.NoError(t, err)

	_, err = repository.NewDailyLogRepository().GetByID(ctx, resp.DailyLog.ID)
	require.Error(t, err)
}

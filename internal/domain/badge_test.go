package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_badgeDomain_GetMine(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	badgeRepo := repository.NewBadgeRepository()
	err := badgeRepo.Create(ctx, &entity.Badge{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        "streak_warrior",
		Level:       1,
		Value:       1,
		Description: "Log one day",
	})
	require.NoError(t, err)

	err = badgeRepo.Create(ctx, &entity.Badge{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        "streak_warrior",
		Level:       2,
		Value:       7,
		Description: "Log seven days in a row",
	})
	require.NoError(t, err)

	domain := NewBadgeDomain(badgeRepo, repository.NewBadgeDetailRepository())

	all, err := domain.GetAll(ctx, &model.GetAllBadgesRequest{})
	require.NoError(t, err)
	require.Len(t, all.Badges, 2)

	mine, err := domain.GetMine(ctx, &model.GetMyBadgesRequest{})
	require.NoError(t, err)
	require.Empty(t, mine.Badges)

	// A first daily log starts a one-day streak, which earns the level-1
	// badge through the scanner.
	_, err = newTestDailyLogDomain().Upsert(ctx, &model.UpsertDailyLogRequest{
		Date:  dateutil.Date(dateutil.Today()),
		Hours: 1,
	})
	require.NoError(t, err)

	mine, err = domain.GetMine(ctx, &model.GetMyBadgesRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Badges, 1)
	require.Equal(t, "streak_warrior", mine.Badges[0].Name)
	require.Equal(t, 1, mine.Badges[0].Level)
	require.False(t, mine.Badges[0].WasNotified)

	_, err = domain.Follow(ctx, &model.FollowBadgesRequest{})
	require.NoError(t, err)

	mine, err = domain.GetMine(ctx, &model.GetMyBadgesRequest{})
	require.NoError(t, err)
	require.True(t, mine.Badges[0].WasNotified)
}

package badge

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_Manager_ScanAndGive(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	badgeRepo := repository.NewBadgeRepository()
	badgeDetailRepo := repository.NewBadgeDetailRepository()

	level1 := entity.Badge{Base: entity.Base{ID: uuid.NewString()}, Name: "tester", Level: 1, Value: 1}
	level2 := entity.Badge{Base: entity.Base{ID: uuid.NewString()}, Name: "tester", Level: 2, Value: 5}
	require.NoError(t, badgeRepo.Create(ctx, &level1))
	require.NoError(t, badgeRepo.Create(ctx, &level2))

	scanner := &testutil.MockBadgeScanner{
		NameValue: "tester",
		ScanFunc: func(ctx context.Context, userID string) ([]entity.Badge, error) {
			return []entity.Badge{level1}, nil
		},
	}

	manager := NewManager(badgeRepo, badgeDetailRepo, scanner)

	err := manager.WithBadges("tester").ScanAndGive(ctx, testutil.User1.ID)
	require.NoError(t, err)

	details, err := badgeDetailRepo.GetAll(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, level1.ID, details[0].BadgeID)

	// Scanning again with the same result gives nothing new.
	err = manager.WithBadges("tester").ScanAndGive(ctx, testutil.User1.ID)
	require.NoError(t, err)

	details, err = badgeDetailRepo.GetAll(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)

	// Once the scanner reports a higher level, only that level is granted.
	scanner.ScanFunc = func(ctx context.Context, userID string) ([]entity.Badge, error) {
		return []entity.Badge{level1, level2}, nil
	}

	err = manager.WithBadges("tester").ScanAndGive(ctx, testutil.User1.ID)
	require.NoError(t, err)

	details, err = badgeDetailRepo.GetAll(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)

	err = manager.WithBadges("unknown").ScanAndGive(ctx, testutil.User1.ID)
	require.Error(t, err)
}

func Test_Manager_GetAllBadgeNames(t *testing.T) {
	manager := NewManager(
		repository.NewBadgeRepository(),
		repository.NewBadgeDetailRepository(),
		&testutil.MockBadgeScanner{NameValue: "a"},
		&testutil.MockBadgeScanner{NameValue: "b"},
	)

	require.ElementsMatch(t, []string{"a", "b"}, manager.GetAllBadgeNames())
}

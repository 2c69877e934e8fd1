package badge

import (
	"context"
	"errors"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

const StreakWarriorBadgeName = "streak_warrior"

// streakWarriorBadgeScanner scans badge level based on the user's current
// daily-log streak.
type streakWarriorBadgeScanner struct {
	badgeRepo  repository.BadgeRepository
	streakRepo repository.StreakRepository
}

func NewStreakWarriorBadgeScanner(
	badgeRepo repository.BadgeRepository,
	streakRepo repository.StreakRepository,
) *streakWarriorBadgeScanner {
	return &streakWarriorBadgeScanner{
		badgeRepo:  badgeRepo,
		streakRepo: streakRepo,
	}
}

func (*streakWarriorBadgeScanner) Name() string {
	return StreakWarriorBadgeName
}

func (s *streakWarriorBadgeScanner) Scan(ctx context.Context, userID string) ([]entity.Badge, error) {
	streak, err := s.streakRepo.Get(ctx, userID, entity.StreakDailyLog)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get streak: %v", err)
		return nil, errorx.Unknown
	}

	suitableBadges, err := s.badgeRepo.GetLessThanValue(ctx, s.Name(), streak.CurrentCount)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the suitable badge of %s: %v", s.Name(), err)
		return nil, errorx.Unknown
	}

	return suitableBadges, nil
}

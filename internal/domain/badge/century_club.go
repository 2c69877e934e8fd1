package badge

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

const CenturyClubBadgeName = "century_club"

// centuryClubBadgeScanner scans badge level based on the user's all-time
// logged hours.
type centuryClubBadgeScanner struct {
	badgeRepo    repository.BadgeRepository
	dailyLogRepo repository.DailyLogRepository
}

func NewCenturyClubBadgeScanner(
	badgeRepo repository.BadgeRepository,
	dailyLogRepo repository.DailyLogRepository,
) *centuryClubBadgeScanner {
	return &centuryClubBadgeScanner{
		badgeRepo:    badgeRepo,
		dailyLogRepo: dailyLogRepo,
	}
}

func (*centuryClubBadgeScanner) Name() string {
	return CenturyClubBadgeName
}

func (s *centuryClubBadgeScanner) Scan(ctx context.Context, userID string) ([]entity.Badge, error) {
	totalHours, err := s.dailyLogRepo.SumHours(ctx, repository.DailyLogFilter{UserID: userID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum logged hours: %v", err)
		return nil, errorx.Unknown
	}

	suitableBadges, err := s.badgeRepo.GetLessThanValue(ctx, s.Name(), int(totalHours))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the suitable badge of %s: %v", s.Name(), err)
		return nil, errorx.Unknown
	}

	return suitableBadges, nil
}

package badge

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

const SocialButterflyBadgeName = "social_butterfly"

// socialButterflyBadgeScanner scans badge level based on the number of
// accepted friends.
type socialButterflyBadgeScanner struct {
	badgeRepo      repository.BadgeRepository
	friendshipRepo repository.FriendshipRepository
}

func NewSocialButterflyBadgeScanner(
	badgeRepo repository.BadgeRepository,
	friendshipRepo repository.FriendshipRepository,
) *socialButterflyBadgeScanner {
	return &socialButterflyBadgeScanner{
		badgeRepo:      badgeRepo,
		friendshipRepo: friendshipRepo,
	}
}

func (*socialButterflyBadgeScanner) Name() string {
	return SocialButterflyBadgeName
}

func (s *socialButterflyBadgeScanner) Scan(ctx context.Context, userID string) ([]entity.Badge, error) {
	numFriends, err := s.friendshipRepo.CountFriends(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count friends: %v", err)
		return nil, errorx.Unknown
	}

	suitableBadges, err := s.badgeRepo.GetLessThanValue(ctx, s.Name(), int(numFriends))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the suitable badge of %s: %v", s.Name(), err)
		return nil, errorx.Unknown
	}

	return suitableBadges, nil
}

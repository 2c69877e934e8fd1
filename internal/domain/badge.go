package domain

import (
	"context"

	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type BadgeDomain interface {
	GetAll(context.Context, *model.GetAllBadgesRequest) (*model.GetAllBadgesResponse, error)
	GetMine(context.Context, *model.GetMyBadgesRequest) (*model.GetMyBadgesResponse, error)
	Follow(context.Context, *model.FollowBadgesRequest) (*model.FollowBadgesResponse, error)
}

type badgeDomain struct {
	badgeRepo       repository.BadgeRepository
	badgeDetailRepo repository.BadgeDetailRepository
}

func NewBadgeDomain(
	badgeRepo repository.BadgeRepository,
	badgeDetailRepo repository.BadgeDetailRepository,
) *badgeDomain {
	return &badgeDomain{badgeRepo: badgeRepo, badgeDetailRepo: badgeDetailRepo}
}

func (d *badgeDomain) GetAll(
	ctx context.Context, req *model.GetAllBadgesRequest,
) (*model.GetAllBadgesResponse, error) {
	badges, err := d.badgeRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badges: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Badge{}
	for i := range badges {
		result = append(result, model.ConvertBadge(&badges[i], nil))
	}

	return &model.GetAllBadgesResponse{Badges: result}, nil
}

func (d *badgeDomain) GetMine(
	ctx context.Context, req *model.GetMyBadgesRequest,
) (*model.GetMyBadgesResponse, error) {
	details, err := d.badgeDetailRepo.GetAll(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badge details: %v", err)
		return nil, errorx.Unknown
	}

	ids := []string{}
	for _, detail := range details {
		ids = append(ids, detail.BadgeID)
	}

	badges, err := d.badgeRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badges: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]int{}
	for i := range badges {
		byID[badges[i].ID] = i
	}

	result := []model.Badge{}
	for i := range details {
		if j, ok := byID[details[i].BadgeID]; ok {
			result = append(result, model.ConvertBadge(&badges[j], &details[i]))
		}
	}

	return &model.GetMyBadgesResponse{Badges: result}, nil
}

// Follow marks all of the requester's badges as notified, so clients stop
// highlighting them as new.
func (d *badgeDomain) Follow(
	ctx context.Context, req *model.FollowBadgesRequest,
) (*model.FollowBadgesResponse, error) {
	err := d.badgeDetailRepo.UpdateNotification(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update badge notification: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FollowBadgesResponse{}, nil
}

package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/domain/badge"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type FriendshipDomain interface {
	SendRequest(context.Context, *model.SendFriendRequestRequest) (*model.SendFriendRequestResponse, error)
	Accept(context.Context, *model.AcceptFriendRequestRequest) (*model.AcceptFriendRequestResponse, error)
	Decline(context.Context, *model.DeclineFriendRequestRequest) (*model.DeclineFriendRequestResponse, error)
	Unfriend(context.Context, *model.UnfriendRequest) (*model.UnfriendResponse, error)
	GetFriends(context.Context, *model.GetFriendsRequest) (*model.GetFriendsResponse, error)
	GetPendingRequests(context.Context, *model.GetPendingRequestsRequest) (*model.GetPendingRequestsResponse, error)
}

type friendshipDomain struct {
	friendshipRepo   repository.FriendshipRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	badgeManager     *badge.Manager
	engineCaller     client.NotificationEngineCaller
}

func NewFriendshipDomain(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	badgeManager *badge.Manager,
	engineCaller client.NotificationEngineCaller,
) *friendshipDomain {
	return &friendshipDomain{
		friendshipRepo:   friendshipRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		badgeManager:     badgeManager,
		engineCaller:     engineCaller,
	}
}

func (d *friendshipDomain) SendRequest(
	ctx context.Context, req *model.SendFriendRequestRequest,
) (*model.SendFriendRequestResponse, error) {
	requesterID := xcontext.RequestUserID(ctx)
	if req.UserID == requesterID {
		return nil, errorx.New(errorx.BadRequest, "Cannot send a friend request to yourself")
	}

	target, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.friendshipRepo.GetByPair(ctx, requesterID, req.UserID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists,
			"There is already a friendship or a pending request between you two")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing friendship: %v", err)
		return nil, errorx.Unknown
	}

	friendship := &entity.Friendship{
		Base:        entity.Base{ID: uuid.NewString()},
		RequesterID: requesterID,
		TargetID:    req.UserID,
		Status:      entity.FriendshipPending,
	}

	if err := d.friendshipRepo.Create(ctx, friendship); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create friendship: %v", err)
		return nil, errorx.Unknown
	}

	requester, err := d.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get requester: %v", err)
		return nil, errorx.Unknown
	}

	pushNotification(ctx, d.notificationRepo, d.engineCaller, &entity.Notification{
		Base:    entity.Base{ID: uuid.NewString()},
		UserID:  target.ID,
		Type:    entity.NotificationFriendRequest,
		Title:   "New friend request",
		Message: requester.Name + " wants to be your friend",
		Metadata: entity.Map{
			"friendship_id": friendship.ID,
			"user_id":       requester.ID,
		},
	})

	return &model.SendFriendRequestResponse{
		Friendship: model.ConvertFriendship(
			friendship, model.ConvertShortUser(requester), model.ConvertShortUser(target)),
	}, nil
}

func (d *friendshipDomain) Accept(
	ctx context.Context, req *model.AcceptFriendRequestRequest,
) (*model.AcceptFriendRequestResponse, error) {
	friendship, err := d.getPending(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Only the person who received the request can accept it.
	userID := xcontext.RequestUserID(ctx)
	if friendship.TargetID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	err = d.friendshipRepo.UpdateStatus(ctx, req.ID, entity.FriendshipAccepted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot accept friendship: %v", err)
		return nil, errorx.Unknown
	}

	accepter, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	pushNotification(ctx, d.notificationRepo, d.engineCaller, &entity.Notification{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   friendship.RequesterID,
		Type:     entity.NotificationFriendAccepted,
		Title:    "Friend request accepted",
		Message:  accepter.Name + " accepted your friend request",
		Metadata: entity.Map{"user_id": accepter.ID},
	})

	for _, id := range []string{friendship.RequesterID, friendship.TargetID} {
		err := d.badgeManager.WithBadges(badge.SocialButterflyBadgeName).ScanAndGive(ctx, id)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot scan badges: %v", err)
		}
	}

	return &model.AcceptFriendRequestResponse{}, nil
}

func (d *friendshipDomain) Decline(
	ctx context.Context, req *model.DeclineFriendRequestRequest,
) (*model.DeclineFriendRequestResponse, error) {
	friendship, err := d.getPending(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// The target declines, the requester cancels. Both remove the row.
	userID := xcontext.RequestUserID(ctx)
	if friendship.TargetID != userID && friendship.RequesterID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.friendshipRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friendship: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeclineFriendRequestResponse{}, nil
}

func (d *friendshipDomain) Unfriend(
	ctx context.Context, req *model.UnfriendRequest,
) (*model.UnfriendResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	friendship, err := d.friendshipRepo.GetByPair(ctx, userID, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not friends")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friendship: %v", err)
		return nil, errorx.Unknown
	}

	if friendship.Status != entity.FriendshipAccepted {
		return nil, errorx.New(errorx.NotFound, "You are not friends")
	}

	if err := d.friendshipRepo.DeleteByID(ctx, friendship.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friendship: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnfriendResponse{}, nil
}

func (d *friendshipDomain) GetFriends(
	ctx context.Context, req *model.GetFriendsRequest,
) (*model.GetFriendsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	friendships, err := d.friendshipRepo.GetFriends(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendships: %v", err)
		return nil, errorx.Unknown
	}

	friendIDs := []string{}
	for _, f := range friendships {
		if f.RequesterID == userID {
			friendIDs = append(friendIDs, f.TargetID)
		} else {
			friendIDs = append(friendIDs, f.RequesterID)
		}
	}

	friends, err := d.userRepo.GetByIDs(ctx, friendIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friends: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.ShortUser{}
	for i := range friends {
		result = append(result, model.ConvertShortUser(&friends[i]))
	}

	return &model.GetFriendsResponse{Friends: result}, nil
}

func (d *friendshipDomain) GetPendingRequests(
	ctx context.Context, req *model.GetPendingRequestsRequest,
) (*model.GetPendingRequestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	received, err := d.friendshipRepo.GetPendingToUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get received requests: %v", err)
		return nil, errorx.Unknown
	}

	sent, err := d.friendshipRepo.GetPendingFromUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get sent requests: %v", err)
		return nil, errorx.Unknown
	}

	receivedModels, err := d.convertAll(ctx, received)
	if err != nil {
		return nil, err
	}

	sentModels, err := d.convertAll(ctx, sent)
	if err != nil {
		return nil, err
	}

	return &model.GetPendingRequestsResponse{
		Received: receivedModels,
		Sent:     sentModels,
	}, nil
}

func (d *friendshipDomain) getPending(ctx context.Context, id string) (*entity.Friendship, error) {
	friendship, err := d.friendshipRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friendship: %v", err)
		return nil, errorx.Unknown
	}

	if friendship.Status != entity.FriendshipPending {
		return nil, errorx.New(errorx.NotFound, "Not found friend request")
	}

	return friendship, nil
}

func (d *friendshipDomain) convertAll(
	ctx context.Context, friendships []entity.Friendship,
) ([]model.Friendship, error) {
	ids := []string{}
	for _, f := range friendships {
		ids = append(ids, f.RequesterID, f.TargetID)
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users of friendships: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]*entity.User{}
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := []model.Friendship{}
	for i := range friendships {
		f := &friendships[i]
		result = append(result, model.ConvertFriendship(f,
			model.ConvertShortUser(byID[f.RequesterID]),
			model.ConvertShortUser(byID[f.TargetID])))
	}

	return result, nil
}

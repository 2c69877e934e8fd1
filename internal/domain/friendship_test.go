package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/domain/badge"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestFriendshipDomain() *friendshipDomain {
	badgeRepo := repository.NewBadgeRepository()
	friendshipRepo := repository.NewFriendshipRepository()

	badgeManager := badge.NewManager(
		badgeRepo, repository.NewBadgeDetailRepository(),
		badge.NewSocialButterflyBadgeScanner(badgeRepo, friendshipRepo),
	)

	return NewFriendshipDomain(
		friendshipRepo,
		repository.NewUserRepository(),
		repository.NewNotificationRepository(),
		badgeManager,
		&testutil.MockNotificationEngineCaller{},
	)
}

func Test_friendshipDomain_SendRequest(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestFriendshipDomain()

	resp, err := domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, resp.Friendship.Requester.Name)
	require.Equal(t, testutil.User2.Name, resp.Friendship.Target.Name)

	// The target got an in-app notification.
	var notification entity.Notification
	tx := xcontext.DB(ctx).Take(&notification, "user_id", testutil.User2.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.NotificationFriendRequest, notification.Type)

	// Only one friendship row can exist per pair, in either direction.
	_, err = domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.Error(t, err)

	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.SendRequest(ctx2, &model.SendFriendRequestRequest{UserID: testutil.User1.ID})
	require.Error(t, err)

	_, err = domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User1.ID})
	require.Error(t, err)
	require.Equal(t, "Cannot send a friend request to yourself", err.Error())

	_, err = domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: "nobody"})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

func Test_friendshipDomain_Accept(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestFriendshipDomain()

	resp, err := domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	// The requester cannot accept their own request.
	_, err = domain.Accept(ctx, &model.AcceptFriendRequestRequest{ID: resp.Friendship.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	targetCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Accept(targetCtx, &model.AcceptFriendRequestRequest{ID: resp.Friendship.ID})
	require.NoError(t, err)

	friendship, err := repository.NewFriendshipRepository().GetByID(ctx, resp.Friendship.ID)
	require.NoError(t, err)
	require.Equal(t, entity.FriendshipAccepted, friendship.Status)

	// An accepted friendship is no longer a pending request.
	_, err = domain.Accept(targetCtx, &model.AcceptFriendRequestRequest{ID: resp.Friendship.ID})
	require.Error(t, err)

	friends, err := domain.GetFriends(ctx, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, friends.Friends, 1)
	require.Equal(t, testutil.User2.Name, friends.Friends[0].Name)
}

func Test_friendshipDomain_Decline(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestFriendshipDomain()

	resp, err := domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	// A bystander can neither decline nor cancel.
	ctx3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err = domain.Decline(ctx3, &model.DeclineFriendRequestRequest{ID: resp.Friendship.ID})
	require.Error(t, err)

	targetCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Decline(targetCtx, &model.DeclineFriendRequestRequest{ID: resp.Friendship.ID})
	require.NoError(t, err)

	// Declining removes the row, so a new request can be sent.
	_, err = domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
}

func Test_friendshipDomain_Unfriend(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestFriendshipDomain()

	resp, err := domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	// A pending request is not a friendship yet.
	_, err = domain.Unfriend(ctx, &model.UnfriendRequest{UserID: testutil.User2.ID})
	require.Error(t, err)
	require.Equal(t, "You are not friends", err.Error())

	targetCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Accept(targetCtx, &model.AcceptFriendRequestRequest{ID: resp.Friendship.ID})
	require.NoError(t, err)

	_, err = domain.Unfriend(targetCtx, &model.UnfriendRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)

	friends, err := domain.GetFriends(ctx, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Empty(t, friends.Friends)
}

func Test_friendshipDomain_GetPendingRequests(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestFriendshipDomain()

	_, err := domain.SendRequest(ctx, &model.SendFriendRequestRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	ctx3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err = domain.SendRequest(ctx3, &model.SendFriendRequestRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)

	pending, err := domain.GetPendingRequests(ctx, &model.GetPendingRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Received, 1)
	require.Equal(t, testutil.User3.Name, pending.Received[0].Requester.Name)
	require.Len(t, pending.Sent, 1)
	require.Equal(t, testutil.User2.Name, pending.Sent[0].Target.Name)
}

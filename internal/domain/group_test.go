package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestGroupDomain(searchCaller *testutil.MockSearchCaller) *groupDomain {
	if searchCaller == nil {
		searchCaller = &testutil.MockSearchCaller{}
	}

	return NewGroupDomain(
		repository.NewGroupRepository(),
		repository.NewGroupMemberRepository(),
		repository.NewUserRepository(),
		repository.NewChatChannelRepository(),
		repository.NewNotificationRepository(),
		&testutil.MockNotificationEngineCaller{},
		searchCaller,
	)
}

func Test_groupDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestGroupDomain(nil)

	resp, err := domain.Create(ctx, &model.CreateGroupRequest{
		Name:        "Focus Club",
		Description: "Accountability for deep workers",
	})
	require.NoError(t, err)
	require.Equal(t, "Focus Club", resp.Group.Name)
	require.Equal(t, testutil.User1.Name, resp.Group.Owner.Name)
	require.Equal(t, int64(1), resp.Group.MemberCount)
	require.NotEmpty(t, resp.Group.InviteCode)

	// The owner becomes a group admin and the group gets a chat channel.
	member, err := repository.NewGroupMemberRepository().Get(ctx, resp.Group.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.GroupRoleAdmin, member.Role)

	channel, err := repository.NewChatChannelRepository().GetByGroupID(ctx, resp.Group.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ChannelGroup, channel.Type)

	_, err = domain.Create(ctx, &model.CreateGroupRequest{})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty name", err.Error())
}

func Test_groupDomain_JoinByCode(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestGroupDomain(nil)

	created, err := domain.Create(ctx, &model.CreateGroupRequest{
		Name:      "Secret Society",
		IsPrivate: true,
	})
	require.NoError(t, err)

	// Private groups reject direct joins but accept the invite code.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Join(ctx2, &model.JoinGroupRequest{ID: created.Group.ID})
	require.Error(t, err)
	require.Equal(t, "This group is private", err.Error())

	joined, err := domain.JoinByCode(ctx2, &model.JoinGroupByCodeRequest{
		InviteCode: created.Group.InviteCode,
	})
	require.NoError(t, err)
	require.Equal(t, created.Group.ID, joined.Group.ID)
	require.Equal(t, int64(2), joined.Group.MemberCount)

	_, err = domain.JoinByCode(ctx2, &model.JoinGroupByCodeRequest{
		InviteCode: created.Group.InviteCode,
	})
	require.Error(t, err)
	require.Equal(t, "You already joined this group", err.Error())

	_, err = domain.JoinByCode(ctx2, &model.JoinGroupByCodeRequest{InviteCode: "WRONG"})
	require.Error(t, err)
	require.Equal(t, "Invalid invite code", err.Error())
}

func Test_groupDomain_LeaveAndKick(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestGroupDomain(nil)

	created, err := domain.Create(ctx, &model.CreateGroupRequest{Name: "Morning Crew"})
	require.NoError(t, err)

	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Join(ctx2, &model.JoinGroupRequest{ID: created.Group.ID})
	require.NoError(t, err)

	// The owner must delete or hand over the group instead of leaving.
	_, err = domain.Leave(ctx, &model.LeaveGroupRequest{ID: created.Group.ID})
	require.Error(t, err)

	// A plain member cannot kick anyone.
	_, err = domain.KickMember(ctx2, &model.KickMemberRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User1.ID,
	})
	require.Error(t, err)

	_, err = domain.KickMember(ctx, &model.KickMemberRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Cannot kick the group owner", err.Error())

	_, err = domain.KickMember(ctx, &model.KickMemberRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User2.ID,
	})
	require.NoError(t, err)

	_, err = repository.NewGroupMemberRepository().Get(ctx, created.Group.ID, testutil.User2.ID)
	require.Error(t, err)

	// The kicked user is told about it.
	var notification entity.Notification
	tx := xcontext.DB(ctx).Take(&notification, "user_id", testutil.User2.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.NotificationGroupKick, notification.Type)
}

func Test_groupDomain_TransferOwnership(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestGroupDomain(nil)

	created, err := domain.Create(ctx, &model.CreateGroupRequest{Name: "Handover Club"})
	require.NoError(t, err)

	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Join(ctx2, &model.JoinGroupRequest{ID: created.Group.ID})
	require.NoError(t, err)

	// Only the owner can hand the group over, and only to a member.
	_, err = domain.TransferOwnership(ctx2, &model.TransferGroupOwnershipRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User2.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Only the owner can transfer ownership", err.Error())

	_, err = domain.TransferOwnership(ctx, &model.TransferGroupOwnershipRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User3.ID,
	})
	require.Error(t, err)
	require.Equal(t, "The user is not a member of this group", err.Error())

	_, err = domain.TransferOwnership(ctx, &model.TransferGroupOwnershipRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "You already own this group", err.Error())

	_, err = domain.TransferOwnership(ctx, &model.TransferGroupOwnershipRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User2.ID,
	})
	require.NoError(t, err)

	group, err := repository.NewGroupRepository().GetByID(ctx, created.Group.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, group.OwnerID)

	member, err := repository.NewGroupMemberRepository().Get(ctx, created.Group.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.GroupRoleAdmin, member.Role)

	var notification entity.Notification
	tx := xcontext.DB(ctx).Take(&notification, "user_id", testutil.User2.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.NotificationGroupOwnership, notification.Type)

	// The previous owner is a plain member again and may leave.
	_, err = domain.Leave(ctx, &model.LeaveGroupRequest{ID: created.Group.ID})
	require.NoError(t, err)
}

func Test_groupDomain_ChangeMemberRole(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestGroupDomain(nil)

	created, err := domain.Create(ctx, &model.CreateGroupRequest{Name: "Study Group"})
	require.NoError(t, err)

	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Join(ctx2, &model.JoinGroupRequest{ID: created.Group.ID})
	require.NoError(t, err)

	_, err = domain.ChangeMemberRole(ctx, &model.ChangeMemberRoleRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User2.ID,
		Role:    "admin",
	})
	require.NoError(t, err)

	member, err := repository.NewGroupMemberRepository().Get(ctx, created.Group.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.GroupRoleAdmin, member.Role)

	_, err = domain.ChangeMemberRole(ctx, &model.ChangeMemberRoleRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User1.ID,
		Role:    "member",
	})
	require.Error(t, err)
	require.Equal(t, "Cannot change the owner role", err.Error())

	_, err = domain.ChangeMemberRole(ctx, &model.ChangeMemberRoleRequest{
		GroupID: created.Group.ID,
		UserID:  testutil.User2.ID,
		Role:    "president",
	})
	require.Error(t, err)
}

func Test_groupDomain_GetPrivacy(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestGroupDomain(nil)

	created, err := domain.Create(ctx, &model.CreateGroupRequest{
		Name:      "Hidden",
		IsPrivate: true,
	})
	require.NoError(t, err)

	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.Get(ctx2, &model.GetGroupRequest{ID: created.Group.ID})
	require.Error(t, err)
	require.Equal(t, "This group is private", err.Error())

	_, err = domain.GetMembers(ctx2, &model.GetGroupMembersRequest{GroupID: created.Group.ID})
	require.Error(t, err)

	got, err := domain.Get(ctx, &model.GetGroupRequest{ID: created.Group.ID})
	require.NoError(t, err)
	require.Equal(t, created.Group.ID, got.ID)

	members, err := domain.GetMembers(ctx, &model.GetGroupMembersRequest{GroupID: created.Group.ID})
	require.NoError(t, err)
	require.Len(t, members.Members, 1)
	require.Equal(t, testutil.User1.Name, members.Members[0].User.Name)
}

func Test_groupDomain_Search(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	searchCaller := &testutil.MockSearchCaller{}
	domain := newTestGroupDomain(searchCaller)

	public, err := domain.Create(ctx, &model.CreateGroupRequest{Name: "Runners"})
	require.NoError(t, err)

	private, err := domain.Create(ctx, &model.CreateGroupRequest{Name: "Runners Inner Circle", IsPrivate: true})
	require.NoError(t, err)

	searchCaller.SearchGroupFunc = func(
		ctx context.Context, query string, offset, limit int,
	) ([]string, error) {
		return []string{public.Group.ID, private.Group.ID}, nil
	}

	resp, err := domain.Search(ctx, &model.SearchGroupsRequest{Q: "runners"})
	require.NoError(t, err)

	// Private groups never leak through search results.
	require.Len(t, resp.Groups, 1)
	require.Equal(t, public.Group.ID, resp.Groups[0].ID)

	_, err = domain.Search(ctx, &model.SearchGroupsRequest{})
	require.Error(t, err)
}

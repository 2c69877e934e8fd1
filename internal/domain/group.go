package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/domain/search"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/enum"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/sanitize"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type GroupDomain interface {
	Create(context.Context, *model.CreateGroupRequest) (*model.CreateGroupResponse, error)
	Update(context.Context, *model.UpdateGroupRequest) (*model.UpdateGroupResponse, error)
	Delete(context.Context, *model.DeleteGroupRequest) (*model.DeleteGroupResponse, error)
	JoinByCode(context.Context, *model.JoinGroupByCodeRequest) (*model.JoinGroupByCodeResponse, error)
	Join(context.Context, *model.JoinGroupRequest) (*model.JoinGroupResponse, error)
	Leave(context.Context, *model.LeaveGroupRequest) (*model.LeaveGroupResponse, error)
	TransferOwnership(context.Context, *model.TransferGroupOwnershipRequest) (*model.TransferGroupOwnershipResponse, error)
	KickMember(context.Context, *model.KickMemberRequest) (*model.KickMemberResponse, error)
	ChangeMemberRole(context.Context, *model.ChangeMemberRoleRequest) (*model.ChangeMemberRoleResponse, error)
	GetList(context.Context, *model.GetGroupsRequest) (*model.GetGroupsResponse, error)
	Get(context.Context, *model.GetGroupRequest) (*model.GetGroupResponse, error)
	GetMembers(context.Context, *model.GetGroupMembersRequest) (*model.GetGroupMembersResponse, error)
	Search(context.Context, *model.SearchGroupsRequest) (*model.SearchGroupsResponse, error)
}

type groupDomain struct {
	groupRepo         repository.GroupRepository
	groupMemberRepo   repository.GroupMemberRepository
	userRepo          repository.UserRepository
	chatChannelRepo   repository.ChatChannelRepository
	notificationRepo  repository.NotificationRepository
	engineCaller      client.NotificationEngineCaller
	searchCaller      client.SearchCaller
	groupRoleVerifier *common.GroupRoleVerifier
}

func NewGroupDomain(
	groupRepo repository.GroupRepository,
	groupMemberRepo repository.GroupMemberRepository,
	userRepo repository.UserRepository,
	chatChannelRepo repository.ChatChannelRepository,
	notificationRepo repository.NotificationRepository,
	engineCaller client.NotificationEngineCaller,
	searchCaller client.SearchCaller,
) *groupDomain {
	return &groupDomain{
		groupRepo:         groupRepo,
		groupMemberRepo:   groupMemberRepo,
		userRepo:          userRepo,
		chatChannelRepo:   chatChannelRepo,
		notificationRepo:  notificationRepo,
		engineCaller:      engineCaller,
		searchCaller:      searchCaller,
		groupRoleVerifier: common.NewGroupRoleVerifier(groupMemberRepo, userRepo),
	}
}

func (d *groupDomain) Create(
	ctx context.Context, req *model.CreateGroupRequest,
) (*model.CreateGroupResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	inviteCode, err := common.GenerateInviteCode()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate invite code: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	group := &entity.Group{
		Base:        entity.Base{ID: uuid.NewString()},
		OwnerID:     userID,
		Name:        req.Name,
		Description: sanitize.UGC(req.Description),
		InviteCode:  inviteCode,
		IsPrivate:   req.IsPrivate,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.groupRepo.Create(ctx, group); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create group: %v", err)
		return nil, errorx.Unknown
	}

	err = d.groupMemberRepo.Create(ctx, &entity.GroupMember{
		GroupID: group.ID,
		UserID:  userID,
		Role:    entity.GroupRoleAdmin,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create group owner membership: %v", err)
		return nil, errorx.Unknown
	}

	err = d.chatChannelRepo.Create(ctx, &entity.ChatChannel{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Type:          entity.ChannelGroup,
		GroupID:       sql.NullString{Valid: true, String: group.ID},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create group channel: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if !group.IsPrivate {
		err := d.searchCaller.IndexGroup(ctx, group.ID,
			search.GroupData{Name: group.Name, Description: group.Description})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot index group %s: %v", group.ID, err)
		}
	}

	owner, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owner: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateGroupResponse{
		Group: model.ConvertGroup(group, model.ConvertShortUser(owner), 1, true),
	}, nil
}

func (d *groupDomain) Update(
	ctx context.Context, req *model.UpdateGroupRequest,
) (*model.UpdateGroupResponse, error) {
	err := d.groupRoleVerifier.Verify(ctx, req.ID, entity.GroupRoleAdmin)
	if err != nil {
		return nil, err
	}

	updated := map[string]any{
		"description": sanitize.UGC(req.Description),
		"is_private":  req.IsPrivate,
	}
	if req.Name != "" {
		updated["name"] = req.Name
	}

	if err := d.groupRepo.UpdateByID(ctx, req.ID, updated); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update group: %v", err)
		return nil, errorx.Unknown
	}

	group, err := d.groupRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get group after update: %v", err)
		return nil, errorx.Unknown
	}

	if group.IsPrivate {
		if err := d.searchCaller.DeleteGroup(ctx, group.ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot unindex group %s: %v", group.ID, err)
		}
	} else {
		err := d.searchCaller.IndexGroup(ctx, group.ID,
			search.GroupData{Name: group.Name, Description: group.Description})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot index group %s: %v", group.ID, err)
		}
	}

	return &model.UpdateGroupResponse{Group: d.convertGroup(ctx, group, true)}, nil
}

func (d *groupDomain) Delete(
	ctx context.Context, req *model.DeleteGroupRequest,
) (*model.DeleteGroupResponse, error) {
	group, err := d.getGroup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if group.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can delete the group")
	}

	channel, err := d.chatChannelRepo.GetByGroupID(ctx, req.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get group channel: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.groupMemberRepo.DeleteByGroupID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete group members: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.chatChannelRepo.DeleteByGroupID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete group channel: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.groupRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete group: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.searchCaller.DeleteGroup(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unindex group %s: %v", req.ID, err)
	}

	if channel != nil {
		ev := event.New(
			&event.ChannelDeletedEvent{ChannelID: channel.ID},
			event.Metadata{ToChannel: channel.ID},
		)
		if err := d.engineCaller.Emit(ctx, ev); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot emit channel deleted event: %v", err)
		}
	}

	return &model.DeleteGroupResponse{}, nil
}

func (d *groupDomain) JoinByCode(
	ctx context.Context, req *model.JoinGroupByCodeRequest,
) (*model.JoinGroupByCodeResponse, error) {
	group, err := d.groupRepo.GetByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Invalid invite code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group by invite code: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.join(ctx, group); err != nil {
		return nil, err
	}

	return &model.JoinGroupByCodeResponse{Group: d.convertGroup(ctx, group, false)}, nil
}

func (d *groupDomain) Join(
	ctx context.Context, req *model.JoinGroupRequest,
) (*model.JoinGroupResponse, error) {
	group, err := d.getGroup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Private groups are only joinable by invite code.
	if group.IsPrivate {
		return nil, errorx.New(errorx.PermissionDenied, "This group is private")
	}

	if err := d.join(ctx, group); err != nil {
		return nil, err
	}

	return &model.JoinGroupResponse{}, nil
}

func (d *groupDomain) Leave(
	ctx context.Context, req *model.LeaveGroupRequest,
) (*model.LeaveGroupResponse, error) {
	group, err := d.getGroup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if group.OwnerID == userID {
		return nil, errorx.New(errorx.Unavailable,
			"The owner cannot leave the group, delete it or transfer ownership first")
	}

	if _, err := d.groupMemberRepo.Get(ctx, req.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not a member of this group")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group member: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.groupMemberRepo.Delete(ctx, req.ID, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete group member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LeaveGroupResponse{}, nil
}

func (d *groupDomain) TransferOwnership(
	ctx context.Context, req *model.TransferGroupOwnershipRequest,
) (*model.TransferGroupOwnershipResponse, error) {
	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	if group.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can transfer ownership")
	}

	if req.UserID == group.OwnerID {
		return nil, errorx.New(errorx.BadRequest, "You already own this group")
	}

	if _, err := d.groupMemberRepo.Get(ctx, req.GroupID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "The user is not a member of this group")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group member: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.groupRepo.TransferOwner(ctx, req.GroupID, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot transfer group owner: %v", err)
		return nil, errorx.Unknown
	}

	// The owner's admin role is fixed, so the new owner is promoted here.
	err = d.groupMemberRepo.UpdateRole(ctx, req.GroupID, req.UserID, entity.GroupRoleAdmin)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot promote new owner: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	pushNotification(ctx, d.notificationRepo, d.engineCaller, &entity.Notification{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   req.UserID,
		Type:     entity.NotificationGroupOwnership,
		Title:    "You are the new group owner",
		Message:  "You now own " + group.Name,
		Metadata: entity.Map{"group_id": group.ID},
	})

	return &model.TransferGroupOwnershipResponse{}, nil
}

func (d *groupDomain) KickMember(
	ctx context.Context, req *model.KickMemberRequest,
) (*model.KickMemberResponse, error) {
	err := d.groupRoleVerifier.Verify(ctx, req.GroupID, entity.GroupRoleAdmin)
	if err != nil {
		return nil, err
	}

	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	if req.UserID == group.OwnerID {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot kick the group owner")
	}

	if _, err := d.groupMemberRepo.Get(ctx, req.GroupID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "The user is not a member of this group")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group member: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.groupMemberRepo.Delete(ctx, req.GroupID, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete group member: %v", err)
		return nil, errorx.Unknown
	}

	pushNotification(ctx, d.notificationRepo, d.engineCaller, &entity.Notification{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   req.UserID,
		Type:     entity.NotificationGroupKick,
		Title:    "Removed from group",
		Message:  "You were removed from " + group.Name,
		Metadata: entity.Map{"group_id": group.ID},
	})

	return &model.KickMemberResponse{}, nil
}

func (d *groupDomain) ChangeMemberRole(
	ctx context.Context, req *model.ChangeMemberRoleRequest,
) (*model.ChangeMemberRoleResponse, error) {
	err := d.groupRoleVerifier.Verify(ctx, req.GroupID, entity.GroupRoleAdmin)
	if err != nil {
		return nil, err
	}

	role, err := enum.ToEnum[entity.GroupRole](req.Role)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
	}

	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	// The owner's admin role is fixed.
	if req.UserID == group.OwnerID {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot change the owner role")
	}

	if err := d.groupMemberRepo.UpdateRole(ctx, req.GroupID, req.UserID, role); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update member role: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ChangeMemberRoleResponse{}, nil
}

func (d *groupDomain) GetList(
	ctx context.Context, req *model.GetGroupsRequest,
) (*model.GetGroupsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)")
	}

	var groups []entity.Group
	if req.Mine {
		members, err := d.groupMemberRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get memberships: %v", err)
			return nil, errorx.Unknown
		}

		ids := []string{}
		for _, m := range members {
			ids = append(ids, m.GroupID)
		}

		if groups, err = d.groupRepo.GetByIDs(ctx, ids); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get groups: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		var err error
		if groups, err = d.groupRepo.GetPublicPaged(ctx, req.Offset, req.Limit); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get public groups: %v", err)
			return nil, errorx.Unknown
		}
	}

	result := []model.Group{}
	for i := range groups {
		includeCode := req.Mine || groups[i].OwnerID == xcontext.RequestUserID(ctx)
		result = append(result, d.convertGroup(ctx, &groups[i], includeCode))
	}

	return &model.GetGroupsResponse{Groups: result}, nil
}

func (d *groupDomain) Get(
	ctx context.Context, req *model.GetGroupRequest,
) (*model.GetGroupResponse, error) {
	group, err := d.getGroup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	_, memberErr := d.groupMemberRepo.Get(ctx, req.ID, xcontext.RequestUserID(ctx))
	if group.IsPrivate && memberErr != nil {
		return nil, errorx.New(errorx.PermissionDenied, "This group is private")
	}

	resp := model.GetGroupResponse(d.convertGroup(ctx, group, memberErr == nil))
	return &resp, nil
}

func (d *groupDomain) GetMembers(
	ctx context.Context, req *model.GetGroupMembersRequest,
) (*model.GetGroupMembersResponse, error) {
	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	_, memberErr := d.groupMemberRepo.Get(ctx, req.GroupID, xcontext.RequestUserID(ctx))
	if group.IsPrivate && memberErr != nil {
		return nil, errorx.New(errorx.PermissionDenied, "This group is private")
	}

	members, err := d.groupMemberRepo.GetMembers(ctx, req.GroupID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get group members: %v", err)
		return nil, errorx.Unknown
	}

	ids := []string{}
	for _, m := range members {
		ids = append(ids, m.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users of members: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]*entity.User{}
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := []model.GroupMember{}
	for i := range members {
		result = append(result, model.ConvertGroupMember(
			&members[i], model.ConvertShortUser(byID[members[i].UserID])))
	}

	return &model.GetGroupMembersResponse{Members: result}, nil
}

func (d *groupDomain) Search(
	ctx context.Context, req *model.SearchGroupsRequest,
) (*model.SearchGroupsResponse, error) {
	if req.Q == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty query")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)")
	}

	ids, err := d.searchCaller.SearchGroup(ctx, req.Q, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search groups: %v", err)
		return nil, errorx.Unknown
	}

	groups, err := d.groupRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get groups by ids: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]*entity.Group{}
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}

	result := []model.Group{}
	for _, id := range ids {
		if g, ok := byID[id]; ok && !g.IsPrivate {
			result = append(result, d.convertGroup(ctx, g, false))
		}
	}

	return &model.SearchGroupsResponse{Groups: result}, nil
}

func (d *groupDomain) join(ctx context.Context, group *entity.Group) error {
	userID := xcontext.RequestUserID(ctx)
	if _, err := d.groupMemberRepo.Get(ctx, group.ID, userID); err == nil {
		return errorx.New(errorx.AlreadyExists, "You already joined this group")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check membership: %v", err)
		return errorx.Unknown
	}

	err := d.groupMemberRepo.Create(ctx, &entity.GroupMember{
		GroupID: group.ID,
		UserID:  userID,
		Role:    entity.GroupRoleMember,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create group member: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *groupDomain) getGroup(ctx context.Context, id string) (*entity.Group, error) {
	group, err := d.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found group")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group: %v", err)
		return nil, errorx.Unknown
	}

	return group, nil
}

func (d *groupDomain) convertGroup(
	ctx context.Context, group *entity.Group, includeCode bool,
) model.Group {
	owner, err := d.userRepo.GetByID(ctx, group.OwnerID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get group owner: %v", err)
	}

	count, err := d.groupMemberRepo.Count(ctx, group.ID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot count group members: %v", err)
	}

	return model.ConvertGroup(group, model.ConvertShortUser(owner), count, includeCode)
}

package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/enum"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type AdminDomain interface {
	GetUsers(context.Context, *model.GetUsersRequest) (*model.GetUsersResponse, error)
	BanUser(context.Context, *model.BanUserRequest) (*model.BanUserResponse, error)
	ResetUserStreak(context.Context, *model.ResetUserStreakRequest) (*model.ResetUserStreakResponse, error)
	DeleteUserCompletely(context.Context, *model.DeleteUserCompletelyRequest) (*model.DeleteUserCompletelyResponse, error)
	BroadcastNotification(context.Context, *model.BroadcastNotificationRequest) (*model.BroadcastNotificationResponse, error)
}

type adminDomain struct {
	userRepo                 repository.UserRepository
	oauth2Repo               repository.OAuth2Repository
	refreshTokenRepo         repository.RefreshTokenRepository
	passwordResetRepo        repository.PasswordResetRepository
	dailyLogRepo             repository.DailyLogRepository
	taskRepo                 repository.TaskRepository
	projectRepo              repository.ProjectRepository
	habitRepo                repository.HabitRepository
	goalRepo                 repository.GoalRepository
	streakRepo               repository.StreakRepository
	friendshipRepo           repository.FriendshipRepository
	groupRepo                repository.GroupRepository
	groupMemberRepo          repository.GroupMemberRepository
	chatChannelRepo          repository.ChatChannelRepository
	badgeDetailRepo          repository.BadgeDetailRepository
	challengeParticipantRepo repository.ChallengeParticipantRepository
	notificationRepo         repository.NotificationRepository
	fileRepo                 repository.FileRepository
	engineCaller             client.NotificationEngineCaller
	searchCaller             client.SearchCaller
	roleVerifier             *common.GlobalRoleVerifier
}

func NewAdminDomain(
	userRepo repository.UserRepository,
	oauth2Repo repository.OAuth2Repository,
	refreshTokenRepo repository.RefreshTokenRepository,
	passwordResetRepo repository.PasswordResetRepository,
	dailyLogRepo repository.DailyLogRepository,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	habitRepo repository.HabitRepository,
	goalRepo repository.GoalRepository,
	streakRepo repository.StreakRepository,
	friendshipRepo repository.FriendshipRepository,
	groupRepo repository.GroupRepository,
	groupMemberRepo repository.GroupMemberRepository,
	chatChannelRepo repository.ChatChannelRepository,
	badgeDetailRepo repository.BadgeDetailRepository,
	challengeParticipantRepo repository.ChallengeParticipantRepository,
	notificationRepo repository.NotificationRepository,
	fileRepo repository.FileRepository,
	engineCaller client.NotificationEngineCaller,
	searchCaller client.SearchCaller,
	roleVerifier *common.GlobalRoleVerifier,
) *adminDomain {
	return &adminDomain{
		userRepo:                 userRepo,
		oauth2Repo:               oauth2Repo,
		refreshTokenRepo:         refreshTokenRepo,
		passwordResetRepo:        passwordResetRepo,
		dailyLogRepo:             dailyLogRepo,
		taskRepo:                 taskRepo,
		projectRepo:              projectRepo,
		habitRepo:                habitRepo,
		goalRepo:                 goalRepo,
		streakRepo:               streakRepo,
		friendshipRepo:           friendshipRepo,
		groupRepo:                groupRepo,
		groupMemberRepo:          groupMemberRepo,
		chatChannelRepo:          chatChannelRepo,
		badgeDetailRepo:          badgeDetailRepo,
		challengeParticipantRepo: challengeParticipantRepo,
		notificationRepo:         notificationRepo,
		fileRepo:                 fileRepo,
		engineCaller:             engineCaller,
		searchCaller:             searchCaller,
		roleVerifier:             roleVerifier,
	}
}

func (d *adminDomain) GetUsers(
	ctx context.Context, req *model.GetUsersRequest,
) (*model.GetUsersResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range 0-100")
	}

	users, err := d.userRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.userRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.Unknown
	}

	resp := []model.User{}
	for i := range users {
		resp = append(resp, model.ConvertUser(&users[i], true, ""))
	}

	return &model.GetUsersResponse{Users: resp, Total: total}, nil
}

func (d *adminDomain) BanUser(
	ctx context.Context, req *model.BanUserRequest,
) (*model.BanUserResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	target, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if target.Role != entity.RoleUser {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot ban an admin")
	}

	if err := d.userRepo.SetBanned(ctx, target.ID, req.Banned); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set banned flag: %v", err)
		return nil, errorx.Unknown
	}

	if req.Banned {
		// A banned user cannot keep their sessions.
		if err := d.refreshTokenRepo.DeleteByUserID(ctx, target.ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot revoke refresh tokens: %v", err)
		}
	}

	return &model.BanUserResponse{}, nil
}

func (d *adminDomain) ResetUserStreak(
	ctx context.Context, req *model.ResetUserStreakRequest,
) (*model.ResetUserStreakResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	streakType, err := enum.ToEnum[entity.StreakType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid streak type %s", req.Type)
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	err = d.streakRepo.Upsert(ctx, &entity.Streak{
		UserID:       req.UserID,
		Type:         streakType,
		CurrentCount: 0,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset streak: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ResetUserStreakResponse{}, nil
}

func (d *adminDomain) DeleteUserCompletely(
	ctx context.Context, req *model.DeleteUserCompletelyRequest,
) (*model.DeleteUserCompletelyResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleSuperAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	target, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if target.Role == entity.RoleSuperAdmin {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot delete a super admin")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Groups the target owns disappear with them. Their memberships and
	// channels must not outlive the group row.
	ownedGroups, err := d.groupRepo.GetByOwnerID(ctx, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owned groups: %v", err)
		return nil, errorx.Unknown
	}

	for i := range ownedGroups {
		groupID := ownedGroups[i].ID
		if err := d.groupMemberRepo.DeleteByGroupID(ctx, groupID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete members of owned group: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.chatChannelRepo.DeleteByGroupID(ctx, groupID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete channel of owned group: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.groupRepo.DeleteByID(ctx, groupID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete owned group: %v", err)
			return nil, errorx.Unknown
		}
	}

	deletes := []func(context.Context, string) error{
		d.oauth2Repo.DeleteByUserID,
		d.refreshTokenRepo.DeleteByUserID,
		d.passwordResetRepo.DeleteByUserID,
		d.dailyLogRepo.DeleteByUserID,
		d.taskRepo.DeleteByUserID,
		d.projectRepo.DeleteByUserID,
		d.habitRepo.DeleteCompletionsByUserID,
		d.habitRepo.DeleteByUserID,
		d.goalRepo.DeleteByUserID,
		d.streakRepo.DeleteByUserID,
		d.friendshipRepo.DeleteByUserID,
		d.groupMemberRepo.DeleteByUserID,
		d.chatChannelRepo.DeleteDirectChannelsOfUser,
		d.badgeDetailRepo.DeleteByUserID,
		d.challengeParticipantRepo.DeleteByUserID,
		d.notificationRepo.DeleteByUserID,
		d.fileRepo.DeleteByCreator,
	}

	for _, del := range deletes {
		if err := del(ctx, target.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete user records: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.userRepo.DeleteByID(ctx, target.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.searchCaller.DeleteUser(ctx, target.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove user from search index: %v", err)
	}

	for i := range ownedGroups {
		if err := d.searchCaller.DeleteGroup(ctx, ownedGroups[i].ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot unindex group %s: %v", ownedGroups[i].ID, err)
		}
	}

	return &model.DeleteUserCompletelyResponse{}, nil
}

func (d *adminDomain) BroadcastNotification(
	ctx context.Context, req *model.BroadcastNotificationRequest,
) (*model.BroadcastNotificationResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	recipients := 0
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		users, err := d.userRepo.GetList(ctx, offset, pageSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
			return nil, errorx.Unknown
		}

		if len(users) == 0 {
			break
		}

		notifications := []*entity.Notification{}
		for _, u := range users {
			notifications = append(notifications, &entity.Notification{
				Base:    entity.Base{ID: uuid.NewString()},
				UserID:  u.ID,
				Type:    entity.NotificationBroadcast,
				Title:   req.Title,
				Message: req.Message,
			})
		}

		if err := d.notificationRepo.CreateMany(ctx, notifications); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create notifications: %v", err)
			return nil, errorx.Unknown
		}

		for _, n := range notifications {
			ev := event.New(
				&event.NotificationCreatedEvent{Notification: model.ConvertNotification(n)},
				event.Metadata{ToUser: n.UserID},
			)
			if err := d.engineCaller.Emit(ctx, ev); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot emit notification event: %v", err)
			}
		}

		recipients += len(users)
		if len(users) < pageSize {
			break
		}
	}

	return &model.BroadcastNotificationResponse{Recipients: recipients}, nil
}

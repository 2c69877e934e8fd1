package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestAdminDomain(
	engineCaller *testutil.MockNotificationEngineCaller,
	searchCaller *testutil.MockSearchCaller,
) *adminDomain {
	userRepo := repository.NewUserRepository()
	return NewAdminDomain(
		userRepo,
		repository.NewOAuth2Repository(),
		repository.NewRefreshTokenRepository(),
		repository.NewPasswordResetRepository(),
		repository.NewDailyLogRepository(),
		repository.NewTaskRepository(),
		repository.NewProjectRepository(),
		repository.NewHabitRepository(),
		repository.NewGoalRepository(),
		repository.NewStreakRepository(),
		repository.NewFriendshipRepository(),
		repository.NewGroupRepository(),
		repository.NewGroupMemberRepository(),
		repository.NewChatChannelRepository(),
		repository.NewBadgeDetailRepository(),
		repository.NewChallengeParticipantRepository(),
		repository.NewNotificationRepository(),
		repository.NewFileRepository(),
		engineCaller,
		searchCaller,
		common.NewGlobalRoleVerifier(userRepo),
	)
}

func Test_adminDomain_GetUsers(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	admin := newTestAdminDomain(&testutil.MockNotificationEngineCaller{}, &testutil.MockSearchCaller{})

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	resp, err := admin.GetUsers(adminCtx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 3)
	require.Equal(t, int64(3), resp.Total)

	_, err = admin.GetUsers(adminCtx, &model.GetUsersRequest{Limit: 101})
	require.Error(t, err)
	require.Equal(t, "Limit must be in range 0-100", err.Error())

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err = admin.GetUsers(userCtx, &model.GetUsersRequest{})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}

func Test_adminDomain_BanUser(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	admin := newTestAdminDomain(&testutil.MockNotificationEngineCaller{}, &testutil.MockSearchCaller{})
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)

	refreshTokenRepo := repository.NewRefreshTokenRepository()
	err := refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:     testutil.User1.ID,
		Family:     "family-1",
		Expiration: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = admin.BanUser(adminCtx, &model.BanUserRequest{
		UserID: testutil.User1.ID, Banned: true})
	require.NoError(t, err)

	var banned entity.User
	require.NoError(t, xcontext.DB(ctx).Take(&banned, "id=?", testutil.User1.ID).Error)
	require.True(t, banned.IsBanned)

	// Banning revokes every open session.
	var tokens int64
	err = xcontext.DB(ctx).Model(&entity.RefreshToken{}).
		Where("user_id=?", testutil.User1.ID).Count(&tokens).Error
	require.NoError(t, err)
	require.Equal(t, int64(0), tokens)

	_, err = admin.BanUser(adminCtx, &model.BanUserRequest{
		UserID: testutil.User1.ID, Banned: false})
	require.NoError(t, err)

	require.NoError(t, xcontext.DB(ctx).Take(&banned, "id=?", testutil.User1.ID).Error)
	require.False(t, banned.IsBanned)

	_, err = admin.BanUser(adminCtx, &model.BanUserRequest{
		UserID: testutil.User3.ID, Banned: true})
	require.Error(t, err)
	require.Equal(t, "Cannot ban an admin", err.Error())

	_, err = admin.BanUser(adminCtx, &model.BanUserRequest{UserID: "nobody", Banned: true})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = admin.BanUser(userCtx, &model.BanUserRequest{
		UserID: testutil.User1.ID, Banned: true})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}

func Test_adminDomain_ResetUserStreak(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()
	admin := newTestAdminDomain(&testutil.MockNotificationEngineCaller{}, &testutil.MockSearchCaller{})
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)

	streakRepo := repository.NewStreakRepository()
	err := streakRepo.Upsert(ctx, &entity.Streak{
		UserID:           testutil.User1.ID,
		Type:             entity.StreakDailyLog,
		CurrentCount:     5,
		LongestCount:     9,
		LastActivityDate: dateutil.BeginningOfDay(time.Now()),
	})
	require.NoError(t, err)

	_, err = admin.ResetUserStreak(adminCtx, &model.ResetUserStreakRequest{
		UserID: testutil.User1.ID, Type: "daily_log"})
	require.NoError(t, err)

	streak, err := streakRepo.Get(ctx, testutil.User1.ID, entity.StreakDailyLog)
	require.NoError(t, err)
	require.Equal(t, 0, streak.CurrentCount)

	_, err = admin.ResetUserStreak(adminCtx, &model.ResetUserStreakRequest{
		UserID: testutil.User1.ID, Type: "forever"})
	require.Error(t, err)
	require.Equal(t, "Invalid streak type forever", err.Error())

	_, err = admin.ResetUserStreak(adminCtx, &model.ResetUserStreakRequest{
		UserID: "nobody", Type: "daily_log"})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

func Test_adminDomain_DeleteUserCompletely(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()

	removedFromIndex := []string{}
	unindexedGroups := []string{}
	searchCaller := &testutil.MockSearchCaller{
		DeleteUserFunc: func(ctx context.Context, id string) error {
			removedFromIndex = append(removedFromIndex, id)
			return nil
		},
		DeleteGroupFunc: func(ctx context.Context, id string) error {
			unindexedGroups = append(unindexedGroups, id)
			return nil
		},
	}

	admin := newTestAdminDomain(&testutil.MockNotificationEngineCaller{}, searchCaller)

	userRepo := repository.NewUserRepository()
	root := &entity.User{
		Base: entity.Base{ID: "root"},
		Name: "root",
		Role: entity.RoleSuperAdmin,
	}
	require.NoError(t, userRepo.Create(ctx, root))
	rootCtx := testutil.MockContextWithUserID(ctx, root.ID)

	// A plain admin is not enough for a full deletion.
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err := admin.DeleteUserCompletely(adminCtx, &model.DeleteUserCompletelyRequest{
		UserID: testutil.User1.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = admin.DeleteUserCompletely(rootCtx, &model.DeleteUserCompletelyRequest{
		UserID: root.ID})
	require.Error(t, err)
	require.Equal(t, "Cannot delete a super admin", err.Error())

	// Leave some records behind for the cascade.
	db := xcontext.DB(ctx)
	require.NoError(t, db.Create(&entity.DailyLog{
		Base:   entity.Base{ID: "log1"},
		UserID: testutil.User1.ID,
		Date:   dateutil.BeginningOfDay(time.Now()),
		Hours:  2,
	}).Error)
	require.NoError(t, db.Create(&entity.Task{
		Base:   entity.Base{ID: "task1"},
		UserID: testutil.User1.ID,
		Title:  "Write report",
		Date:   dateutil.BeginningOfDay(time.Now()),
	}).Error)
	require.NoError(t, db.Create(&entity.Notification{
		Base:   entity.Base{ID: "notif1"},
		UserID: testutil.User1.ID,
		Type:   entity.NotificationBroadcast,
		Title:  "Hello",
	}).Error)

	// User1 also owns a group with another member and its chat channel.
	groups := newTestGroupDomain(searchCaller)
	owned, err := groups.Create(testutil.MockContextWithUserID(ctx, testutil.User1.ID),
		&model.CreateGroupRequest{Name: "Doomed Club"})
	require.NoError(t, err)

	_, err = groups.Join(testutil.MockContextWithUserID(ctx, testutil.User2.ID),
		&model.JoinGroupRequest{ID: owned.Group.ID})
	require.NoError(t, err)

	_, err = admin.DeleteUserCompletely(rootCtx, &model.DeleteUserCompletelyRequest{
		UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User1.ID}, removedFromIndex)
	require.Equal(t, []string{owned.Group.ID}, unindexedGroups)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Where("id=?", testutil.User1.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&entity.DailyLog{}).Where("user_id=?", testutil.User1.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&entity.Task{}).Where("user_id=?", testutil.User1.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&entity.Notification{}).Where("user_id=?", testutil.User1.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)

	// The owned group went down with its owner: no orphaned group row,
	// surviving memberships, or dangling channel.
	require.NoError(t, db.Model(&entity.Group{}).Where("owner_id=?", testutil.User1.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&entity.GroupMember{}).Where("group_id=?", owned.Group.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&entity.ChatChannel{}).Where("group_id=?", owned.Group.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)

	_, err = admin.DeleteUserCompletely(rootCtx, &model.DeleteUserCompletelyRequest{
		UserID: testutil.User1.ID})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

func Test_adminDomain_BroadcastNotification(t *testing.T) {
	ctx := testutil.MockContextWithFixtures()

	emitted := []*event.EventRequest{}
	engineCaller := &testutil.MockNotificationEngineCaller{
		EmitFunc: func(ctx context.Context, ev *event.EventRequest) error {
			emitted = append(emitted, ev)
			return nil
		},
	}

	admin := newTestAdminDomain(engineCaller, &testutil.MockSearchCaller{})
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)

	_, err := admin.BroadcastNotification(adminCtx, &model.BroadcastNotificationRequest{
		Title: "", Message: "down at noon"})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty title", err.Error())

	resp, err := admin.BroadcastNotification(adminCtx, &model.BroadcastNotificationRequest{
		Title: "Maintenance", Message: "down at noon"})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Recipients)
	require.Len(t, emitted, 3)

	var count int64
	err = xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("type=? AND title=?", entity.NotificationBroadcast, "Maintenance").
		Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err = admin.BroadcastNotification(userCtx, &model.BroadcastNotificationRequest{
		Title: "Maintenance"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}

package main

import (
	"fmt"
	"net/http"

	"github.com/th3void/lotus-routine/internal/middleware"
	"github.com/th3void/lotus-routine/pkg/prometheus"
	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadStorage()
	s.loadScyllaDB()
	defer s.scyllaDBSession.Close()
	s.loadPublisher()
	s.loadRepos()
	s.loadEndpoint()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	var group errgroup.Group
	group.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting metrics server on port: %s", cfg.Prometheus.Port)
		return http.ListenAndServe(cfg.Prometheus.Address(), prometheus.NewHandler())
	})
	group.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting api server on port: %s", cfg.ApiServer.Port)
		return s.server.ListenAndServe()
	})

	return group.Wait()
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Static("/", "./web")
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.ParseAccessToken())
	s.router.Before(middleware.NewRateLimiter().Middleware())

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSetAccessToken())
	{
		router.POST(authRouter, "/register", s.authDomain.Register)
		router.POST(authRouter, "/login", s.authDomain.Login)
		router.GET(authRouter, "/oauth2/login", s.authDomain.OAuth2Login)
		router.GET(authRouter, "/oauth2/callback", s.authDomain.OAuth2Callback)
		router.POST(authRouter, "/refresh", s.authDomain.Refresh)
		router.POST(authRouter, "/logout", s.authDomain.Logout)
		router.POST(authRouter, "/requestPasswordReset", s.authDomain.RequestPasswordReset)
		router.POST(authRouter, "/resetPassword", s.authDomain.ResetPassword)
	}

	// These following APIs need authentication.
	authedRouter := s.router.Branch()
	authedRouter.Before(middleware.Authenticate())
	authedRouter.Before(middleware.RejectBanned(s.userRepo))
	authedRouter.Before(middleware.TouchLastSeen(s.redisClient))
	{
		// User API
		router.GET(authedRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authedRouter, "/getUser", s.userDomain.GetUser)
		router.POST(authedRouter, "/updateUser", s.userDomain.Update)
		router.POST(authedRouter, "/uploadAvatar", s.userDomain.UploadAvatar)
		router.GET(authedRouter, "/searchUsers", s.userDomain.Search)

		// Daily log API
		router.POST(authedRouter, "/upsertDailyLog", s.dailyLogDomain.Upsert)
		router.GET(authedRouter, "/getDailyLogs", s.dailyLogDomain.GetList)
		router.POST(authedRouter, "/deleteDailyLog", s.dailyLogDomain.Delete)

		// Task API
		router.POST(authedRouter, "/createTask", s.taskDomain.Create)
		router.POST(authedRouter, "/updateTask", s.taskDomain.Update)
		router.POST(authedRouter, "/deleteTask", s.taskDomain.Delete)
		router.GET(authedRouter, "/getTasks", s.taskDomain.GetList)

		// Project API
		router.POST(authedRouter, "/createProject", s.projectDomain.Create)
		router.POST(authedRouter, "/updateProject", s.projectDomain.Update)
		router.POST(authedRouter, "/deleteProject", s.projectDomain.Delete)
		router.GET(authedRouter, "/getProjects", s.projectDomain.GetList)

		// Habit API
		router.POST(authedRouter, "/createHabit", s.habitDomain.Create)
		router.POST(authedRouter, "/updateHabit", s.habitDomain.Update)
		router.POST(authedRouter, "/archiveHabit", s.habitDomain.Archive)
		router.GET(authedRouter, "/getHabits", s.habitDomain.GetList)
		router.POST(authedRouter, "/toggleHabitCompletion", s.habitDomain.ToggleCompletion)
		router.GET(authedRouter, "/getHabitCompletions", s.habitDomain.GetCompletions)

		// Goal API
		router.POST(authedRouter, "/createGoal", s.goalDomain.Create)
		router.POST(authedRouter, "/updateGoal", s.goalDomain.Update)
		router.POST(authedRouter, "/completeGoal", s.goalDomain.Complete)
		router.POST(authedRouter, "/deleteGoal", s.goalDomain.Delete)
		router.GET(authedRouter, "/getGoals", s.goalDomain.GetList)

		// Streak API
		router.GET(authedRouter, "/getStreaks", s.streakDomain.GetStreaks)
		router.POST(authedRouter, "/resetStreak", s.streakDomain.Reset)

		// Friendship API
		router.POST(authedRouter, "/sendFriendRequest", s.friendshipDomain.SendRequest)
		router.POST(authedRouter, "/acceptFriendRequest", s.friendshipDomain.Accept)
		router.POST(authedRouter, "/declineFriendRequest", s.friendshipDomain.Decline)
		router.POST(authedRouter, "/unfriend", s.friendshipDomain.Unfriend)
		router.GET(authedRouter, "/getFriends", s.friendshipDomain.GetFriends)
		router.GET(authedRouter, "/getPendingFriendRequests", s.friendshipDomain.GetPendingRequests)

		// Group API
		router.POST(authedRouter, "/createGroup", s.groupDomain.Create)
		router.POST(authedRouter, "/updateGroup", s.groupDomain.Update)
		router.POST(authedRouter, "/deleteGroup", s.groupDomain.Delete)
		router.POST(authedRouter, "/joinGroup", s.groupDomain.Join)
		router.POST(authedRouter, "/joinGroupByCode", s.groupDomain.JoinByCode)
		router.POST(authedRouter, "/leaveGroup", s.groupDomain.Leave)
		router.POST(authedRouter, "/transferGroupOwnership", s.groupDomain.TransferOwnership)
		router.POST(authedRouter, "/kickGroupMember", s.groupDomain.KickMember)
		router.POST(authedRouter, "/changeGroupMemberRole", s.groupDomain.ChangeMemberRole)
		router.GET(authedRouter, "/getGroups", s.groupDomain.GetList)
		router.GET(authedRouter, "/getGroup", s.groupDomain.Get)
		router.GET(authedRouter, "/getGroupMembers", s.groupDomain.GetMembers)
		router.GET(authedRouter, "/searchGroups", s.groupDomain.Search)

		// Chat API
		router.POST(authedRouter, "/createDirectChannel", s.chatDomain.CreateDirectChannel)
		router.GET(authedRouter, "/getChannels", s.chatDomain.GetChannels)
		router.POST(authedRouter, "/sendMessage", s.chatDomain.SendMessage)
		router.GET(authedRouter, "/getMessages", s.chatDomain.GetMessages)
		router.POST(authedRouter, "/deleteMessage", s.chatDomain.DeleteMessage)

		// Challenge API
		router.POST(authedRouter, "/createChallenge", s.challengeDomain.Create)
		router.POST(authedRouter, "/joinChallenge", s.challengeDomain.Join)
		router.POST(authedRouter, "/leaveChallenge", s.challengeDomain.Leave)
		router.GET(authedRouter, "/getChallenges", s.challengeDomain.GetList)
		router.GET(authedRouter, "/getChallengeParticipants", s.challengeDomain.GetParticipants)

		// Badge API
		router.GET(authedRouter, "/getBadges", s.badgeDomain.GetAll)
		router.GET(authedRouter, "/getMyBadges", s.badgeDomain.GetMine)
		router.POST(authedRouter, "/followBadges", s.badgeDomain.Follow)

		// Statistic API
		router.GET(authedRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(authedRouter, "/getUserStats", s.statisticDomain.GetUserStats)

		// Notification API
		router.GET(authedRouter, "/getNotifications", s.notificationDomain.GetList)
		router.POST(authedRouter, "/markNotificationRead", s.notificationDomain.MarkRead)
		router.POST(authedRouter, "/markAllNotificationsRead", s.notificationDomain.MarkAllRead)

		// Gif API
		router.GET(authedRouter, "/searchGifs", s.gifDomain.Search)
	}

	// Admin API
	adminRouter := authedRouter.Branch()
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.GET(adminRouter, "/admin/getUsers", s.adminDomain.GetUsers)
		router.POST(adminRouter, "/admin/banUser", s.adminDomain.BanUser)
		router.POST(adminRouter, "/admin/resetUserStreak", s.adminDomain.ResetUserStreak)
		router.POST(adminRouter, "/admin/deleteUser", s.adminDomain.DeleteUserCompletely)
		router.POST(adminRouter, "/admin/broadcastNotification", s.adminDomain.BroadcastNotification)
	}
}

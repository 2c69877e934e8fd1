package main

import (
	"context"
	"net/http"

	"github.com/scylladb/gocqlx/v2"
	"github.com/th3void/lotus-routine/config"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/domain"
	"github.com/th3void/lotus-routine/internal/domain/badge"
	"github.com/th3void/lotus-routine/internal/domain/statistic"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/logger"
	"github.com/th3void/lotus-routine/pkg/pubsub"
	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/storage"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App
	ctx context.Context

	server *http.Server
	router *router.Router

	scyllaDBSession gocqlx.Session
	redisClient     xredis.Client
	storage         storage.Storage
	publisher       pubsub.Publisher
	subscriber      pubsub.Subscriber

	userRepo                 repository.UserRepository
	oauth2Repo               repository.OAuth2Repository
	refreshTokenRepo         repository.RefreshTokenRepository
	passwordResetRepo        repository.PasswordResetRepository
	fileRepo                 repository.FileRepository
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
	chatMessageRepo          repository.ChatMessageRepository
	badgeRepo                repository.BadgeRepository
	badgeDetailRepo          repository.BadgeDetailRepository
	challengeRepo            repository.ChallengeRepository
	challengeParticipantRepo repository.ChallengeParticipantRepository
	notificationRepo         repository.NotificationRepository

	engineCaller client.NotificationEngineCaller
	searchCaller client.SearchCaller
	leaderboard  statistic.Leaderboard
	badgeManager *badge.Manager

	authDomain            domain.AuthDomain
	userDomain            domain.UserDomain
	dailyLogDomain        domain.DailyLogDomain
	taskDomain            domain.TaskDomain
	projectDomain         domain.ProjectDomain
	habitDomain           domain.HabitDomain
	goalDomain            domain.GoalDomain
	streakDomain          domain.StreakDomain
	friendshipDomain      domain.FriendshipDomain
	groupDomain           domain.GroupDomain
	chatDomain            domain.ChatDomain
	badgeDomain           domain.BadgeDomain
	challengeDomain       domain.ChallengeDomain
	statisticDomain       domain.StatisticDomain
	notificationDomain    domain.NotificationDomain
	gifDomain             domain.GifDomain
	adminDomain           domain.AdminDomain
	messageNotifierDomain domain.MessageNotifierDomain
}

func (s *srv) loadConfig() {
	s.ctx = xcontext.WithConfigs(context.Background(), config.Load())
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx).Logger
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewZapLogger(logger.ZapConfigs{
		Level:      cfg.Level,
		Filename:   cfg.Filename,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	}))
}

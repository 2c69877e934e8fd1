package main

import (
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"
	"github.com/scylladb/gocqlx/v2"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain"
	"github.com/th3void/lotus-routine/internal/domain/badge"
	"github.com/th3void/lotus-routine/internal/domain/challengerule"
	"github.com/th3void/lotus-routine/internal/domain/statistic"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/migration"
	"github.com/th3void/lotus-routine/pkg/api/gif"
	"github.com/th3void/lotus-routine/pkg/authenticator"
	"github.com/th3void/lotus-routine/pkg/cqlutil"
	"github.com/th3void/lotus-routine/pkg/kafka"
	"github.com/th3void/lotus-routine/pkg/mailer"
	"github.com/th3void/lotus-routine/pkg/storage"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(cfg.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(databaseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func databaseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	}

	return gormlogger.Error
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}

	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
}

func (s *srv) loadScyllaDB() {
	cfg := xcontext.Configs(s.ctx).ScyllaDB
	cluster := cqlutil.CreateCluster(cfg.KeySpace, cfg.Addr)

	session, err := gocqlx.WrapSession(cluster.CreateSession())
	if err != nil {
		panic(err)
	}
	s.scyllaDBSession = session
	xcontext.Logger(s.ctx).Infof("Connect scylla db successful in addr: %s", cfg.Addr)

	if err := migration.MigrateScyllaDB(s.ctx, s.scyllaDBSession); err != nil {
		panic(err)
	}

	s.chatMessageRepo = repository.NewChatMessageRepository(s.scyllaDBSession)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	s.publisher = kafka.NewPublisher(uuid.NewString(), []string{cfg.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.passwordResetRepo = repository.NewPasswordResetRepository()
	s.fileRepo = repository.NewFileRepository()
	s.dailyLogRepo = repository.NewDailyLogRepository()
	s.taskRepo = repository.NewTaskRepository()
	s.projectRepo = repository.NewProjectRepository()
	s.habitRepo = repository.NewHabitRepository()
	s.goalRepo = repository.NewGoalRepository()
	s.streakRepo = repository.NewStreakRepository()
	s.friendshipRepo = repository.NewFriendshipRepository()
	s.groupRepo = repository.NewGroupRepository()
	s.groupMemberRepo = repository.NewGroupMemberRepository()
	s.chatChannelRepo = repository.NewChatChannelRepository()
	s.badgeRepo = repository.NewBadgeRepository()
	s.badgeDetailRepo = repository.NewBadgeDetailRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.challengeParticipantRepo = repository.NewChallengeParticipantRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadEndpoint() {
	cfg := xcontext.Configs(s.ctx)

	rpcEngineClient, err := rpc.DialContext(s.ctx, cfg.Notification.EngineRPCServer.Endpoint)
	if err != nil {
		panic(err)
	}
	s.engineCaller = client.NewNotificationEngineCaller(rpcEngineClient)

	rpcSearchClient, err := rpc.DialContext(s.ctx, cfg.Search.Endpoint)
	if err != nil {
		panic(err)
	}
	s.searchCaller = client.NewSearchCaller(rpcSearchClient)
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	oauth2Google, err := authenticator.NewOAuth2Service(s.ctx, cfg.Auth.Google)
	if err != nil {
		panic(err)
	}

	primaryGif, err := gif.New(cfg.Gif.Primary)
	if err != nil {
		panic(err)
	}

	fallbackGif, err := gif.New(cfg.Gif.Fallback)
	if err != nil {
		panic(err)
	}

	s.leaderboard = statistic.New(s.dailyLogRepo, s.streakRepo, s.redisClient)
	s.badgeManager = badge.NewManager(s.badgeRepo, s.badgeDetailRepo,
		badge.NewStreakWarriorBadgeScanner(s.badgeRepo, s.streakRepo),
		badge.NewCenturyClubBadgeScanner(s.badgeRepo, s.dailyLogRepo),
		badge.NewSocialButterflyBadgeScanner(s.badgeRepo, s.friendshipRepo),
	)
	ruleFactory := challengerule.NewFactory(s.dailyLogRepo, s.streakRepo)
	roleVerifier := common.NewGlobalRoleVerifier(s.userRepo)

	s.authDomain = domain.NewAuthDomain(
		s.userRepo, s.oauth2Repo, s.refreshTokenRepo, s.passwordResetRepo,
		mailer.New(cfg.Mail), s.searchCaller, oauth2Google)
	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.fileRepo, s.redisClient, s.storage, s.searchCaller)
	s.challengeDomain = domain.NewChallengeDomain(
		s.challengeRepo, s.challengeParticipantRepo, s.userRepo,
		s.notificationRepo, s.engineCaller, ruleFactory)
	s.dailyLogDomain = domain.NewDailyLogDomain(
		s.dailyLogRepo, s.streakRepo, s.challengeDomain, s.badgeManager, s.leaderboard)
	s.taskDomain = domain.NewTaskDomain(s.taskRepo, s.projectRepo)
	s.projectDomain = domain.NewProjectDomain(s.projectRepo, s.taskRepo)
	s.habitDomain = domain.NewHabitDomain(s.habitRepo, s.streakRepo)
	s.goalDomain = domain.NewGoalDomain(s.goalRepo)
	s.streakDomain = domain.NewStreakDomain(s.streakRepo, s.leaderboard)
	s.friendshipDomain = domain.NewFriendshipDomain(
		s.friendshipRepo, s.userRepo, s.notificationRepo, s.badgeManager, s.engineCaller)
	s.groupDomain = domain.NewGroupDomain(
		s.groupRepo, s.groupMemberRepo, s.userRepo, s.chatChannelRepo,
		s.notificationRepo, s.engineCaller, s.searchCaller)
	s.chatDomain = domain.NewChatDomain(
		s.chatChannelRepo, s.chatMessageRepo, s.groupMemberRepo, s.userRepo,
		s.redisClient, s.publisher, s.engineCaller)
	s.badgeDomain = domain.NewBadgeDomain(s.badgeRepo, s.badgeDetailRepo)
	s.statisticDomain = domain.NewStatisticDomain(
		s.leaderboard, s.userRepo, s.dailyLogRepo, s.taskRepo, s.streakRepo, s.badgeDetailRepo)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
	s.gifDomain = domain.NewGifDomain(primaryGif, fallbackGif, s.redisClient)
	s.adminDomain = domain.NewAdminDomain(
		s.userRepo, s.oauth2Repo, s.refreshTokenRepo, s.passwordResetRepo,
		s.dailyLogRepo, s.taskRepo, s.projectRepo, s.habitRepo, s.goalRepo,
		s.streakRepo, s.friendshipRepo, s.groupRepo, s.groupMemberRepo, s.chatChannelRepo,
		s.badgeDetailRepo, s.challengeParticipantRepo, s.notificationRepo,
		s.fileRepo, s.engineCaller, s.searchCaller, roleVerifier)
	s.messageNotifierDomain = domain.NewMessageNotifierDomain(
		s.notificationRepo, s.userRepo, s.redisClient, s.engineCaller)
}

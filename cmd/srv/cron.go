package main

import (
	"github.com/th3void/lotus-routine/internal/domain/cron"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadEndpoint()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewStreakLapseCronJob(s.streakRepo, s.redisClient))
	cronJobManager.Register(cron.NewChallengeFinalizeCronJob(
		s.challengeRepo, s.challengeParticipantRepo, s.notificationRepo, s.engineCaller))
	cronJobManager.Register(cron.NewTrendingGroupCronJob(
		s.groupRepo, s.groupMemberRepo, s.redisClient))
	cronJobManager.Register(cron.NewTokenCleanupCronJob(
		s.passwordResetRepo, s.refreshTokenRepo))
	cronJobManager.Start(s.ctx)

	return nil
}

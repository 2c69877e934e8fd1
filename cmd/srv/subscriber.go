package main

import (
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain"
	"github.com/th3void/lotus-routine/pkg/kafka"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadEndpoint()

	s.messageNotifierDomain = domain.NewMessageNotifierDomain(
		s.notificationRepo, s.userRepo, s.redisClient, s.engineCaller)

	cfg := xcontext.Configs(s.ctx).Kafka
	s.subscriber = kafka.NewSubscriber(
		cfg.ConsumerGroup,
		[]string{cfg.Addr},
		[]string{common.MessagePersistedTopic},
		s.messageNotifierDomain.HandleMessagePersisted,
	)

	xcontext.Logger(s.ctx).Infof("Starting subscriber on topic %s", common.MessagePersistedTopic)
	s.subscriber.Subscribe(s.ctx)

	return nil
}

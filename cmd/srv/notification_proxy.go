package main

import (
	"net/http"

	"github.com/th3void/lotus-routine/internal/domain/notification/proxy"
	"github.com/th3void/lotus-routine/internal/middleware"
	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startNotificationProxy(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()

	notificationProxy := proxy.NewProxyServer(s.ctx, s.chatChannelRepo, s.groupMemberRepo, s.userRepo)

	cfg := xcontext.Configs(s.ctx)
	defaultRouter := router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.Before(middleware.ParseAccessToken())
	defaultRouter.Before(middleware.Authenticate())
	router.Websocket(defaultRouter, "/notification", notificationProxy.ServeProxy)

	xcontext.Logger(s.ctx).Infof("Starting notification proxy on port: %s",
		cfg.Notification.ProxyServer.Port)
	httpSrv := &http.Server{
		Addr:    cfg.Notification.ProxyServer.Address(),
		Handler: defaultRouter.Handler(),
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Notification proxy stopped")
	return nil
}

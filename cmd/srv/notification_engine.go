package main

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/th3void/lotus-routine/internal/domain/notification/engine"
	"github.com/th3void/lotus-routine/internal/middleware"
	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startNotificationEngine(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	engineServer := engine.NewEngineServer()
	rpcHandler := rpc.NewServer()
	defer rpcHandler.Stop()

	err := rpcHandler.RegisterName(cfg.Notification.EngineRPCServer.RPCName, engineServer)
	if err != nil {
		return err
	}

	go func() {
		xcontext.Logger(s.ctx).Infof("Starting rpc notification engine on port: %s",
			cfg.Notification.EngineRPCServer.Port)
		httpSrv := &http.Server{
			Handler: rpcHandler,
			Addr:    fmt.Sprintf(":%v", cfg.Notification.EngineRPCServer.Port),
		}
		if err := httpSrv.ListenAndServe(); err != nil {
			panic(err)
		}
	}()

	defaultRouter := router.New(nil, cfg, xcontext.Logger(s.ctx))
	defaultRouter.AddCloser(middleware.Logger())
	router.Websocket(defaultRouter, "/", engineServer.ServeProxy)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%v", cfg.Notification.EngineWSServer.Port),
		Handler: defaultRouter.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting ws notification engine on port: %s",
		cfg.Notification.EngineWSServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

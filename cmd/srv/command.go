package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Lotus Routine"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `The main http service, it serves every domain operation.`,
		},
		{
			Action:      s.startNotificationProxy,
			Name:        "proxy",
			Usage:       "Start service notification proxy",
			Category:    "Websocket",
			Description: `The websocket endpoint browsers connect to for realtime events.`,
		},
		{
			Action:      s.startNotificationEngine,
			Name:        "engine",
			Usage:       "Start service notification engine",
			Category:    "Websocket",
			Description: `The fanout engine, it receives events over rpc and forwards them to proxies.`,
		},
		{
			Action:      s.startSearchRPC,
			Name:        "search",
			Usage:       "Start service search",
			Category:    "Worker",
			Description: `The rpc server of full-text index for users and groups.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `The worker that consumes persisted chat messages from the message queue.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start service cron",
			Category:    "Worker",
			Description: `The scheduled jobs runner.`,
		},
		{
			Action: s.startMigrate,
			Name:   "migrate",
			Usage:  "Migrate database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "run a targeted migration by name instead of the full upgrade",
				},
			},
			Category:    "Database",
			Description: `Applies the embedded sql migrations, then the gorm auto migration.`,
		},
	}

	s.app = app
}

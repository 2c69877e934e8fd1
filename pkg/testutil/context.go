package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/th3void/lotus-routine/config"
	"github.com/th3void/lotus-routine/migration"
	"github.com/th3void/lotus-routine/pkg/authenticator"
	"github.com/th3void/lotus-routine/pkg/logger"
	"github.com/th3void/lotus-routine/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockContext returns a context backed by an in-memory sqlite database with
// every table migrated, plus test configurations and a quiet logger.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret:     "secret",
			AccessTokenName: "lotus_token",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "auth_session",
		},
		File: config.FileConfigs{
			MaxMemory:       2 << 20,
			MaxSize:         2 << 20,
			AvatarCropSizes: []int{56, 128},
		},
		Storage: config.S3Configs{
			AvatarBucket: "avatars",
		},
		Chat: config.ChatConfigs{
			MessagePageSize:  50,
			SendRefTTL:       time.Minute,
			IdleTimeout:      time.Minute,
			EncryptionPepper: "pepper",
		},
		Gif: config.GifConfigs{
			CacheTTL: time.Minute,
		},
		RateLimit: config.RateLimitConfigs{
			RequestsPerSecond: 100,
			Burst:             100,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}

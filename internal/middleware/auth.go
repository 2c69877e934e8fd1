package middleware

import (
	"context"
	"strings"

	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
)

// ParseAccessToken resolves the request user from the access token if one is
// present. It never rejects: handlers behind Authenticate require a user,
// everything else treats the request as anonymous.
func ParseAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := tokenFromRequest(ctx)
		if token == "" {
			return nil, nil
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, nil
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

// RejectBanned stops banned users at the door. The flag is read through the
// user row, so a ban takes effect on the next request, not the next login.
func RejectBanned(userRepo repository.UserRepository) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return nil, nil
		}

		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if user.IsBanned {
			return nil, errorx.New(errorx.PermissionDenied, "Your account has been banned")
		}

		return nil, nil
	}
}

// TouchLastSeen refreshes the requester's online marker. Presence is a redis
// key with a TTL; expiry is what flips a user to offline.
func TouchLastSeen(redisClient xredis.Client) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return nil, nil
		}

		key := common.RedisKeyUserStatus(userID)
		ttl := xcontext.Configs(ctx).Chat.IdleTimeout
		if _, err := redisClient.SetNX(ctx, key, "1", ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot touch last seen: %v", err)
		} else if err := redisClient.Expire(ctx, key, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot refresh last seen: %v", err)
		}

		return nil, nil
	}
}

func tokenFromRequest(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if auth := req.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessTokenName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

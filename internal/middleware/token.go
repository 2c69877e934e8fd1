package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// AccessTokenResponse is implemented by responses carrying a fresh access
// token that should also be set as a cookie for browser clients.
type AccessTokenResponse interface {
	AccessTokenInfo() string
}

func HandleSetAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.Response(ctx).(AccessTokenResponse)
		if !ok {
			return nil, nil
		}

		http.SetCookie(xcontext.HTTPWriter(ctx), &http.Cookie{
			Name:     xcontext.Configs(ctx).Auth.AccessTokenName,
			Value:    tokenResp.AccessTokenInfo(),
			Path:     "/",
			Expires:  time.Now().Add(xcontext.Configs(ctx).Auth.AccessToken.Expiration),
			Secure:   true,
			HttpOnly: false,
		})

		return nil, nil
	}
}

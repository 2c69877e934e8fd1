package middleware

import (
	"context"
	"net"
	"sync"

	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/router"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client. Authenticated requests are
// keyed by user so a NAT full of users is not throttled as one client;
// anonymous requests fall back to the remote address.
type RateLimiter struct {
	mutex    sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (rl *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !rl.limiter(ctx).Allow() {
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests")
		}

		return nil, nil
	}
}

func (rl *RateLimiter) limiter(ctx context.Context) *rate.Limiter {
	key := xcontext.RequestUserID(ctx)
	if key == "" {
		host, _, err := net.SplitHostPort(xcontext.HTTPRequest(ctx).RemoteAddr)
		if err != nil {
			host = xcontext.HTTPRequest(ctx).RemoteAddr
		}

		key = "ip:" + host
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		cfg := xcontext.Configs(ctx).RateLimit
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		rl.limiters[key] = limiter
	}

	return limiter
}

package router

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"github.com/th3void/lotus-routine/config"
	"github.com/th3void/lotus-routine/pkg/authenticator"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/logger"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

type WebsocketHandlerFunc[Request any] func(ctx context.Context, req *Request) error

// MiddlewareFunc may replace the context by returning a non-nil one. A
// returned error stops the chain and is sent to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, error or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	cfg          config.Configs
	db           *gorm.DB
	logger       logger.Logger
	tokenEngine  authenticator.TokenEngine
	sessionStore sessions.Store
	snowflake    *snowflake.Node

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	return &Router{
		mux:          http.NewServeMux(),
		cfg:          cfg,
		db:           db,
		logger:       logger,
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessionStore: sessions.NewCookieStore([]byte(cfg.Session.Secret)),
		snowflake:    node,
	}
}

// Branch forks the middleware chains while sharing the underlying mux, so a
// group of routes can carry its own Before/After set.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.afters = append([]MiddlewareFunc{}, r.afters...)
	branch.closers = append([]CloserFunc{}, r.closers...)
	return &branch
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type", "Content-Length",
			"Accept-Encoding", "X-CSRF-Token", "Authorization",
		},
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	handle(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	handle(r, http.MethodPost, pattern, handler)
}

func handle[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := r.befores
	afters := r.afters
	closers := r.closers

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := r.baseContext(req, w)

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		if req.Method != method {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", req.Method))
			writeResponse(ctx)
			return
		}

		var err error
		if ctx, err = runMiddlewares(ctx, befores); err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeResponse(ctx)
			return
		}

		var reqObj Request
		if err := bindRequest(req, method, &reqObj); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request of %s: %v", pattern, err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			writeResponse(ctx)
			return
		}

		resp, err := handler(ctx, &reqObj)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeResponse(ctx)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		if ctx, err = runMiddlewares(ctx, afters); err != nil {
			ctx = xcontext.WithError(ctx, err)
		}

		writeResponse(ctx)
	})
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, m := range middlewares {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func (r *Router) baseContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	ctx = xcontext.WithSnowFlake(ctx, r.snowflake)
	if r.db != nil {
		ctx = xcontext.WithDB(ctx, r.db)
	}

	return ctx
}

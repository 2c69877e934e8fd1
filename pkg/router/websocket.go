package router

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/ws"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Websocket registers a long-lived handler. Before middlewares run on the
// plain HTTP request; after the upgrade the handler owns the connection,
// reachable via xcontext.WSClient, until it returns.
func Websocket[Request any](r *Router, pattern string, handler WebsocketHandlerFunc[Request]) {
	befores := r.befores
	closers := r.closers

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := r.baseContext(req, w)

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		var err error
		if ctx, err = runMiddlewares(ctx, befores); err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeResponse(ctx)
			return
		}

		var reqObj Request
		if err := bindQuery(req, &reqObj); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the websocket request of %s: %v", pattern, err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			writeResponse(ctx)
			return
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot upgrade the connection: %v", err)
			return
		}
		defer conn.Close()

		ctx = xcontext.WithWSClient(ctx, ws.NewClient(conn))
		if err := handler(ctx, &reqObj); err != nil {
			ctx = xcontext.WithError(ctx, err)
			xcontext.Logger(ctx).Debugf("Websocket handler of %s exited: %v", pattern, err)
		}
	})
}

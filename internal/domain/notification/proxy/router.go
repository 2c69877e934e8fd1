package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/th3void/lotus-routine/internal/domain/notification/directive"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/pkg/ws"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// Router owns the single websocket between this proxy and the engine. It
// keeps one Hub per subscribed channel and one UserHub per connected user,
// registers them with the engine, and drops empty ones.
type Router struct {
	engineClient *ws.Client
	hubs         map[int64]*Hub
	userHubs     map[string]*UserHub

	mutex sync.RWMutex
}

func NewRouter(ctx context.Context) *Router {
	router := &Router{
		engineClient: nil,
		hubs:         make(map[int64]*Hub),
		userHubs:     make(map[string]*UserHub),
		mutex:        sync.RWMutex{},
	}

	go router.run(ctx)
	return router
}

func (r *Router) GetHub(ctx context.Context, channelID int64) (*Hub, error) {
	r.mutex.RLock()
	hub, ok := r.hubs[channelID]
	r.mutex.RUnlock()
	if ok {
		return hub, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.hubs[channelID]; !ok {
		if r.engineClient == nil {
			return nil, errors.New("engine is not connected")
		}

		b, err := json.Marshal(directive.NewRegisterChannelDirective(channelID))
		if err != nil {
			return nil, err
		}

		if err := r.engineClient.Write(b, true); err != nil {
			return nil, err
		}

		r.hubs[channelID] = NewHub(channelID)
		xcontext.Logger(ctx).Infof("Registered to channel %d successfully", channelID)
	}

	return r.hubs[channelID], nil
}

func (r *Router) GetUserHub(ctx context.Context, userID string) (*UserHub, error) {
	r.mutex.RLock()
	hub, ok := r.userHubs[userID]
	r.mutex.RUnlock()
	if ok {
		return hub, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.userHubs[userID]; !ok {
		if r.engineClient == nil {
			return nil, errors.New("engine is not connected")
		}

		b, err := json.Marshal(directive.NewRegisterUserDirective(userID))
		if err != nil {
			return nil, err
		}

		if err := r.engineClient.Write(b, true); err != nil {
			return nil, err
		}

		r.userHubs[userID] = NewUserHub(userID)
	}

	return r.userHubs[userID], nil
}

func (r *Router) run(ctx context.Context) {
	for {
		r.checkConnection(ctx)
		if err := r.cleanup(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cleanup empty hubs: %v", err)
		}

		time.Sleep(5 * time.Second)
	}
}

func (r *Router) cleanup(ctx context.Context) error {
	emptyHubs := []int64{}
	emptyUserHubs := []string{}

	r.mutex.RLock()
	for _, h := range r.hubs {
		if h.IsEmpty() {
			emptyHubs = append(emptyHubs, h.channelID)
		}
	}

	for _, h := range r.userHubs {
		if h.IsEmpty() {
			emptyUserHubs = append(emptyUserHubs, h.userID)
		}
	}
	r.mutex.RUnlock()

	if len(emptyHubs) == 0 && len(emptyUserHubs) == 0 {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.engineClient == nil {
		return nil
	}

	for _, channelID := range emptyHubs {
		if hub, ok := r.hubs[channelID]; ok && hub.IsEmpty() {
			b, err := json.Marshal(directive.NewUnregisterChannelDirective(channelID))
			if err != nil {
				return err
			}

			if err := r.engineClient.Write(b, true); err != nil {
				return err
			}

			close(hub.c)
			delete(r.hubs, channelID)
		}
	}

	for _, userID := range emptyUserHubs {
		if hub, ok := r.userHubs[userID]; ok && hub.IsEmpty() {
			b, err := json.Marshal(directive.NewUnregisterUserDirective(userID))
			if err != nil {
				return err
			}

			if err := r.engineClient.Write(b, true); err != nil {
				return err
			}

			delete(r.userHubs, userID)
		}
	}

	return nil
}

func (r *Router) checkConnection(ctx context.Context) {
	r.mutex.RLock()
	engineClient := r.engineClient
	r.mutex.RUnlock()

	if engineClient != nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Double check.
	if r.engineClient != nil {
		return
	}

	url := xcontext.Configs(ctx).Notification.EngineWSServer.Endpoint
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot establish connection with notification engine: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Connected to notification engine successfully")

	r.engineClient = ws.NewClient(conn)
	go r.runReceive(ctx)
}

func (r *Router) runReceive(ctx context.Context) {
	// Re-register everything this proxy still serves after a reconnect.
	r.mutex.Lock()
	for _, h := range r.hubs {
		b, err := json.Marshal(directive.NewRegisterChannelDirective(h.channelID))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal directive: %v", err)
			continue
		}

		if err := r.engineClient.Write(b, true); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot register hub %d to engine: %v", h.channelID, err)
			continue
		}
	}

	for _, h := range r.userHubs {
		b, err := json.Marshal(directive.NewRegisterUserDirective(h.userID))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal directive: %v", err)
			continue
		}

		if err := r.engineClient.Write(b, true); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot register user hub %s to engine: %v", h.userID, err)
			continue
		}
	}
	r.mutex.Unlock()

	for {
		eventResp, ok := <-r.engineClient.R
		if !ok {
			r.mutex.Lock()
			r.engineClient = nil
			r.mutex.Unlock()
			break
		}

		var ev event.EventRequest
		if err := json.Unmarshal(eventResp, &ev); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unmarshal event: %v", err)
			continue
		}

		r.mutex.RLock()
		if ev.Metadata.ToChannel != 0 {
			if hub, ok := r.hubs[ev.Metadata.ToChannel]; ok {
				hub.c <- &ev
			}
		} else if ev.Metadata.ToUser != "" {
			if hub, ok := r.userHubs[ev.Metadata.ToUser]; ok {
				hub.Send(&ev)
			}
		}
		r.mutex.RUnlock()
	}
}

package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/th3void/lotus-routine/internal/domain/notification/directive"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

// EngineServer is the single fanout point: api services Emit events over
// JSON-RPC, proxies keep a websocket open and receive the events of the
// channels and users they registered.
type EngineServer struct {
	channelProcessors map[int64]*ChannelProcessor
	userProcessors    map[string]*UserProcessor
	mutex             sync.RWMutex
}

func NewEngineServer() *EngineServer {
	return &EngineServer{
		channelProcessors: make(map[int64]*ChannelProcessor),
		userProcessors:    make(map[string]*UserProcessor),
		mutex:             sync.RWMutex{},
	}
}

func (s *EngineServer) GetChannelProcessor(channelID int64, createIfNotExist bool) *ChannelProcessor {
	s.mutex.RLock()
	channel, ok := s.channelProcessors[channelID]
	s.mutex.RUnlock()

	if ok {
		return channel
	}

	if !createIfNotExist {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Double check.
	if channel, ok := s.channelProcessors[channelID]; ok {
		return channel
	}

	s.channelProcessors[channelID] = NewChannelProcessor(channelID)
	return s.channelProcessors[channelID]
}

func (s *EngineServer) GetUserProcessor(userID string, createIfNotExist bool) *UserProcessor {
	s.mutex.RLock()
	user, ok := s.userProcessors[userID]
	s.mutex.RUnlock()

	if ok {
		return user
	}

	if !createIfNotExist {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Double check.
	if user, ok := s.userProcessors[userID]; ok {
		return user
	}

	s.userProcessors[userID] = NewUserProcessor(userID)
	return s.userProcessors[userID]
}

// Emit handles an emit call from an api service. The event goes to every
// proxy registered for its channel or user; an unregistered target means no
// one is listening and the event is dropped.
func (s *EngineServer) Emit(_ context.Context, event *event.EventRequest) error {
	if event.Metadata.ToChannel != 0 {
		if processor := s.GetChannelProcessor(event.Metadata.ToChannel, false); processor != nil {
			processor.Broadcast(event)
		}
	} else if event.Metadata.ToUser != "" {
		if processor := s.GetUserProcessor(event.Metadata.ToUser, false); processor != nil {
			processor.Send(event)
		}
	}

	return nil
}

func (s *EngineServer) ServeProxy(ctx context.Context, _ *model.ServeNotificationEngineRequest) error {
	proxySession := NewProxySession()
	defer proxySession.Leave()

	wsClient := xcontext.WSClient(ctx)
	for {
		select {
		case req, ok := <-wsClient.R:
			if !ok {
				return errorx.Unknown
			}

			var d directive.ServerDirective
			if err := json.Unmarshal(req, &d); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unmarshal directive: %v", err)
				return errorx.Unknown
			}

			switch d.Op {
			case directive.EngineRegisterChannelDirectiveOp:
				var registerDirective directive.EngineRegisterChannelDirective
				if err := json.Unmarshal(d.Data, &registerDirective); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal register channel data: %v", err)
					return errorx.Unknown
				}

				proxySession.RegisterChannel(s.GetChannelProcessor(registerDirective.ChannelID, true))
				xcontext.Logger(ctx).Infof("Proxy %s registered to channel %d",
					proxySession.id, registerDirective.ChannelID)

			case directive.EngineUnregisterChannelDirectiveOp:
				var unregisterDirective directive.EngineUnregisterChannelDirective
				if err := json.Unmarshal(d.Data, &unregisterDirective); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal unregister channel data: %v", err)
					return errorx.Unknown
				}

				proxySession.UnregisterChannel(s.GetChannelProcessor(unregisterDirective.ChannelID, false))
				xcontext.Logger(ctx).Infof("Proxy %s unregistered from channel %d",
					proxySession.id, unregisterDirective.ChannelID)

			case directive.EngineRegisterUserDirectiveOp:
				var registerDirective directive.EngineRegisterUserDirective
				if err := json.Unmarshal(d.Data, &registerDirective); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal register user data: %v", err)
					return errorx.Unknown
				}

				proxySession.RegisterUser(s.GetUserProcessor(registerDirective.UserID, true))

			case directive.EngineUnregisterUserDirectiveOp:
				var unregisterDirective directive.EngineUnregisterUserDirective
				if err := json.Unmarshal(d.Data, &unregisterDirective); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal unregister user data: %v", err)
					return errorx.Unknown
				}

				proxySession.UnregisterUser(s.GetUserProcessor(unregisterDirective.UserID, false))
			}

		case ev, ok := <-proxySession.C:
			if !ok {
				return errorx.Unknown
			}

			b, err := json.Marshal(ev)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
				return errorx.Unknown
			}

			if err := wsClient.Write(b, true); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write to ws: %v", err)
				return errorx.Unknown
			}
		}
	}
}

package engine

import (
	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
)

// ProxySession is the engine-side view of one connected proxy. A proxy
// registers the channels and users it currently serves.
type ProxySession struct {
	C chan *event.EventRequest

	id                string
	channelProcessors map[int64]*ChannelProcessor
	userProcessors    map[string]*UserProcessor
}

func NewProxySession() *ProxySession {
	return &ProxySession{
		C:                 make(chan *event.EventRequest, 16),
		id:                uuid.NewString(),
		channelProcessors: make(map[int64]*ChannelProcessor),
		userProcessors:    make(map[string]*UserProcessor),
	}
}

func (s *ProxySession) RegisterChannel(channel *ChannelProcessor) {
	if channel == nil {
		return
	}

	channel.register(s)
	s.channelProcessors[channel.channelID] = channel
}

func (s *ProxySession) UnregisterChannel(channel *ChannelProcessor) {
	if channel == nil {
		return
	}

	channel.unregister(s)
	delete(s.channelProcessors, channel.channelID)
}

func (s *ProxySession) RegisterUser(user *UserProcessor) {
	if user == nil {
		return
	}

	user.register(s)
	s.userProcessors[user.userID] = user
}

func (s *ProxySession) UnregisterUser(user *UserProcessor) {
	if user == nil {
		return
	}

	user.unregister(s)
	delete(s.userProcessors, user.userID)
}

func (s *ProxySession) Leave() {
	for _, channel := range s.channelProcessors {
		s.UnregisterChannel(channel)
	}

	for _, user := range s.userProcessors {
		s.UnregisterUser(user)
	}

	close(s.C)
}

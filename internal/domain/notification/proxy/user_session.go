package proxy

import (
	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
)

type UserSession struct {
	C chan *event.EventRequest

	id            string
	userID        string
	joinedHubs    map[int64]*Hub
	joinedUserHub *UserHub
}

func NewUserSession(userID string) *UserSession {
	return &UserSession{
		C:          make(chan *event.EventRequest, 16),
		id:         uuid.NewString(),
		userID:     userID,
		joinedHubs: make(map[int64]*Hub),
	}
}

func (s *UserSession) JoinChannel(hub *Hub) {
	if hub == nil {
		return
	}

	hub.register(s)
	s.joinedHubs[hub.channelID] = hub
}

func (s *UserSession) JoinUser(hub *UserHub) {
	hub.register(s)
	s.joinedUserHub = hub
}

func (s *UserSession) Leave() {
	for _, hub := range s.joinedHubs {
		hub.unregister(s)
	}

	s.joinedHubs = map[int64]*Hub{}
	if s.joinedUserHub != nil {
		s.joinedUserHub.unregister(s)
	}

	close(s.C)
}

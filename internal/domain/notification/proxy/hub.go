package proxy

import (
	"sync"

	"github.com/th3void/lotus-routine/internal/domain/notification/event"
)

// Hub fans one channel's events out to every user session on this proxy
// that joined the channel.
type Hub struct {
	channelID int64
	sessions  map[string]*UserSession
	c         chan *event.EventRequest

	mutex sync.RWMutex
}

func NewHub(channelID int64) *Hub {
	h := &Hub{
		channelID: channelID,
		sessions:  make(map[string]*UserSession),
		mutex:     sync.RWMutex{},
		c:         make(chan *event.EventRequest, 8),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		event, ok := <-h.c
		if !ok {
			break
		}

		h.mutex.RLock()
		for _, s := range h.sessions {
			s.C <- event
		}
		h.mutex.RUnlock()
	}
}

func (h *Hub) register(session *UserSession) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	// Double check.
	if _, ok := h.sessions[session.id]; !ok {
		h.sessions[session.id] = session
	}
}

func (h *Hub) unregister(session *UserSession) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.sessions, session.id)
}

func (h *Hub) IsEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}

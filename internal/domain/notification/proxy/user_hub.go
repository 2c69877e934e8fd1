package proxy

import (
	"sync"

	"github.com/th3void/lotus-routine/internal/domain/notification/event"
)

// UserHub carries the per-user stream (notifications, status changes) to
// every open session of one user on this proxy.
type UserHub struct {
	userID   string
	sessions map[string]*UserSession

	mutex sync.RWMutex
}

func NewUserHub(userID string) *UserHub {
	return &UserHub{
		userID:   userID,
		sessions: make(map[string]*UserSession),
		mutex:    sync.RWMutex{},
	}
}

func (h *UserHub) Send(event *event.EventRequest) {
	h.mutex.RLock()
	for _, s := range h.sessions {
		s.C <- event
	}
	h.mutex.RUnlock()
}

func (h *UserHub) register(session *UserSession) {
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

func (h *UserHub) unregister(session *UserSession) {
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

func (h *UserHub) IsEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}

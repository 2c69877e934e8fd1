package engine

import (
	"sync"

	"github.com/th3void/lotus-routine/internal/domain/notification/event"
)

// ChannelProcessor fans one chat channel's events out to every proxy that
// registered for it.
type ChannelProcessor struct {
	channelID int64
	proxies   map[string]*ProxySession
	mutex     sync.RWMutex
}

func NewChannelProcessor(channelID int64) *ChannelProcessor {
	return &ChannelProcessor{
		channelID: channelID,
		proxies:   make(map[string]*ProxySession),
		mutex:     sync.RWMutex{},
	}
}

func (p *ChannelProcessor) register(proxy *ProxySession) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, ok := p.proxies[proxy.id]; ok {
		return
	}

	p.proxies[proxy.id] = proxy
}

func (p *ChannelProcessor) unregister(proxy *ProxySession) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	delete(p.proxies, proxy.id)
}

func (p *ChannelProcessor) Broadcast(ev *event.EventRequest) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	for _, proxy := range p.proxies {
		proxy.C <- ev
	}
}

package eventbus

import (
	"context"
	"sync"

	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventTab carries tab lifecycle updates.
	EventTab EventType = "tab"
	// EventContent carries reconciled content changes.
	EventContent EventType = "content"
)

// AllServers subscribes to events of every server.
const AllServers schema.ServerName = ""

// Event represents a UI-facing event emitted by the registry.
type Event struct {
	Type    EventType
	Tab     schema.TabEvent
	Content schema.ContentEvent
}

// Bus fans out events to per-server subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.ServerName]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.ServerName]map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the server (AllServers for every
// server) and returns a channel + cancel.
func (b *Bus) Subscribe(server schema.ServerName) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	serverSubs := b.subs[server]
	if serverSubs == nil {
		serverSubs = make(map[chan Event]struct{})
		b.subs[server] = serverSubs
	}
	serverSubs[ch] = struct{}{}
	count := len(serverSubs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.With("server", server).Debug("eventbus subscribe", "subs", count)
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if subs := b.subs[server]; subs != nil {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(b.subs, server)
				}
			}
			b.mu.Unlock()
			close(ch)
			if b.log != nil {
				b.log.With("server", server).Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnTabEvent publishes a tab event.
func (b *Bus) OnTabEvent(event schema.TabEvent) {
	b.publish(event.Tab.Server, Event{Type: EventTab, Tab: event})
}

// OnContentEvent publishes a content event.
func (b *Bus) OnContentEvent(event schema.ContentEvent) {
	b.publish(event.Server, Event{Type: EventContent, Content: event})
}

func (b *Bus) publish(server schema.ServerName, event Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	var subs []chan Event
	if server == AllServers {
		// Events without a server (close all, deactivation) reach everyone.
		for _, set := range b.subs {
			for sub := range set {
				subs = append(subs, sub)
			}
		}
	} else {
		subs = make([]chan Event, 0, len(b.subs[server])+len(b.subs[AllServers]))
		for sub := range b.subs[server] {
			subs = append(subs, sub)
		}
		for sub := range b.subs[AllServers] {
			subs = append(subs, sub)
		}
	}
	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.With("server", server).Trace("eventbus dropped", "count", dropped)
	}
}

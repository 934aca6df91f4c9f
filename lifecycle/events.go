package lifecycle

import (
	"sync"
	"time"
)

// Event kinds
const (
	EventLeadPromoted    = "lead_promoted"
	EventClientDemoted   = "client_demoted"
	EventLeadDropped     = "lead_dropped"
	EventLeadReactivated = "lead_reactivated"
	EventTasksScheduled  = "amc_tasks_scheduled"
)

// Event describes a committed lifecycle transition or scheduling run.
type Event struct {
	Kind     string    `json:"kind"`
	SourceID uint      `json:"source_id"`
	NewID    uint      `json:"new_id,omitempty"`
	Count    int       `json:"count,omitempty"`
	ActorID  uint      `json:"actor_id"`
	At       time.Time `json:"at"`
	Detail   string    `json:"detail,omitempty"`
}

// Hub fans committed events out to subscribers (the pipeline websocket feed).
// Publishing never blocks: slow subscribers lose events rather than stalling
// request handlers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber channel.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish delivers the event to every subscriber that has buffer space.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

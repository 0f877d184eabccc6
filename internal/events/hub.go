// Package events fans record changes out to live subscribers.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	CollectionEmployees  = "employees"
	CollectionAttendance = "attendance"
	CollectionPayments   = "payments"

	defaultBuffer = 32
)

// Event describes one change to a stored record.
type Event struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	Data       any       `json:"data,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher is what services use to announce changes.
type Publisher interface {
	Publish(ev Event)
}

type subscriber struct {
	ch          chan Event
	collections map[string]bool
	once        sync.Once
}

func (s *subscriber) wants(collection string) bool {
	return len(s.collections) == 0 || s.collections[collection]
}

type Hub struct {
	mu      sync.RWMutex
	subs    map[*subscriber]struct{}
	buffer  int
	dropped atomic.Uint64
}

// NewHub returns a hub whose subscribers each buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{subs: make(map[*subscriber]struct{}), buffer: buffer}
}

// Publish delivers ev to every interested subscriber without blocking.
// A subscriber whose buffer is full misses the event.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if !s.wants(ev.Collection) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribe registers interest in the given collections, or all of them when
// none are named. cancel closes the channel and may be called more than once.
func (h *Hub) Subscribe(collections ...string) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, h.buffer), collections: make(map[string]bool)}
	for _, c := range collections {
		if c != "" {
			s.collections[c] = true
		}
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
			close(s.ch)
		})
	}

	return s.ch, cancel
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts deliveries skipped because a subscriber was too slow.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

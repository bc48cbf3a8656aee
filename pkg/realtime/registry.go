// Package realtime is an in-process pub/sub registry for pushing order and
// voucher change notifications to live subscribers (dashboards, SSE bridges).
// Delivery is best-effort: publishing never blocks and never fails the caller.
package realtime

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

type Event struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

type Subscription struct {
	ID     int64
	Topic  string
	C      <-chan Event
	events chan Event
}

// Registry owns the subscriber set. Lifecycle is explicit: constructed at
// process start, closed at shutdown. No module-level state.
type Registry struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string]map[int64]*Subscription
	closed bool
}

func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[string]map[int64]*Subscription),
	}
}

// Subscribe registers a buffered subscriber for one topic.
func (r *Registry) Subscribe(topic string) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		closed := make(chan Event)
		close(closed)
		return &Subscription{Topic: topic, C: closed}
	}

	r.nextID++
	events := make(chan Event, subscriberBuffer)
	sub := &Subscription{
		ID:     r.nextID,
		Topic:  topic,
		C:      events,
		events: events,
	}

	if r.subs[topic] == nil {
		r.subs[topic] = make(map[int64]*Subscription)
	}
	r.subs[topic][sub.ID] = sub
	return sub
}

func (r *Registry) Unsubscribe(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	topicSubs, ok := r.subs[sub.Topic]
	if !ok {
		return
	}
	if registered, ok := topicSubs[sub.ID]; ok {
		delete(topicSubs, sub.ID)
		close(registered.events)
	}
	if len(topicSubs) == 0 {
		delete(r.subs, sub.Topic)
	}
}

// Publish fans an event out to every subscriber of the topic and returns how
// many received it. A subscriber with a full buffer is skipped, not waited
// for. Zero subscribers is not an error.
func (r *Registry) Publish(topic string, payload any) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0
	}

	event := Event{Topic: topic, Payload: payload, At: time.Now().UTC()}
	delivered := 0
	for _, sub := range r.subs[topic] {
		select {
		case sub.events <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for topic, topicSubs := range r.subs {
		for id, sub := range topicSubs {
			close(sub.events)
			delete(topicSubs, id)
		}
		delete(r.subs, topic)
	}
}

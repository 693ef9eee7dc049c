// Package events fans task change notifications out to live subscribers
// (the WebSocket feed). It is purely in-process; nothing here is persisted.
package events

import (
	"sync"
	"time"

	"taskboard/internal/models"

	"github.com/google/uuid"
)

// Task event types.
const (
	TaskCreated = "task_created"
	TaskUpdated = "task_updated"
	TaskDeleted = "task_deleted"
)

// subscriberBuffer bounds each subscriber channel; slow consumers drop events
// rather than block publishers.
const subscriberBuffer = 32

type TaskEvent struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"` // task_created | task_updated | task_deleted
	OccurredAt time.Time   `json:"occurred_at"`
	Task       models.Task `json:"task"`
}

type subscriber struct {
	ownerID int
	all     bool // admin feed: receives every owner's events
	ch      chan TaskEvent
}

// Broadcaster tracks subscribers and delivers task events to the ones whose
// owner filter matches.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]*subscriber)}
}

// Subscribe registers a listener for ownerID's task events (or all events
// when all is true) and returns its ID plus the receive channel.
func (b *Broadcaster) Subscribe(ownerID int, all bool) (string, <-chan TaskEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	sub := &subscriber{
		ownerID: ownerID,
		all:     all,
		ch:      make(chan TaskEvent, subscriberBuffer),
	}
	b.subs[id] = sub
	return id, sub.ch
}

// Unsubscribe removes a listener and closes its channel. Unknown IDs are a
// no-op.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.ch)
}

// Publish delivers ev to every matching subscriber. Sends never block: a
// full subscriber buffer drops the event for that subscriber only.
func (b *Broadcaster) Publish(ev TaskEvent) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !sub.all && sub.ownerID != ev.Task.OwnerID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

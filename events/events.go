package events

import (
	"context"
	"sync"
	"time"

	"heinzbottle/models"

	log "github.com/sirupsen/logrus"
)

// EventType identifies an event on the bus
type EventType string

const (
	EventTypeStandingChanged       EventType = "standing_changed"
	EventTypeUserLinked            EventType = "user_linked"
	EventTypeLeaderboardsRefreshed EventType = "leaderboards_refreshed"
)

// Event is implemented by everything published on the bus
type Event interface {
	Type() EventType
}

// StandingChangedEvent is emitted after a user's recorded highest rank was raised
type StandingChangedEvent struct {
	UserID        int64
	DiscordID     int64
	MinecraftUUID string
	OldRank       models.Rank
	NewRank       models.Rank
}

func (e StandingChangedEvent) Type() EventType {
	return EventTypeStandingChanged
}

// UserLinkedEvent is emitted after a Discord account was linked to a Minecraft account
type UserLinkedEvent struct {
	UserID        int64
	DiscordID     int64
	MinecraftUUID string
	Username      string
}

func (e UserLinkedEvent) Type() EventType {
	return EventTypeUserLinked
}

// LeaderboardsRefreshedEvent is emitted after a new leaderboard snapshot was published
type LeaderboardsRefreshedEvent struct {
	Players  int
	Failures int
	Boards   int
	Duration time.Duration
}

func (e LeaderboardsRefreshedEvent) Type() EventType {
	return EventTypeLeaderboardsRefreshed
}

// Handler reacts to an event
type Handler func(ctx context.Context, event Event)

// Bus dispatches events to subscribed handlers
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for one event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler")
}

// Emit runs every handler of the event's type on its own goroutine.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits an event outside of any transaction
func (b *Bus) Publish(e Event) {
	b.Emit(context.Background(), e)
}

// TransactionalBus holds events until the owning unit of work commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps real, which receives events on Flush
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush emits every queued event; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional bus")

	// Handlers outlive the request that committed the transaction
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops every queued event; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Package eventbus fans presenter output (frames, notifications) out to
// any number of consumers and keeps a short history of what was sent.
package eventbus

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType identifies the type of event
type EventType string

const (
	// EventFrame carries a freshly derived frame
	EventFrame EventType = "frame"

	// EventNotification carries a user-facing notification
	EventNotification EventType = "notification"
)

// DefaultHistoryLimit is how many events a bus remembers
const DefaultHistoryLimit = 200

// Event represents an event in the system
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      make(map[string]any),
	}
}

// WithSource sets the source
func (e *Event) WithSource(source string) *Event {
	e.Source = source
	return e
}

// WithData adds data to the event
func (e *Event) WithData(key string, value any) *Event {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// JSON returns the event as JSON
func (e *Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Subscriber is a function that handles events
type Subscriber func(event *Event)

// Subscription represents a subscription to events
type Subscription struct {
	id         int
	eventTypes []EventType // nil means all events
	handler    Subscriber
}

// Bus delivers events to subscribers in publish order. Handlers run on the
// publisher's goroutine and must not block.
type Bus struct {
	mu           sync.RWMutex
	subscribers  []*Subscription
	nextID       int
	eventHistory []*Event
	historyLimit int
	logger       *zap.Logger
}

// Option configures a Bus
type Option func(*Bus)

// WithHistoryLimit overrides DefaultHistoryLimit
func WithHistoryLimit(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.historyLimit = n
		}
	}
}

// WithLogger sets the logger used for failing subscribers
func WithLogger(l *zap.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBus creates a new event bus
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		historyLimit: DefaultHistoryLimit,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscriber for specific event types. Pass nil for
// eventTypes to receive every event. The returned function unsubscribes.
func (b *Bus) Subscribe(eventTypes []EventType, handler Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers = append(b.subscribers, &Subscription{
		id:         id,
		eventTypes: eventTypes,
		handler:    handler,
	})

	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub.id == id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish records event and delivers it to all matching subscribers
func (b *Bus) Publish(event *Event) {
	b.mu.Lock()
	b.eventHistory = append(b.eventHistory, event)
	if len(b.eventHistory) > b.historyLimit {
		b.eventHistory = b.eventHistory[len(b.eventHistory)-b.historyLimit:]
	}
	subscribers := make([]*Subscription, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.Unlock()

	for _, sub := range subscribers {
		if matchesSubscription(event, sub) {
			b.deliver(sub, event)
		}
	}
}

func (b *Bus) deliver(sub *Subscription, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked",
				zap.String("type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()
	sub.handler(event)
}

// matchesSubscription checks if an event matches a subscription
func matchesSubscription(event *Event, sub *Subscription) bool {
	if sub.eventTypes == nil {
		return true
	}

	for _, et := range sub.eventTypes {
		if et == event.Type {
			return true
		}
	}
	return false
}

// GetHistory returns recent events
func (b *Bus) GetHistory(limit int) []*Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit <= 0 || limit > len(b.eventHistory) {
		limit = len(b.eventHistory)
	}

	start := len(b.eventHistory) - limit
	result := make([]*Event, limit)
	copy(result, b.eventHistory[start:])
	return result
}

// GetHistoryByType returns recent events of specific types
func (b *Bus) GetHistoryByType(eventTypes []EventType, limit int) []*Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]*Event, 0)
	typeSet := make(map[EventType]bool)
	for _, et := range eventTypes {
		typeSet[et] = true
	}

	for i := len(b.eventHistory) - 1; i >= 0 && len(result) < limit; i-- {
		if typeSet[b.eventHistory[i].Type] {
			result = append([]*Event{b.eventHistory[i]}, result...)
		}
	}

	return result
}

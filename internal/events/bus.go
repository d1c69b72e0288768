// Package events is the in-process stand-in for the "realtime change feed"
// spec.md treats as an external collaborator of the abstract persistence
// store: it fires on ScanRun status transitions and Recommendation inserts so
// a future UI layer (out of scope here) could subscribe without the core
// depending on it.
package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of change-feed event published.
type EventType string

const (
	// EventScanRunCreated fires when a new ScanRun is inserted with status=running.
	EventScanRunCreated EventType = "SCAN_RUN_CREATED"
	// EventScanRunStatusChanged fires whenever a ScanRun transitions status.
	EventScanRunStatusChanged EventType = "SCAN_RUN_STATUS_CHANGED"
	// EventRecommendationCreated fires when a Recommendation row is inserted.
	EventRecommendationCreated EventType = "RECOMMENDATION_CREATED"
	// EventBotDisabled fires when C8 disables or permanently disables a bot.
	EventBotDisabled EventType = "BOT_DISABLED"
)

// Event is one change-feed notification.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber handles a published event.
type Subscriber func(Event)

// EventBus fans out published events to subscribers, matching the teacher's
// mutex-guarded map-of-slices shape.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[EventType][]Subscriber)}
}

// Subscribe registers a subscriber for one event type.
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for every event type.
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish notifies all matching subscribers. Each subscriber runs in its own
// goroutine so a slow consumer never blocks the scan pipeline.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	for _, sub := range eb.subscribers[event.Type] {
		go sub(event)
	}
	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishScanRunCreated publishes a ScanRun-created event.
func (eb *EventBus) PublishScanRunCreated(runID, scanType string) {
	eb.Publish(Event{Type: EventScanRunCreated, Data: map[string]interface{}{
		"run_id": runID, "scan_type": scanType,
	}})
}

// PublishScanRunStatusChanged publishes a ScanRun status transition.
func (eb *EventBus) PublishScanRunStatusChanged(runID, status string, processed, total int) {
	eb.Publish(Event{Type: EventScanRunStatusChanged, Data: map[string]interface{}{
		"run_id": runID, "status": status, "processed": processed, "total": total,
	}})
}

// PublishRecommendationCreated publishes a Recommendation insert.
func (eb *EventBus) PublishRecommendationCreated(runID, symbol, direction string, confidence float64) {
	eb.Publish(Event{Type: EventRecommendationCreated, Data: map[string]interface{}{
		"run_id": runID, "symbol": symbol, "direction": direction, "confidence": confidence,
	}})
}

// PublishBotDisabled publishes a bot disable/permanent-disable transition.
func (eb *EventBus) PublishBotDisabled(botName, reason string, permanent bool) {
	eb.Publish(Event{Type: EventBotDisabled, Data: map[string]interface{}{
		"bot": botName, "reason": reason, "permanent": permanent,
	}})
}

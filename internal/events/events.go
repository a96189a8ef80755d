package events

import (
	"encoding/json"
	"sync"
	"time"

	"campusfix/internal/models"
)

const (
	EventBookingCreated   = "booking_created"
	EventStageAdvanced    = "stage_advanced"
	EventBookingCompleted = "booking_completed"
	EventFeedbackReceived = "feedback_received"
)

// BookingEventPayload is the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Hostel    string    `json:"hostel,omitempty"`
	Device    string    `json:"device"`
	Issue     string    `json:"issue"`
	Urgency   string    `json:"urgency"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	ChangedBy string    `json:"changed_by,omitempty"`
	At        time.Time `json:"at"`
}

// PayloadFor builds the standard payload from a booking.
func PayloadFor(b *models.Booking, changedBy string, at time.Time) BookingEventPayload {
	return BookingEventPayload{
		Code:      b.Code,
		Name:      b.Name,
		Phone:     b.Phone,
		Hostel:    b.Hostel,
		Device:    b.Device,
		Issue:     b.Issue,
		Urgency:   string(b.Urgency),
		Status:    b.Status,
		Progress:  b.Progress,
		ChangedBy: changedBy,
		At:        at,
	}
}

// Decode unmarshals the event payload into dst.
func (e *Event) Decode(dst interface{}) error {
	return json.Unmarshal(e.Payload, dst)
}

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"tandem/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeCoupleSubscribe   = "couple.subscribe"
	EventTypeCoupleUnsubscribe = "couple.unsubscribe"
	EventTypePing              = "ping"
)

// Event types - Server → Client
const (
	EventTypeCouplePaired    = "couple.paired"
	EventTypeEventCreated    = "event.created"
	EventTypeEventUpdated    = "event.updated"
	EventTypeEventDeleted    = "event.deleted"
	EventTypeGoalCreated     = "goal.created"
	EventTypeGoalUpdated     = "goal.updated"
	EventTypeGoalDeleted     = "goal.deleted"
	EventTypeReminderCreated = "reminder.created"
	EventTypeReminderUpdated = "reminder.updated"
	EventTypeReminderDeleted = "reminder.deleted"
	EventTypePong            = "pong"
	EventTypeError           = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	CoupleID  *uuid.UUID      `json:"couple_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type CouplePayload struct {
	CoupleID uuid.UUID `json:"couple_id"`
}

// --- Server → Client payloads ---

type PairedPayload struct {
	domain.Couple
}

type CalendarEventPayload struct {
	domain.Event
}

type GoalPayload struct {
	domain.Goal
}

type ReminderPayload struct {
	domain.Reminder
}

type DeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, coupleID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		CoupleID:  coupleID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}

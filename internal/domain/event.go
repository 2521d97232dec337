package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types as the calendar UI knows them.
const (
	EventTypeVacation = "vacation"
	EventTypeDate     = "date"
	EventTypeTrip     = "trip"
	EventTypeEvent    = "event"
)

type Event struct {
	ID          uuid.UUID `json:"id"`
	CoupleID    uuid.UUID `json:"couple_id"`
	CreatedBy   uuid.UUID `json:"created_by"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	Emoji       *string   `json:"emoji,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

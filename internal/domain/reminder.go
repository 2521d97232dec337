package domain

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID        uuid.UUID  `json:"id"`
	CoupleID  uuid.UUID  `json:"couple_id"`
	CreatedBy uuid.UUID  `json:"created_by"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Shared    bool       `json:"shared"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

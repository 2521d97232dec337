package domain

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID          uuid.UUID  `json:"id"`
	CoupleID    uuid.UUID  `json:"couple_id"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Progress    int        `json:"progress"` // 0-100
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Color       string     `json:"color"`
	Emoji       *string    `json:"emoji,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-user record holding display data and the couple linkage.
// CoupleID stays nil until pairing succeeds and is set exactly once.
type Profile struct {
	UserID       uuid.UUID  `json:"user_id"`
	FullName     string     `json:"full_name"`
	Bio          *string    `json:"bio,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	PartnerEmail *string    `json:"partner_email,omitempty"`
	CoupleID     *uuid.UUID `json:"couple_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

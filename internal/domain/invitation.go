package domain

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation is a token-bearing, time-limited offer to pair, addressed to an
// email that may not have an account yet. Status transitions one way:
// pending → accepted or pending → expired.
type Invitation struct {
	ID           uuid.UUID        `json:"id"`
	InviterID    uuid.UUID        `json:"inviter_id"`
	InviteeEmail string           `json:"invitee_email"`
	Status       InvitationStatus `json:"status"`
	Token        string           `json:"invitation_token"`
	ExpiresAt    time.Time        `json:"expires_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Usable reports whether the invitation can still be accepted.
func (i *Invitation) Usable(now time.Time) bool {
	return i.Status == InvitationPending && now.Before(i.ExpiresAt)
}

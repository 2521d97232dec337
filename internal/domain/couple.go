package domain

import (
	"time"

	"github.com/google/uuid"
)

// Couple links exactly two user accounts as partners. Rows are immutable
// once created; each user appears in at most one couple system-wide.
// User1ID < User2ID (canonical ordering by UUID string).
type Couple struct {
	ID        uuid.UUID `json:"id"`
	User1ID   uuid.UUID `json:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCouple builds a couple with canonical member ordering.
func NewCouple(userA, userB uuid.UUID) *Couple {
	u1, u2 := userA, userB
	if u1.String() > u2.String() {
		u1, u2 = u2, u1
	}
	return &Couple{
		ID:        uuid.New(),
		User1ID:   u1,
		User2ID:   u2,
		CreatedAt: time.Now(),
	}
}

// Has reports whether userID is one of the couple's members.
func (c *Couple) Has(userID uuid.UUID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// PartnerOf returns the other member of the couple.
func (c *Couple) PartnerOf(userID uuid.UUID) uuid.UUID {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

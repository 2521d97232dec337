package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"tandem/internal/domain"
)

// Conflict sentinels surfaced by the postgres implementations. Services
// translate these into their own user-facing errors.
var (
	// ErrAlreadyPaired means one of the members already belongs to a couple.
	ErrAlreadyPaired = errors.New("user already belongs to a couple")
	// ErrNotPending means an invitation status transition found the row
	// outside the pending state.
	ErrNotPending = errors.New("invitation is not pending")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type CoupleRepository interface {
	// Create inserts the couple row and claims both members' profiles in a
	// single transaction. Returns ErrAlreadyPaired when either member is
	// already in a couple.
	Create(ctx context.Context, couple *domain.Couple) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Couple, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Couple, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	GetPending(ctx context.Context, inviterID uuid.UUID, inviteeEmail string) (*domain.Invitation, error)
	// UpdateStatus transitions status from → to, guarded by the current
	// status. Returns false when the row was not in the from state.
	UpdateStatus(ctx context.Context, token string, from, to domain.InvitationStatus) (bool, error)
	// Accept atomically marks the invitation accepted, upserts the
	// acceptor's profile with the invited email, inserts the couple and
	// claims both profiles. On any failure the invitation stays pending.
	Accept(ctx context.Context, inv *domain.Invitation, couple *domain.Couple, acceptorID uuid.UUID) error
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error)
	ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *domain.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)
	ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]domain.Reminder, error)
	Update(ctx context.Context, reminder *domain.Reminder) error
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

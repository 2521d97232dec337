package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

// Invitations stay acceptable for seven days.
const invitationTTL = 7 * 24 * time.Hour

// InvitationService is the invitation ledger: it issues, deduplicates and
// resolves partner invitation tokens.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	now            func() time.Time
}

func NewInvitationService(invitationRepo repository.InvitationRepository) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		now:            time.Now,
	}
}

// Issue returns the existing pending invitation for (inviter, email) when one
// is still usable, so re-sending is idempotent and never mints a second live
// token. A pending invitation past its expiry is transitioned to expired and
// replaced with a fresh one.
func (s *InvitationService) Issue(ctx context.Context, inviterID uuid.UUID, inviteeEmail string) (*domain.Invitation, error) {
	inviteeEmail = normalizeEmail(inviteeEmail)

	existing, err := s.invitationRepo.GetPending(ctx, inviterID, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Usable(s.now()) {
			return existing, nil
		}
		// Stale pending row; expire it so the partial unique index frees up.
		if _, err := s.invitationRepo.UpdateStatus(ctx, existing.Token, domain.InvitationPending, domain.InvitationExpired); err != nil {
			return nil, err
		}
	}

	token, err := newInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	now := s.now()
	inv := &domain.Invitation{
		ID:           uuid.New(),
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		Status:       domain.InvitationPending,
		Token:        token,
		ExpiresAt:    now.Add(invitationTTL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invitation: %w", err)
	}

	return inv, nil
}

// GetByToken is an exact lookup with no side effects. Returns (nil, nil)
// when the token is unknown.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	return s.invitationRepo.GetByToken(ctx, token)
}

// MarkAccepted transitions pending → accepted. Calling it on a non-pending
// invitation is a harmless no-op; acceptance eligibility is guarded upstream.
func (s *InvitationService) MarkAccepted(ctx context.Context, token string) error {
	_, err := s.invitationRepo.UpdateStatus(ctx, token, domain.InvitationPending, domain.InvitationAccepted)
	return err
}

// Expire transitions pending → expired, reporting whether this call won the
// transition.
func (s *InvitationService) Expire(ctx context.Context, token string) (bool, error) {
	return s.invitationRepo.UpdateStatus(ctx, token, domain.InvitationPending, domain.InvitationExpired)
}

// newInvitationToken returns 256 bits from crypto/rand, URL-safe encoded.
// The token is the only credential in the invitation link, so it must be
// unguessable.
func newInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

var (
	ErrInvalidToken      = errors.New("invitation token not found")
	ErrInvitationExpired = errors.New("invitation has expired")
	ErrInvitationUsed    = errors.New("invitation has already been used")
	ErrEmailMismatch     = errors.New("invitation was sent to a different email address")
	ErrInviterNotFound   = errors.New("inviter profile not found")
)

// emailSendTimeout bounds the best-effort invitation email; a timeout is
// treated like any other delivery failure.
const emailSendTimeout = 5 * time.Second

// PairingService orchestrates the partner workflow: connecting with a
// partner email turns into either an immediate couple (account exists) or a
// durable invitation, and a received invitation turns into acceptance.
type PairingService struct {
	couples     *CoupleService
	invitations *InvitationService
	profiles    *ProfileService

	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	invitationRepo repository.InvitationRepository

	mailer   Mailer
	notifier Notifier

	appBaseURL string
	now        func() time.Time
}

func NewPairingService(
	couples *CoupleService,
	invitations *InvitationService,
	profiles *ProfileService,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	invitationRepo repository.InvitationRepository,
	mailer Mailer,
	notifier Notifier,
	appBaseURL string,
) *PairingService {
	return &PairingService{
		couples:        couples,
		invitations:    invitations,
		profiles:       profiles,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		invitationRepo: invitationRepo,
		mailer:         mailer,
		notifier:       notifier,
		appBaseURL:     appBaseURL,
		now:            time.Now,
	}
}

// ConnectResult is the outcome of ConnectWithPartner: either Paired with the
// new couple, or an issued invitation plus the email delivery outcome.
type ConnectResult struct {
	Paired         bool               `json:"paired"`
	Couple         *domain.Couple     `json:"couple,omitempty"`
	Invitation     *domain.Invitation `json:"invitation,omitempty"`
	InvitationLink string             `json:"invitation_link,omitempty"`
	EmailSent      bool               `json:"email_sent"`
	EmailError     string             `json:"email_error,omitempty"`
}

// ConnectWithPartner records the caller's intent, tries the direct pairing
// fast path, and falls back to issuing an invitation when the partner has no
// account yet. Email delivery is best-effort: the invitation row is the
// source of truth, and the link is returned for manual sharing either way.
func (s *PairingService) ConnectWithPartner(ctx context.Context, userID uuid.UUID, partnerEmail string) (*ConnectResult, error) {
	partnerEmail = normalizeEmail(partnerEmail)

	existing, err := s.couples.FindCoupleForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaired
	}

	if err := s.profiles.RecordPartnerIntent(ctx, userID, partnerEmail); err != nil {
		return nil, fmt.Errorf("recording partner email: %w", err)
	}

	couple, err := s.couples.CreateCouple(ctx, userID, partnerEmail)
	if err == nil {
		s.notifier.NotifyPaired(couple)
		return &ConnectResult{Paired: true, Couple: couple}, nil
	}
	if !errors.Is(err, ErrPartnerNotFound) {
		// AlreadyPaired and friends are hard errors; issuing a redundant
		// invitation here would only mask them.
		return nil, err
	}

	inv, err := s.invitations.Issue(ctx, userID, partnerEmail)
	if err != nil {
		return nil, err
	}

	result := &ConnectResult{
		Invitation:     inv,
		InvitationLink: s.invitationLink(inv.Token),
	}

	inviterName := s.inviterName(ctx, userID)
	emailCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()
	if err := s.mailer.SendInvitation(emailCtx, partnerEmail, inviterName, result.InvitationLink); err != nil {
		slog.Warn("invitation email not delivered", "invitee", partnerEmail, "err", err)
		result.EmailError = err.Error()
	} else {
		result.EmailSent = true
	}

	return result, nil
}

// AcceptInvitation validates the token against the accepting account and
// performs the pairing. Validation order matters for the error the user
// sees: unknown token, then expiry, then reuse, then email mismatch. The
// mutation itself (mark accepted, record partner email, create couple, claim
// profiles) is one transaction, so a failed acceptance leaves the invitation
// pending and retryable.
func (s *PairingService) AcceptInvitation(ctx context.Context, token string, userID uuid.UUID) (*domain.Couple, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvalidToken
	}

	if !s.now().Before(inv.ExpiresAt) {
		return nil, ErrInvitationExpired
	}
	if inv.Status != domain.InvitationPending {
		return nil, ErrInvitationUsed
	}
	userEmail, err := s.userEmail(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userEmail != inv.InviteeEmail {
		return nil, ErrEmailMismatch
	}
	if inv.InviterID == userID {
		return nil, ErrCannotPairSelf
	}

	inviterProfile, err := s.profileRepo.Get(ctx, inv.InviterID)
	if err != nil {
		return nil, err
	}
	if inviterProfile == nil {
		return nil, ErrInviterNotFound
	}

	couple := domain.NewCouple(inv.InviterID, userID)
	if err := s.invitationRepo.Accept(ctx, inv, couple, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotPending):
			return nil, ErrInvitationUsed
		case errors.Is(err, repository.ErrAlreadyPaired):
			return nil, ErrAlreadyPaired
		}
		return nil, fmt.Errorf("accepting invitation: %w", err)
	}

	s.couples.invalidatePairing(ctx, couple)
	s.notifier.NotifyPaired(couple)
	return couple, nil
}

// DeclineInvitation retires a pending invitation. Only the invited address
// may decline; a decline is recorded as the expired terminal state.
func (s *PairingService) DeclineInvitation(ctx context.Context, token string, userID uuid.UUID) error {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrInvalidToken
	}
	if inv.Status != domain.InvitationPending {
		return ErrInvitationUsed
	}
	userEmail, err := s.userEmail(ctx, userID)
	if err != nil {
		return err
	}
	if userEmail != inv.InviteeEmail {
		return ErrEmailMismatch
	}

	if _, err := s.invitations.Expire(ctx, token); err != nil {
		return err
	}
	return nil
}

// InvitationPreview is what the accept page shows before sign-in.
type InvitationPreview struct {
	InviterName  string                  `json:"inviter_name"`
	InviteeEmail string                  `json:"invitee_email"`
	Status       domain.InvitationStatus `json:"status"`
	ExpiresAt    time.Time               `json:"expires_at"`
	Usable       bool                    `json:"usable"`
}

func (s *PairingService) Preview(ctx context.Context, token string) (*InvitationPreview, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvalidToken
	}

	return &InvitationPreview{
		InviterName:  s.inviterName(ctx, inv.InviterID),
		InviteeEmail: inv.InviteeEmail,
		Status:       inv.Status,
		ExpiresAt:    inv.ExpiresAt,
		Usable:       inv.Usable(s.now()),
	}, nil
}

func (s *PairingService) userEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("user %s not found", userID)
	}
	return normalizeEmail(user.Email), nil
}

func (s *PairingService) invitationLink(token string) string {
	return s.appBaseURL + "/accept-invitation?token=" + token
}

func (s *PairingService) inviterName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.DisplayName
}

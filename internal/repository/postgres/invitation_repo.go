package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

type InvitationRepo struct {
	pool *pgxpool.Pool
}

func NewInvitationRepo(pool *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{pool: pool}
}

func (r *InvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (id, inviter_id, invitee_email, status, token, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.InviterID, inv.InviteeEmail, inv.Status,
		inv.Token, inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	return r.scanInvitation(ctx,
		"SELECT id, inviter_id, invitee_email, status, token, expires_at, created_at, updated_at FROM invitations WHERE token = $1",
		token)
}

func (r *InvitationRepo) GetPending(ctx context.Context, inviterID uuid.UUID, inviteeEmail string) (*domain.Invitation, error) {
	return r.scanInvitation(ctx,
		"SELECT id, inviter_id, invitee_email, status, token, expires_at, created_at, updated_at FROM invitations WHERE inviter_id = $1 AND invitee_email = $2 AND status = 'pending'",
		inviterID, inviteeEmail)
}

// UpdateStatus is a compare-and-swap on the status column. The returned bool
// is false when the row was not in the from state (or does not exist).
func (r *InvitationRepo) UpdateStatus(ctx context.Context, token string, from, to domain.InvitationStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = $1, updated_at = NOW() WHERE token = $2 AND status = $3`,
		to, token, from,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Accept runs the whole acceptance as one transaction: CAS the invitation
// pending → accepted, record the invited email on the acceptor's profile,
// insert the couple and claim both profiles. Losing the CAS returns
// ErrNotPending; losing the couple insert or a profile claim returns
// ErrAlreadyPaired. Either way the rollback leaves the invitation pending,
// so a failed acceptance is safely retryable.
func (r *InvitationRepo) Accept(ctx context.Context, inv *domain.Invitation, couple *domain.Couple, acceptorID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE invitations SET status = 'accepted', updated_at = NOW() WHERE token = $1 AND status = 'pending'`,
		inv.Token,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return repository.ErrNotPending
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id, partner_email, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET partner_email = EXCLUDED.partner_email, updated_at = NOW()`,
		acceptorID, inv.InviteeEmail,
	)
	if err != nil {
		return err
	}

	if err := insertCouple(ctx, tx, couple); err != nil {
		return err
	}
	if err := claimProfiles(ctx, tx, couple); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *InvitationRepo) scanInvitation(ctx context.Context, query string, args ...any) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&inv.ID, &inv.InviterID, &inv.InviteeEmail, &inv.Status,
		&inv.Token, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

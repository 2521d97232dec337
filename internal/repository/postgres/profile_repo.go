package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tandem/internal/domain"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return r.scanProfile(ctx,
		"SELECT user_id, full_name, bio, avatar_url, partner_email, couple_id, created_at, updated_at FROM profiles WHERE user_id = $1",
		userID)
}

// Upsert inserts or updates the display fields of a profile. The couple_id
// column is deliberately not touched here; it is claimed only by the pairing
// transactions.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, bio, avatar_url, partner_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			partner_email = EXCLUDED.partner_email,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		p.UserID, p.FullName, p.Bio, p.AvatarURL, p.PartnerEmail,
	)
	return err
}

func (r *ProfileRepo) scanProfile(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.UserID, &p.FullName, &p.Bio, &p.AvatarURL,
		&p.PartnerEmail, &p.CoupleID, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

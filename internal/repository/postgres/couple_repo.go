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

type CoupleRepo struct {
	pool *pgxpool.Pool
}

func NewCoupleRepo(pool *pgxpool.Pool) *CoupleRepo {
	return &CoupleRepo{pool: pool}
}

// Create inserts the couple row and stamps couple_id onto both members'
// profiles in one transaction, so a couple row and its back-references are
// never observable in a half-written state.
func (r *CoupleRepo) Create(ctx context.Context, c *domain.Couple) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertCouple(ctx, tx, c); err != nil {
		return err
	}
	if err := claimProfiles(ctx, tx, c); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *CoupleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Couple, error) {
	return r.scanCouple(ctx, "SELECT id, user1_id, user2_id, created_at FROM couples WHERE id = $1", id)
}

func (r *CoupleRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Couple, error) {
	return r.scanCouple(ctx, "SELECT id, user1_id, user2_id, created_at FROM couples WHERE user1_id = $1 OR user2_id = $1", userID)
}

func (r *CoupleRepo) scanCouple(ctx context.Context, query string, arg any) (*domain.Couple, error) {
	var c domain.Couple
	err := r.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func insertCouple(ctx context.Context, tx pgx.Tx, c *domain.Couple) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO couples (id, user1_id, user2_id, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.User1ID, c.User2ID, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyPaired
	}
	return err
}

// claimProfiles sets couple_id on both members, guarded by couple_id IS NULL.
// A member whose profile is already claimed fails the whole transaction,
// which is what enforces one-couple-per-user under concurrent pairing.
func claimProfiles(ctx context.Context, tx pgx.Tx, c *domain.Couple) error {
	for _, userID := range []uuid.UUID{c.User1ID, c.User2ID} {
		tag, err := tx.Exec(ctx,
			`UPDATE profiles SET couple_id = $1, updated_at = NOW() WHERE user_id = $2 AND couple_id IS NULL`,
			c.ID, userID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return repository.ErrAlreadyPaired
		}
	}
	return nil
}

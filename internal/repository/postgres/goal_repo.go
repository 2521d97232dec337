package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tandem/internal/domain"
)

type GoalRepo struct {
	pool *pgxpool.Pool
}

func NewGoalRepo(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

func (r *GoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `
		INSERT INTO goals (id, couple_id, created_by, title, description, progress, target_date, color, emoji, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		g.ID, g.CoupleID, g.CreatedBy, g.Title, g.Description, g.Progress,
		g.TargetDate, g.Color, g.Emoji, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

func (r *GoalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	var g domain.Goal
	err := r.pool.QueryRow(ctx,
		"SELECT id, couple_id, created_by, title, description, progress, target_date, color, emoji, created_at, updated_at FROM goals WHERE id = $1",
		id,
	).Scan(
		&g.ID, &g.CoupleID, &g.CreatedBy, &g.Title, &g.Description, &g.Progress,
		&g.TargetDate, &g.Color, &g.Emoji, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepo) ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]domain.Goal, error) {
	query := `
		SELECT id, couple_id, created_by, title, description, progress, target_date, color, emoji, created_at, updated_at
		FROM goals
		WHERE couple_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(
			&g.ID, &g.CoupleID, &g.CreatedBy, &g.Title, &g.Description, &g.Progress,
			&g.TargetDate, &g.Color, &g.Emoji, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *GoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	query := `
		UPDATE goals
		SET title = $1, description = $2, progress = $3, target_date = $4, color = $5, emoji = $6, updated_at = NOW()
		WHERE id = $7`

	_, err := r.pool.Exec(ctx, query,
		g.Title, g.Description, g.Progress, g.TargetDate, g.Color, g.Emoji, g.ID,
	)
	return err
}

func (r *GoalRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE goals SET progress = $1, updated_at = NOW() WHERE id = $2`,
		progress, id,
	)
	return err
}

func (r *GoalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	return err
}

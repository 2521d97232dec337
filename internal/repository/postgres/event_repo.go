package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tandem/internal/domain"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, couple_id, created_by, title, date, type, description, color, emoji, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.CoupleID, e.CreatedBy, e.Title, e.Date, e.Type,
		e.Description, e.Color, e.Emoji, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var e domain.Event
	err := r.pool.QueryRow(ctx,
		"SELECT id, couple_id, created_by, title, date, type, description, color, emoji, created_at, updated_at FROM events WHERE id = $1",
		id,
	).Scan(
		&e.ID, &e.CoupleID, &e.CreatedBy, &e.Title, &e.Date, &e.Type,
		&e.Description, &e.Color, &e.Emoji, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepo) ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]domain.Event, error) {
	query := `
		SELECT id, couple_id, created_by, title, date, type, description, color, emoji, created_at, updated_at
		FROM events
		WHERE couple_id = $1
		ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.CoupleID, &e.CreatedBy, &e.Title, &e.Date, &e.Type,
			&e.Description, &e.Color, &e.Emoji, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, date = $2, type = $3, description = $4, color = $5, emoji = $6, updated_at = NOW()
		WHERE id = $7`

	_, err := r.pool.Exec(ctx, query,
		e.Title, e.Date, e.Type, e.Description, e.Color, e.Emoji, e.ID,
	)
	return err
}

func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

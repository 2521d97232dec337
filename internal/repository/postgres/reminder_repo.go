package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"tandem/internal/domain"
)

type ReminderRepo struct {
	pool *pgxpool.Pool
}

func NewReminderRepo(pool *pgxpool.Pool) *ReminderRepo {
	return &ReminderRepo{pool: pool}
}

func (r *ReminderRepo) Create(ctx context.Context, rm *domain.Reminder) error {
	query := `
		INSERT INTO reminders (id, couple_id, created_by, title, completed, due_date, shared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		rm.ID, rm.CoupleID, rm.CreatedBy, rm.Title, rm.Completed,
		rm.DueDate, rm.Shared, rm.CreatedAt, rm.UpdatedAt,
	)
	return err
}

func (r *ReminderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	var rm domain.Reminder
	err := r.pool.QueryRow(ctx,
		"SELECT id, couple_id, created_by, title, completed, due_date, shared, created_at, updated_at FROM reminders WHERE id = $1",
		id,
	).Scan(
		&rm.ID, &rm.CoupleID, &rm.CreatedBy, &rm.Title, &rm.Completed,
		&rm.DueDate, &rm.Shared, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *ReminderRepo) ListByCouple(ctx context.Context, coupleID uuid.UUID) ([]domain.Reminder, error) {
	query := `
		SELECT id, couple_id, created_by, title, completed, due_date, shared, created_at, updated_at
		FROM reminders
		WHERE couple_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		var rm domain.Reminder
		if err := rows.Scan(
			&rm.ID, &rm.CoupleID, &rm.CreatedBy, &rm.Title, &rm.Completed,
			&rm.DueDate, &rm.Shared, &rm.CreatedAt, &rm.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, rm)
	}
	return reminders, rows.Err()
}

func (r *ReminderRepo) Update(ctx context.Context, rm *domain.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $1, completed = $2, due_date = $3, shared = $4, updated_at = NOW()
		WHERE id = $5`

	_, err := r.pool.Exec(ctx, query,
		rm.Title, rm.Completed, rm.DueDate, rm.Shared, rm.ID,
	)
	return err
}

func (r *ReminderRepo) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE reminders SET completed = $1, updated_at = NOW() WHERE id = $2`,
		completed, id,
	)
	return err
}

func (r *ReminderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	return err
}

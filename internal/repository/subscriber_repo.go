package repository

import (
	"context"
	"fmt"

	"linkhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriberRepository interface {
	// Upsert inserts the subscriber or, when (user, email) exists, refreshes the name if one is given.
	Upsert(ctx context.Context, userID, email string, name *string) (*model.EmailSubscriber, error)
	ListByUser(ctx context.Context, userID string) ([]model.EmailSubscriber, error)
}

type subscriberRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepo(pool *pgxpool.Pool) SubscriberRepository {
	return &subscriberRepo{pool: pool}
}

func (r *subscriberRepo) Upsert(ctx context.Context, userID, email string, name *string) (*model.EmailSubscriber, error) {
	const q = `
		INSERT INTO email_subscribers (user_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, email) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, email_subscribers.name)
		RETURNING id, user_id, email, name, created_at`
	var s model.EmailSubscriber
	if err := r.pool.QueryRow(ctx, q, userID, email, name).Scan(&s.ID, &s.UserID, &s.Email, &s.Name, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("upsert subscriber for user %s: %w", userID, err)
	}
	return &s, nil
}

func (r *subscriberRepo) ListByUser(ctx context.Context, userID string) ([]model.EmailSubscriber, error) {
	const q = `
		SELECT id, user_id, email, name, created_at
		FROM email_subscribers
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscribers for user %s: %w", userID, err)
	}
	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EmailSubscriber, error) {
		var s model.EmailSubscriber
		err := row.Scan(&s.ID, &s.UserID, &s.Email, &s.Name, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan subscribers for user %s: %w", userID, err)
	}
	return subs, nil
}

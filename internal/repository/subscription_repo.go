package repository

import (
	"context"
	"fmt"

	"linkhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepository records billing writes so that each provider event is applied once.
type SubscriptionRepository interface {
	// ApplyOnce records ev and applies upd to ev.UserID in the same transaction.
	// It returns false without touching the user when ev was already recorded.
	ApplyOnce(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate) (bool, error)
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) ApplyOnce(ctx context.Context, ev model.PaymentEvent, upd model.BillingUpdate) (bool, error) {
	applied := false
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `
			INSERT INTO payment_events (provider, event_key, user_id, kind)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (provider, event_key) DO NOTHING`
		tag, err := tx.Exec(ctx, q, ev.Provider, ev.Key, ev.UserID, ev.Kind)
		if err != nil {
			return fmt.Errorf("record payment event %s/%s: %w", ev.Provider, ev.Key, err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		applied = true
		return updateBilling(ctx, tx, ev.UserID, upd)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

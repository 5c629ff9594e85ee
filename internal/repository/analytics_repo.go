package repository

import (
	"context"
	"fmt"
	"time"

	"linkhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository interface {
	RecordPageView(ctx context.Context, ev *model.AnalyticsEvent) error
	// RecordClick inserts the click and bumps the link counter atomically.
	// It returns false when the link does not belong to ev.UserID.
	RecordClick(ctx context.Context, ev *model.AnalyticsEvent) (bool, error)
	// CountEvents counts events of the given type; a zero since counts all time.
	CountEvents(ctx context.Context, userID, eventType string, since time.Time) (int, error)
	Breakdown(ctx context.Context, userID string, dimension Dimension, since time.Time) ([]model.Breakdown, error)
	DailyPageViews(ctx context.Context, userID string, since time.Time) ([]model.DailyCount, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Dimension is a groupable analytics column.
type Dimension string

const (
	DimensionDevice  Dimension = "device"
	DimensionBrowser Dimension = "browser"
	DimensionCountry Dimension = "country"
)

type analyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepo{pool: pool}
}

const insertEvent = `
	INSERT INTO analytics (user_id, link_id, type, device, browser, referer, country)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at`

func (r *analyticsRepo) RecordPageView(ctx context.Context, ev *model.AnalyticsEvent) error {
	ev.Type = model.EventPageView
	err := r.pool.QueryRow(ctx, insertEvent, ev.UserID, nil, ev.Type, ev.Device, ev.Browser, ev.Referer, ev.Country).
		Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("record page view for user %s: %w", ev.UserID, err)
	}
	return nil
}

func (r *analyticsRepo) RecordClick(ctx context.Context, ev *model.AnalyticsEvent) (bool, error) {
	ev.Type = model.EventLinkClick
	found := false
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = $1 AND user_id = $2`, ev.LinkID, ev.UserID)
		if err != nil {
			return fmt.Errorf("increment clicks: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		found = true
		return tx.QueryRow(ctx, insertEvent, ev.UserID, ev.LinkID, ev.Type, ev.Device, ev.Browser, ev.Referer, ev.Country).
			Scan(&ev.ID, &ev.CreatedAt)
	})
	if err != nil {
		return false, fmt.Errorf("record click for user %s: %w", ev.UserID, err)
	}
	return found, nil
}

func (r *analyticsRepo) CountEvents(ctx context.Context, userID, eventType string, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM analytics WHERE user_id = $1 AND type = $2 AND created_at >= $3`
	var n int
	if err := r.pool.QueryRow(ctx, q, userID, eventType, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s for user %s: %w", eventType, userID, err)
	}
	return n, nil
}

func (r *analyticsRepo) Breakdown(ctx context.Context, userID string, dimension Dimension, since time.Time) ([]model.Breakdown, error) {
	switch dimension {
	case DimensionDevice, DimensionBrowser, DimensionCountry:
	default:
		return nil, fmt.Errorf("unknown analytics dimension %q", dimension)
	}
	q := fmt.Sprintf(`
		SELECT COALESCE(%[1]s, 'unknown') AS value, COUNT(*) AS n
		FROM analytics
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY 1
		ORDER BY n DESC, value ASC`, dimension)
	rows, err := r.pool.Query(ctx, q, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%s breakdown for user %s: %w", dimension, userID, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Breakdown, error) {
		var b model.Breakdown
		err := row.Scan(&b.Value, &b.Count)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s breakdown: %w", dimension, err)
	}
	return out, nil
}

func (r *analyticsRepo) DailyPageViews(ctx context.Context, userID string, since time.Time) ([]model.DailyCount, error) {
	const q = `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*)
		FROM analytics
		WHERE user_id = $1 AND type = 'page_view' AND created_at >= $2
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.pool.Query(ctx, q, userID, since)
	if err != nil {
		return nil, fmt.Errorf("daily page views for user %s: %w", userID, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DailyCount, error) {
		var d model.DailyCount
		err := row.Scan(&d.Day, &d.Count)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan daily page views: %w", err)
	}
	return out, nil
}

func (r *analyticsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analytics WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete analytics before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

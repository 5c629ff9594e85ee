package repository

import (
	"context"
	"errors"
	"fmt"

	"linkhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LinkRepository interface {
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]model.Link, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, l *model.Link) error
	// Update and Delete match on both id and owner; a link owned by someone else is reported as missing.
	Update(ctx context.Context, id, userID string, upd model.LinkUpdate) (*model.Link, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	Reorder(ctx context.Context, userID string, ids []string) error
	TopByClicks(ctx context.Context, userID string, limit int) ([]model.Link, error)
	SumClicks(ctx context.Context, userID string) (int, error)
}

type linkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepo(pool *pgxpool.Pool) LinkRepository {
	return &linkRepo{pool: pool}
}

const linkColumns = `id, user_id, title, url, type, embed_url, is_active, clicks, sort_order, created_at, updated_at`

func scanLink(row pgx.Row) (*model.Link, error) {
	var l model.Link
	err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.URL, &l.Type, &l.EmbedURL, &l.IsActive, &l.Clicks, &l.Order, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLinks(rows pgx.Rows) ([]model.Link, error) {
	defer rows.Close()
	links := []model.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *linkRepo) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]model.Link, error) {
	q := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1`
	if activeOnly {
		q += ` AND is_active`
	}
	q += ` ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list links for user %s: %w", userID, err)
	}
	links, err := collectLinks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan links for user %s: %w", userID, err)
	}
	return links, nil
}

func (r *linkRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count links for user %s: %w", userID, err)
	}
	return n, nil
}

func (r *linkRepo) Create(ctx context.Context, l *model.Link) error {
	const q = `
		INSERT INTO links (user_id, title, url, type, embed_url, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING ` + linkColumns
	created, err := scanLink(r.pool.QueryRow(ctx, q, l.UserID, l.Title, l.URL, l.Type, l.EmbedURL, l.Order))
	if err != nil {
		return fmt.Errorf("insert link for user %s: %w", l.UserID, err)
	}
	*l = *created
	return nil
}

func (r *linkRepo) Update(ctx context.Context, id, userID string, upd model.LinkUpdate) (*model.Link, error) {
	var b updateBuilder
	if upd.Title != nil {
		b.set("title", *upd.Title)
	}
	if upd.URL != nil {
		b.set("url", *upd.URL)
	}
	if upd.IsActive != nil {
		b.set("is_active", *upd.IsActive)
	}
	if upd.Order != nil {
		b.set("sort_order", *upd.Order)
	}
	if upd.Type != nil {
		b.set("type", *upd.Type)
	}
	switch {
	case upd.ClearEmbedURL:
		b.setNull("embed_url")
	case upd.EmbedURL != nil:
		b.set("embed_url", *upd.EmbedURL)
	}

	var row pgx.Row
	if b.empty() {
		row = r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1 AND user_id = $2`, id, userID)
	} else {
		q, args := b.build("links", "id = ? AND user_id = ?", id, userID)
		row = r.pool.QueryRow(ctx, q+" RETURNING "+linkColumns, args...)
	}
	l, err := scanLink(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update link %s: %w", id, err)
	}
	return l, nil
}

func (r *linkRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete link %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *linkRepo) Reorder(ctx context.Context, userID string, ids []string) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, id := range ids {
			batch.Queue(`UPDATE links SET sort_order = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID, i)
		}
		res := tx.SendBatch(ctx, batch)
		for range ids {
			if _, err := res.Exec(); err != nil {
				res.Close()
				return fmt.Errorf("reorder links for user %s: %w", userID, err)
			}
		}
		return res.Close()
	})
}

func (r *linkRepo) TopByClicks(ctx context.Context, userID string, limit int) ([]model.Link, error) {
	q := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 ORDER BY clicks DESC, sort_order ASC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("top links for user %s: %w", userID, err)
	}
	links, err := collectLinks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan top links for user %s: %w", userID, err)
	}
	return links, nil
}

func (r *linkRepo) SumClicks(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(clicks), 0) FROM links WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("sum clicks for user %s: %w", userID, err)
	}
	return n, nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"linkhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.Profile, error)
}

type profileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepo{pool: pool}
}

const profileColumns = `user_id, background_color, button_style, button_color, text_color, font_family,
	theme, particle_effect, social_links, email_capture_enabled, email_capture_title,
	tip_jar_enabled, upi_id, tip_jar_title, tip_jar_description, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	var rawSocial []byte
	err := row.Scan(
		&p.UserID, &p.BackgroundColor, &p.ButtonStyle, &p.ButtonColor, &p.TextColor, &p.FontFamily,
		&p.Theme, &p.ParticleEffect, &rawSocial, &p.EmailCaptureEnabled, &p.EmailCaptureTitle,
		&p.TipJarEnabled, &p.UpiID, &p.TipJarTitle, &p.TipJarDescription, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(rawSocial) > 0 {
		if err := json.Unmarshal(rawSocial, &p.SocialLinks); err != nil {
			return nil, fmt.Errorf("unmarshal social_links: %w", err)
		}
	}
	return &p, nil
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("fetch profile for user %s: %w", userID, err)
	}
	return p, nil
}

func (r *profileRepo) Update(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.Profile, error) {
	var b updateBuilder
	setString := func(col string, v *string) {
		if v != nil {
			b.set(col, *v)
		}
	}
	setBool := func(col string, v *bool) {
		if v != nil {
			b.set(col, *v)
		}
	}
	setString("background_color", upd.BackgroundColor)
	setString("button_style", upd.ButtonStyle)
	setString("button_color", upd.ButtonColor)
	setString("text_color", upd.TextColor)
	setString("font_family", upd.FontFamily)
	setString("theme", upd.Theme)
	setString("particle_effect", upd.ParticleEffect)
	setBool("email_capture_enabled", upd.EmailCaptureEnabled)
	setString("email_capture_title", upd.EmailCaptureTitle)
	setBool("tip_jar_enabled", upd.TipJarEnabled)
	setString("upi_id", upd.UpiID)
	setString("tip_jar_title", upd.TipJarTitle)
	setString("tip_jar_description", upd.TipJarDescription)
	if upd.SocialLinks != nil {
		raw, err := json.Marshal(upd.SocialLinks)
		if err != nil {
			return nil, fmt.Errorf("marshal social_links: %w", err)
		}
		b.set("social_links", raw)
	}

	if b.empty() {
		return r.Get(ctx, userID)
	}
	q, args := b.build("profiles", "user_id = ?", userID)
	p, err := scanProfile(r.pool.QueryRow(ctx, q+" RETURNING "+profileColumns, args...))
	if err != nil {
		return nil, fmt.Errorf("update profile for user %s: %w", userID, err)
	}
	return p, nil
}

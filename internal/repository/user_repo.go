package repository

import (
	"context"
	"errors"
	"fmt"

	"linkhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	// CreateWithProfile inserts the user and a default profile in one transaction.
	CreateWithProfile(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByStripeSubscriptionID(ctx context.Context, subID string) (*model.User, error)
	GetByRazorpaySubscriptionID(ctx context.Context, subID string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// UsernameTaken reports whether another user (not excludeUserID) holds username, case-insensitively.
	UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateNameBio(ctx context.Context, id string, name, bio *string) error
	UpdateImage(ctx context.Context, id, image string) error
	UpdateCheckoutLocale(ctx context.Context, id, currency, country string) error
	UpdateBilling(ctx context.Context, id string, upd model.BillingUpdate) error
	Delete(ctx context.Context, id string) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `id, name, email, username, password_hash, image, bio,
	stripe_customer_id, stripe_subscription_id, razorpay_customer_id, razorpay_subscription_id,
	plan_id, subscription_end_date, currency, country, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash, &u.Image, &u.Bio,
		&u.StripeCustomerID, &u.StripeSubscriptionID, &u.RazorpayCustomerID, &u.RazorpaySubscriptionID,
		&u.PlanID, &u.SubscriptionEndDate, &u.Currency, &u.Country, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateWithProfile(ctx context.Context, u *model.User) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `
			INSERT INTO users (name, email, username, password_hash, image)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, q, u.Name, u.Email, u.Username, u.PasswordHash, u.Image).
			Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			switch {
			case isUniqueViolation(err, "users_email_key"):
				return ErrDuplicateEmail
			case isUniqueViolation(err, "users_username_key"), isUniqueViolation(err, "idx_users_username_lower"):
				return ErrDuplicateUsername
			}
			return fmt.Errorf("insert user: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, u.ID); err != nil {
			return fmt.Errorf("insert profile for user %s: %w", u.ID, err)
		}
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("fetch user by email: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username))
	if err != nil {
		return nil, fmt.Errorf("fetch user by username %s: %w", username, err)
	}
	return u, nil
}

func (r *userRepo) GetByStripeSubscriptionID(ctx context.Context, subID string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE stripe_subscription_id = $1`, subID))
	if err != nil {
		return nil, fmt.Errorf("fetch user by stripe subscription %s: %w", subID, err)
	}
	return u, nil
}

func (r *userRepo) GetByRazorpaySubscriptionID(ctx context.Context, subID string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE razorpay_subscription_id = $1 LIMIT 1`, subID))
	if err != nil {
		return nil, fmt.Errorf("fetch user by razorpay subscription %s: %w", subID, err)
	}
	return u, nil
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *userRepo) UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM users WHERE LOWER(username) = LOWER($1) AND ($2 = '' OR id::text <> $2)
	)`
	var taken bool
	if err := r.pool.QueryRow(ctx, q, username, excludeUserID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check username %s: %w", username, err)
	}
	return taken, nil
}

func (r *userRepo) UpdateUsername(ctx context.Context, id, username string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET username = $2, updated_at = NOW() WHERE id = $1`, id, username)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("update username for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateNameBio(ctx context.Context, id string, name, bio *string) error {
	var b updateBuilder
	if name != nil {
		b.set("name", *name)
	}
	if bio != nil {
		b.set("bio", *bio)
	}
	if b.empty() {
		return nil
	}
	q, args := b.build("users", "id = ?", id)
	if _, err := r.pool.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateImage(ctx context.Context, id, image string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE users SET image = $2, updated_at = NOW() WHERE id = $1`, id, image); err != nil {
		return fmt.Errorf("update image for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateCheckoutLocale(ctx context.Context, id, currency, country string) error {
	const q = `UPDATE users SET currency = $2, country = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, currency, country); err != nil {
		return fmt.Errorf("update checkout locale for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateBilling(ctx context.Context, id string, upd model.BillingUpdate) error {
	return updateBilling(ctx, r.pool, id, upd)
}

func updateBilling(ctx context.Context, db DBTX, id string, upd model.BillingUpdate) error {
	var b updateBuilder
	if upd.StripeCustomerID != nil {
		b.set("stripe_customer_id", *upd.StripeCustomerID)
	}
	switch {
	case upd.ClearStripeSubscription:
		b.setNull("stripe_subscription_id")
	case upd.StripeSubscriptionID != nil:
		b.set("stripe_subscription_id", *upd.StripeSubscriptionID)
	}
	if upd.RazorpayCustomerID != nil {
		b.set("razorpay_customer_id", *upd.RazorpayCustomerID)
	}
	switch {
	case upd.ClearRazorpaySubscription:
		b.setNull("razorpay_subscription_id")
	case upd.RazorpaySubscriptionID != nil:
		b.set("razorpay_subscription_id", *upd.RazorpaySubscriptionID)
	}
	if upd.ClearPlan {
		b.setNull("plan_id")
		b.setNull("subscription_end_date")
	} else {
		if upd.PlanID != nil {
			b.set("plan_id", *upd.PlanID)
		}
		if upd.SubscriptionEndDate != nil {
			b.set("subscription_end_date", *upd.SubscriptionEndDate)
		}
	}
	if b.empty() {
		return nil
	}
	q, args := b.build("users", "id = ?", id)
	if _, err := db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("update billing for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

package model

import "time"

// User represents a row in the users table, including the billing columns
// shared by both payment providers.
type User struct {
	ID           string
	Name         string
	Email        string
	Username     *string
	PasswordHash *string
	Image        *string
	Bio          *string

	StripeCustomerID       *string
	StripeSubscriptionID   *string
	RazorpayCustomerID     *string
	RazorpaySubscriptionID *string
	PlanID                 *string
	SubscriptionEndDate    *time.Time
	Currency               *string
	Country                *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPro reports whether the user holds a plan that has not yet expired.
func (u *User) IsPro(now time.Time) bool {
	if u == nil || u.PlanID == nil || *u.PlanID == "" {
		return false
	}
	return u.SubscriptionEndDate != nil && u.SubscriptionEndDate.After(now)
}

// Provider names the payment provider backing the current subscription, if any.
func (u *User) Provider() string {
	switch {
	case u.RazorpaySubscriptionID != nil && *u.RazorpaySubscriptionID != "":
		return ProviderRazorpay
	case u.StripeSubscriptionID != nil && *u.StripeSubscriptionID != "":
		return ProviderStripe
	case u.RazorpayCustomerID != nil && *u.RazorpayCustomerID != "":
		return ProviderRazorpay
	case u.StripeCustomerID != nil && *u.StripeCustomerID != "":
		return ProviderStripe
	}
	return ""
}

// UsernameOrEmpty dereferences Username.
func (u *User) UsernameOrEmpty() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
